package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLocalizedName tests localisation key rendering
func TestLocalizedName(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"AWAKENED_EMPIRE_3", "Awakened Empire 3"},
		{"AWAKENED_EMPIRE_xenophile", "Awakened Empire (Xenophile)"},
		{"FALLEN_EMPIRE_12", "Fallen Empire 12"},
		{"FALLEN_EMPIRE_spiritualist", "Fallen Empire (Spiritualist)"},
		{"NAME_United_Nations_of_Earth", "United Nations of Earth"},
		{"EMPIRE_DESIGN_humans1", "Humans 1"},
		{"EMPIRE_DESIGN_orbis", "Orbis"},
		{"EMPIRE_commonwealth_of_man", "Commonwealth Of Man"},
		{"COUNTRY_pirates", "Pirates"},
		{"CIV_marauders", "Marauders"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, localizedName(tt.key))
		})
	}
}

// TestCountryName tests literal, localised and templated names
func TestCountryName(t *testing.T) {
	doc := buildDoc(t, `country={
	0={
		name="Literal Name"
	}
	1={
		name={
			key="%ADJ%"
			variables={
				{
					key="adjective"
					value={
						key="ADJ_Blorg"
						variables={
							{
								key="1"
								value={
									key="%ADJECTIVE%"
								}
							}
						}
					}
				}
				{
					key="1"
					value={
						key="SUFFIX_Commonality"
					}
				}
			}
		}
	}
	2={
		name={
			key="%ADJ%"
			variables={
				{
					key="1"
					value={
						key="%ADJECTIVE%"
					}
				}
			}
		}
	}
	3={
		name={
			key="NAME_Kel_Azaan"
		}
	}
	4={
		military_power=1
	}
}
`)
	table, err := newScope(doc, playerOpts).countryTable()
	require.NoError(t, err)

	want := map[int64]string{
		0: "Literal Name",
		1: "Blorg Commonality",
		2: "Unknown Empire",
		3: "Kel Azaan",
		4: "",
	}
	for id, name := range want {
		c, ok := table.Get(id)
		require.True(t, ok)
		assert.Equal(t, name, countryName(c), id)
	}

	s := newScope(doc, playerOpts)
	assert.Equal(t, "Empire 4", s.countryName(4))
	assert.Equal(t, "Literal Name", s.empireName())
}

// TestLeaderName tests leader name forms
func TestLeaderName(t *testing.T) {
	doc := buildDoc(t, `leaders={
	1={
		name={
			full_names={
				key="HUMAN1_CHR_Ada"
			}
		}
	}
	2={
		name={
			full_names={
				key="NAME_Grace_Hopper"
			}
		}
	}
	3={
		name={
			full_names={
				key="%LEADER_2%"
				variables={
					{
						key="1"
						value={
							key="MAM4_CHR_Ziiro"
						}
					}
				}
			}
		}
	}
	4={
		class="admiral"
	}
	5={
		name={
			full_names={
				key="Tess"
			}
		}
	}
}
`)
	table, err := newScope(doc, playerOpts).table(sectionLeaders)
	require.NoError(t, err)

	want := map[int64]string{1: "Ada", 2: "Grace Hopper", 3: "Ziiro", 4: "Leader 4", 5: "Tess"}
	for id, name := range want {
		l, _ := table.Get(id)
		assert.Equal(t, name, leaderName(l, id), id)
	}
}

// TestFleetName tests fleet name forms
func TestFleetName(t *testing.T) {
	doc := buildDoc(t, `fleet={
	1={
		name="Home Guard"
	}
	2={
		name={
			key="%SEQ%"
			variables={
				{
					key="num"
					value={
						key="7"
					}
				}
			}
		}
	}
	3={
		name={
			key="%SEQ%"
		}
	}
	4={
		name={
			key="shipclass_science_ship_name"
		}
	}
	5={
		name={
			key="NAME_Red_Wing"
		}
	}
	6={
		name={
			key="TRANS_ARMY"
		}
	}
	7={
		name={
			key="HUMAN1_FLEET"
		}
	}
	8={
		ships={ 1 }
	}
}
`)
	table, err := newScope(doc, playerOpts).table(sectionFleet)
	require.NoError(t, err)

	want := map[int64]string{
		1: "Home Guard",
		2: "Fleet #7",
		3: "Fleet 3",
		4: "Science Ship",
		5: "Red Wing",
		6: "Transport Fleet",
		7: "Human1 Fleet",
		8: "Fleet 8",
	}
	for id, name := range want {
		f, _ := table.Get(id)
		assert.Equal(t, name, fleetName(f, id), id)
	}
}

// TestPlanetName tests planet name forms
func TestPlanetName(t *testing.T) {
	doc := buildDoc(t, `planets={
	1={
		name={
			key="NEW_COLONY_NAME_2"
			variables={
				{
					key="NAME"
					value={
						key="NAME_Alpha_Centauri"
					}
				}
			}
		}
	}
	2={
		name={
			key="NEW_COLONY_NAME_4"
		}
	}
	3={
		name={
			key="HABITAT_PLANET_NAME"
		}
	}
	4={
		name={
			key="SOL_PLANET_Mars"
		}
	}
	5={
		name={
			key="Custom"
		}
	}
	6={
		planet_size=3
	}
}
`)
	block, err := doc.Section(sectionPlanets)
	require.NoError(t, err)
	table := newIDTable(block)

	want := map[int64]string{
		1: "Alpha Centauri 2",
		2: "Colony 4",
		3: "Habitat",
		4: "Mars",
		5: "Custom",
		6: "Unknown",
	}
	for id, name := range want {
		p, _ := table.Get(id)
		assert.Equal(t, name, planetName(p), id)
	}
}
