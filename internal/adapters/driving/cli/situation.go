package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

var situationCmd = &cobra.Command{
	Use:   "situation [path]",
	Short: "Summarise the game state of a save",
	Long: `Prints the game phase, wars, contacts, allies and rivals, crisis state
and the player's economy at a glance.`,
	Args: cobra.ExactArgs(1),
	RunE: runSituation,
}

func init() {
	addPlayerFlag(situationCmd)
	rootCmd.AddCommand(situationCmd)
}

func runSituation(cmd *cobra.Command, args []string) error {
	if outputFormat != outputText {
		return runData(cmd, domain.CommandSituation, documentArgs(args[0]))
	}
	data, err := dispatch(cmd.Context(), domain.CommandSituation, documentArgs(args[0]), nil)
	if err != nil {
		return err
	}
	sit, err := decodeData[domain.Situation](data)
	if err != nil {
		return err
	}
	renderSituation(newPrinter(cmd.OutOrStdout()), sit)
	return nil
}

func renderSituation(p *printer, s *domain.Situation) {
	p.Title(fmt.Sprintf("Year %d (%s)", s.Year, strings.ReplaceAll(s.GamePhase, "_", " ")))

	if s.AtWar {
		p.Field("War", p.Bad(fmt.Sprintf("%d active: %s", s.WarCount, strings.Join(s.Wars, ", "))))
	} else {
		p.Field("War", p.Good("at peace"))
	}
	p.Field("Contacts", strconv.Itoa(s.ContactCount))
	p.Field("Allies", countryNames(s.Allies))
	p.Field("Rivals", countryNames(s.Rivals))
	if s.CrisisActive {
		p.Field("Crisis", p.Bad(s.CrisisType))
	} else {
		p.Field("Crisis", p.Muted("none"))
	}

	p.Blank()
	p.Title("Economy (monthly net)")
	e := s.Economy
	for _, row := range []struct {
		name  string
		value domain.Fixed
	}{
		{"Energy", e.EnergyNet},
		{"Minerals", e.MineralsNet},
		{"Food", e.FoodNet},
		{"Alloys", e.AlloysNet},
		{"Consumer goods", e.ConsumerGoodsNet},
		{"Research", e.ResearchNet},
	} {
		p.Field(row.name, signed(p, row.value))
	}
	if e.ResourcesInDeficit > 0 {
		p.Field("Deficits", p.Warn(strconv.Itoa(e.ResourcesInDeficit)))
	}
}

func countryNames(refs []domain.CountryRef) string {
	if len(refs) == 0 {
		return "none"
	}
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.EmpireName
	}
	return strings.Join(names, ", ")
}

// signed renders a decimal with an explicit sign, coloured by sign.
func signed(p *printer, v domain.Fixed) string {
	switch v.Sign() {
	case 1:
		return p.Good("+" + v.String())
	case -1:
		return p.Bad(v.String())
	default:
		return v.String()
	}
}
