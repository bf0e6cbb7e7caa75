package domain

import (
	"crypto/sha1" //nolint:gosec // identifier derivation, not security
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Snapshot is a persisted briefing. Snapshots are append-only.
type Snapshot struct {
	// ID is a generated identifier.
	ID string `json:"id"`

	// ProfileID groups snapshots of one campaign and player.
	ProfileID string `json:"profile_id"`

	// GameDate is the in-game date of the save.
	GameDate string `json:"game_date"`

	// ContentHash identifies the save bytes. Unique across the store.
	ContentHash string `json:"content_hash"`

	// EmpireName is the player's empire at capture time.
	EmpireName string `json:"empire_name"`

	// CapturedAt is the wall-clock capture time.
	CapturedAt time.Time `json:"captured_at"`

	// Briefing is the full aggregate.
	Briefing Briefing `json:"briefing"`

	// Situation is the compact state read, used for crisis transitions.
	Situation *Situation `json:"situation,omitempty"`
}

// Ref returns the identifying fields of the snapshot.
func (s *Snapshot) Ref() SnapshotRef {
	return SnapshotRef{ID: s.ID, GameDate: s.GameDate, ContentHash: s.ContentHash}
}

// SnapshotRef identifies a snapshot inside a diff.
type SnapshotRef struct {
	ID          string `json:"id"`
	GameDate    string `json:"game_date"`
	ContentHash string `json:"content_hash"`
}

// ProfileID derives the save profile a document belongs to. The galaxy
// identifier plus player id is preferred; the empire name is the fallback.
func ProfileID(campaignID string, playerID int64, empireName string) string {
	var raw string
	if campaignID != "" {
		raw = fmt.Sprintf("campaign:%s|player:%d", campaignID, playerID)
	} else {
		name := strings.ToLower(strings.TrimSpace(empireName))
		if name == "" {
			name = "unknown"
		}
		raw = "empire:" + name
	}
	sum := sha1.Sum([]byte(raw)) //nolint:gosec // identifier derivation, not security
	return hex.EncodeToString(sum[:])[:16]
}

// GameDay orders snapshots by in-game date. Months are counted as 30 days,
// which preserves order. Unparseable dates sort first.
func (s *Snapshot) GameDay() int {
	d, err := ParseDate(s.GameDate)
	if err != nil {
		return 0
	}
	return d.Year*360 + (d.Month-1)*30 + d.Day - 1
}
