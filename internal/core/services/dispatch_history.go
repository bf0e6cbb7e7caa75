package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// SnapshotSummary is a snapshot without its briefing.
type SnapshotSummary struct {
	domain.SnapshotRef
	ProfileID  string `json:"profile_id"`
	EmpireName string `json:"empire_name"`
	CapturedAt string `json:"captured_at"`
	Partial    bool   `json:"partial"`
}

// Summarize drops the briefing from a snapshot.
func Summarize(s *domain.Snapshot) SnapshotSummary {
	return SnapshotSummary{
		SnapshotRef: s.Ref(),
		ProfileID:   s.ProfileID,
		EmpireName:  s.EmpireName,
		CapturedAt:  s.CapturedAt.Format(time.RFC3339),
		Partial:     s.Briefing.Partial,
	}
}

// RecordResult is the data of history_record.
type RecordResult struct {
	Snapshot SnapshotSummary `json:"snapshot"`
	Created  bool            `json:"created"`
}

func (d *Dispatcher) historyRecord(ctx context.Context, c *call) (any, error) {
	doc, err := d.document(ctx, c.args)
	if err != nil {
		return nil, err
	}
	snap, created, err := d.history.Record(ctx, doc)
	if err != nil {
		return nil, err
	}
	return RecordResult{Snapshot: Summarize(snap), Created: created}, nil
}

// historyList lists a profile's snapshots, or the known profiles when no
// profile is named.
func (d *Dispatcher) historyList(ctx context.Context, c *call) (any, error) {
	if c.args.ProfileID == "" {
		profiles, err := d.history.Profiles(ctx)
		if err != nil {
			return nil, err
		}
		return struct {
			Profiles []string `json:"profiles"`
		}{append([]string{}, profiles...)}, nil
	}
	snaps, err := d.history.List(ctx, c.args.ProfileID, c.args.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]SnapshotSummary, len(snaps))
	for i := range snaps {
		out[i] = Summarize(&snaps[i])
	}
	return struct {
		ProfileID string            `json:"profile_id"`
		Snapshots []SnapshotSummary `json:"snapshots"`
	}{c.args.ProfileID, out}, nil
}

// historyDiff compares two snapshots by id, or a profile's two newest.
func (d *Dispatcher) historyDiff(ctx context.Context, c *call) (any, error) {
	switch {
	case c.args.From != "" && c.args.To != "":
		return d.history.Diff(ctx, c.args.From, c.args.To)
	case c.args.ProfileID != "":
		return d.history.DiffLatest(ctx, c.args.ProfileID)
	default:
		return nil, fmt.Errorf("%w: from and to, or profile_id, are required", domain.ErrInvalidInput)
	}
}
