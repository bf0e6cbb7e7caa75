package services

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/custodia-labs/empire-ledger/internal/core/ports/driven"
)

// nopMetrics records nothing.
type nopMetrics struct{}

func (nopMetrics) ObserveRequest(string, string, time.Duration) {}
func (nopMetrics) ObserveParse(int, int, time.Duration)         {}
func (nopMetrics) ObserveSnapshot(bool)                         {}
func (nopMetrics) SetCachedDocuments(int)                       {}

func orNopMetrics(m driven.Metrics) driven.Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}

// hashText identifies in-memory text the way file content is identified.
func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
