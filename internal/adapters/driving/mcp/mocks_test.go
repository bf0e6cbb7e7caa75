package mcp

import (
	"context"
	"encoding/json"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
	"github.com/custodia-labs/empire-ledger/internal/core/ports/driving"
)

// mockDispatcher records the last request and answers with data or err.
type mockDispatcher struct {
	last domain.Request
	data string
	err  error
}

func (m *mockDispatcher) Dispatch(_ context.Context, req domain.Request, _ driving.FrameWriter) *domain.Response {
	m.last = req
	if m.err != nil {
		return &domain.Response{RequestID: req.RequestID, Error: domain.NewErrorBody(m.err)}
	}
	return &domain.Response{RequestID: req.RequestID, OK: true, Data: json.RawMessage(m.data)}
}

func (m *mockDispatcher) Commands() []string { return []string{"wars", "metadata"} }

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	profiles  []string
	snapshots []domain.Snapshot
	snapshot  *domain.Snapshot
	err       error
}

func (m *mockHistoryService) Record(context.Context, *domain.SaveDocument) (*domain.Snapshot, bool, error) {
	return m.snapshot, true, m.err
}

func (m *mockHistoryService) List(context.Context, string, int) ([]domain.Snapshot, error) {
	return m.snapshots, m.err
}

func (m *mockHistoryService) Get(context.Context, string) (*domain.Snapshot, error) {
	if m.snapshot == nil && m.err == nil {
		return nil, domain.ErrNotFound
	}
	return m.snapshot, m.err
}

func (m *mockHistoryService) Latest(context.Context, string) (*domain.Snapshot, error) {
	return m.snapshot, m.err
}

func (m *mockHistoryService) Profiles(context.Context) ([]string, error) {
	return m.profiles, m.err
}

func (m *mockHistoryService) Diff(context.Context, string, string) (*domain.Diff, error) {
	return &domain.Diff{}, m.err
}

func (m *mockHistoryService) DiffLatest(context.Context, string) (*domain.Diff, error) {
	return &domain.Diff{}, m.err
}
