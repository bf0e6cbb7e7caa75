package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
	"github.com/custodia-labs/empire-ledger/internal/core/ports/driving"
)

// fakeDispatcher echoes the command and streams two frames for "iter".
type fakeDispatcher struct {
	calls atomic.Int32
}

func (f *fakeDispatcher) Dispatch(_ context.Context, req domain.Request, w driving.FrameWriter) *domain.Response {
	f.calls.Add(1)
	if req.Command == "iter" {
		_ = w(domain.StreamFrame{RequestID: req.RequestID, Stream: true, Command: req.Command, Section: "country"})
		_ = w(domain.StreamFrame{RequestID: req.RequestID, Batch: 1, Entries: []domain.StreamEntry{
			{Key: "0", Value: domain.NewString("x", false)},
		}})
	}
	data, _ := json.Marshal(map[string]string{"command": req.Command})
	return &domain.Response{RequestID: req.RequestID, OK: true, Data: data}
}

func (f *fakeDispatcher) Commands() []string { return []string{"iter", "metadata"} }

func lines(t *testing.T, out *bytes.Buffer) []map[string]any {
	t.Helper()
	var result []map[string]any
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		result = append(result, m)
	}
	return result
}

func TestSession_Serve(t *testing.T) {
	in := strings.NewReader(`{"request_id":"a","command":"metadata"}` + "\n\n" +
		`{"request_id":"b","command":"iter"}` + "\n")
	var out bytes.Buffer

	err := NewSession(&fakeDispatcher{}, in, &out, 1).Serve(context.Background())
	require.NoError(t, err)

	got := lines(t, &out)
	require.Len(t, got, 4)
	assert.Equal(t, "a", got[0]["request_id"])
	assert.Equal(t, true, got[0]["ok"])
	assert.Equal(t, true, got[1]["stream"])
	assert.InDelta(t, 1, got[2]["batch"], 0)
	assert.Equal(t, "b", got[3]["request_id"])
	assert.Equal(t, map[string]any{"command": "iter"}, got[3]["data"])
}

func TestSession_MalformedLine(t *testing.T) {
	in := strings.NewReader("{not json\n" + `{"request_id":"ok","command":"metadata"}` + "\n")
	var out bytes.Buffer
	dispatcher := &fakeDispatcher{}

	err := NewSession(dispatcher, in, &out, 1).Serve(context.Background())
	require.NoError(t, err)

	got := lines(t, &out)
	require.Len(t, got, 2)
	assert.Equal(t, false, got[0]["ok"])
	errBody, ok := got[0]["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, domain.KindSerialization, errBody["kind"])
	assert.Equal(t, "ok", got[1]["request_id"])
	assert.Equal(t, int32(1), dispatcher.calls.Load())
}

func TestSession_Concurrent(t *testing.T) {
	var in strings.Builder
	for range 20 {
		in.WriteString(`{"command":"metadata"}` + "\n")
	}
	var out bytes.Buffer
	dispatcher := &fakeDispatcher{}

	err := NewSession(dispatcher, strings.NewReader(in.String()), &out, DefaultConcurrency).Serve(context.Background())
	require.NoError(t, err)

	assert.Len(t, lines(t, &out), 20)
	assert.Equal(t, int32(20), dispatcher.calls.Load())
}

func TestSession_LineTooLong(t *testing.T) {
	in := strings.NewReader(`{"command":"` + strings.Repeat("x", MaxLineBytes) + `"}` + "\n")
	var out bytes.Buffer

	err := NewSession(&fakeDispatcher{}, in, &out, 1).Serve(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestSession_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	dispatcher := &fakeDispatcher{}

	err := NewSession(dispatcher, strings.NewReader(`{"command":"metadata"}`+"\n"), &out, 1).Serve(ctx)

	require.NoError(t, err)
	assert.Equal(t, int32(0), dispatcher.calls.Load())
}
