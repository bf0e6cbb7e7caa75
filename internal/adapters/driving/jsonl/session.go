// Package jsonl serves the request envelope as JSON lines over a pair of
// streams, typically stdin and stdout. Each input line is one request.
// Output lines are stream frames and terminal responses; they carry the
// request id so concurrent requests can be told apart.
package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
	"github.com/custodia-labs/empire-ledger/internal/core/ports/driving"
	"github.com/custodia-labs/empire-ledger/internal/logger"
)

// MaxLineBytes bounds a single request line.
const MaxLineBytes = 4 << 20

// DefaultConcurrency is the number of requests handled at once.
const DefaultConcurrency = 4

// Session reads requests from in and writes envelopes to out.
type Session struct {
	dispatcher  driving.Dispatcher
	in          io.Reader
	concurrency int

	mu  sync.Mutex
	enc *json.Encoder
}

// NewSession creates a session. A concurrency below one means one.
func NewSession(dispatcher driving.Dispatcher, in io.Reader, out io.Writer, concurrency int) *Session {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Session{
		dispatcher:  dispatcher,
		in:          in,
		concurrency: concurrency,
		enc:         json.NewEncoder(out),
	}
}

// Serve handles requests until the input ends or ctx is canceled, then
// waits for in-flight requests. Requests still running at cancellation are
// dropped by the dispatcher.
func (s *Session) Serve(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)

	for scanner.Scan() {
		if gctx.Err() != nil {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var req domain.Request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			s.reject(&domain.SerializationError{Msg: "decode request", Err: err})
			continue
		}

		g.Go(func() error {
			resp := s.dispatcher.Dispatch(gctx, req, s.writeFrame)
			if err := s.write(resp); err != nil {
				return fmt.Errorf("jsonl: write response: %w", err)
			}
			return nil
		})
	}

	scanErr := scanner.Err()
	if err := g.Wait(); err != nil {
		return err
	}
	if scanErr != nil {
		if errors.Is(scanErr, bufio.ErrTooLong) {
			return fmt.Errorf("jsonl: request line exceeds %d bytes", MaxLineBytes)
		}
		return fmt.Errorf("jsonl: read: %w", scanErr)
	}
	return nil
}

func (s *Session) reject(err error) {
	logger.Warn("jsonl: %v", err)
	_ = s.write(&domain.Response{OK: false, Error: domain.NewErrorBody(err)})
}

func (s *Session) writeFrame(frame domain.StreamFrame) error {
	return s.write(frame)
}

// write emits one line. Encoder.Encode appends the newline.
func (s *Session) write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(v)
}
