package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
	"github.com/custodia-labs/empire-ledger/internal/core/ports/driven"
	"github.com/custodia-labs/empire-ledger/internal/core/ports/driving"
	"github.com/custodia-labs/empire-ledger/internal/logger"
)

// Ensure Dispatcher implements the interface.
var _ driving.Dispatcher = (*Dispatcher)(nil)

// Dispatcher serves request envelopes. Every transport funnels through it,
// so deadlines, throttling, error rendering and metrics are uniform.
type Dispatcher struct {
	documents  driving.DocumentService
	extraction driving.ExtractionService
	briefing   driving.BriefingService
	history    driving.HistoryService
	metrics    driven.Metrics

	limiter   *rate.Limiter
	timeout   time.Duration
	batchSize int

	handlers map[string]handler
	order    []string
}

// handler runs one command and returns its data value.
type handler func(ctx context.Context, c *call) (any, error)

// call is one decoded request.
type call struct {
	id      string
	command string
	format  string
	args    arguments
	frames  *frameGuard
}

// arguments is the union of every command's arguments.
type arguments struct {
	Path         string   `json:"path"`
	PlayerID     *int64   `json:"player_id"`
	Format       string   `json:"format"`
	Name         string   `json:"name"`
	Query        string   `json:"query"`
	MaxResults   int      `json:"max_results"`
	ContextChars int      `json:"context_chars"`
	MaxOutput    int      `json:"max_output"`
	Sections     []string `json:"sections"`
	Section      string   `json:"section"`
	BatchSize    int      `json:"batch_size"`
	Key          string   `json:"key"`
	Keys         []string `json:"keys"`
	Fields       []string `json:"fields"`
	Tokens       []string `json:"tokens"`
	ProfileID    string   `json:"profile_id"`
	Limit        int      `json:"limit"`
	From         string   `json:"from"`
	To           string   `json:"to"`
}

// NewDispatcher creates a dispatcher. history may be nil, in which case
// history commands are not offered. metrics may be nil.
func NewDispatcher(
	documents driving.DocumentService,
	extraction driving.ExtractionService,
	briefing driving.BriefingService,
	history driving.HistoryService,
	metrics driven.Metrics,
	settings domain.BoundarySettings,
) *Dispatcher {
	limit := rate.Inf
	if settings.RateLimit > 0 {
		limit = rate.Limit(settings.RateLimit)
	}
	burst := max(settings.Burst, 1)
	d := &Dispatcher{
		documents:  documents,
		extraction: extraction,
		briefing:   briefing,
		history:    history,
		metrics:    orNopMetrics(metrics),
		limiter:    rate.NewLimiter(limit, burst),
		timeout:    settings.Timeout,
		batchSize:  settings.BatchSize,
		handlers:   make(map[string]handler),
	}
	if d.timeout <= 0 {
		d.timeout = domain.DefaultSettings().Boundary.Timeout
	}
	if d.batchSize <= 0 {
		d.batchSize = domain.DefaultSettings().Boundary.BatchSize
	}
	d.registerHandlers()
	return d
}

func (d *Dispatcher) register(command string, h handler) {
	if _, ok := d.handlers[command]; !ok {
		d.order = append(d.order, command)
	}
	d.handlers[command] = h
}

func (d *Dispatcher) registerHandlers() {
	for _, command := range d.extraction.Commands() {
		d.register(command, d.extract)
	}
	d.register(domain.CommandEmpire, d.empire)
	d.register(domain.CommandSearch, d.search)
	d.register(domain.CommandFullBriefing, d.fullBriefing)
	d.register(domain.CommandExtractSections, d.extractSections)
	d.register(domain.CommandIterSection, d.iterSection)
	d.register(domain.CommandGetEntry, d.getEntry)
	d.register(domain.CommandGetEntries, d.getEntries)
	d.register(domain.CommandCountKeys, d.countKeys)
	d.register(domain.CommandContainsTokens, d.containsTokens)
	if d.history != nil {
		d.register(domain.CommandHistoryRecord, d.historyRecord)
		d.register(domain.CommandHistoryList, d.historyList)
		d.register(domain.CommandHistoryDiff, d.historyDiff)
	}
}

// Commands lists accepted commands in registration order.
func (d *Dispatcher) Commands() []string {
	return append([]string(nil), d.order...)
}

// Dispatch runs one request.
func (d *Dispatcher) Dispatch(ctx context.Context, req domain.Request, w driving.FrameWriter) *domain.Response {
	start := time.Now()
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	resp := &domain.Response{RequestID: req.RequestID}

	data, err := d.run(ctx, req, w)
	elapsed := time.Since(start)
	resp.ElapsedMS = elapsed.Milliseconds()
	if err != nil {
		resp.Error = domain.NewErrorBody(err)
		d.metrics.ObserveRequest(req.Command, resp.Error.Kind, elapsed)
		logger.Debug("request %s %s failed after %s: %v", req.RequestID, req.Command, elapsed, err)
		return resp
	}
	resp.OK = true
	resp.Data = data
	d.metrics.ObserveRequest(req.Command, "", elapsed)
	logger.Debug("request %s %s ok in %s", req.RequestID, req.Command, elapsed)
	return resp
}

type outcome struct {
	value any
	err   error
}

func (d *Dispatcher) run(ctx context.Context, req domain.Request, w driving.FrameWriter) (json.RawMessage, error) {
	h, ok := d.handlers[req.Command]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCommand, req.Command)
	}
	args, err := decodeArguments(req.Arguments)
	if err != nil {
		return nil, err
	}
	format, err := resolveFormat(req.Command, args.Format, w)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, d.deadlineErr(ctx)
	}

	frames := &frameGuard{w: w}
	defer frames.close()
	c := &call{id: req.RequestID, command: req.Command, format: format, args: args, frames: frames}

	done := make(chan outcome, 1)
	go func() {
		v, err := h(ctx, c)
		done <- outcome{value: v, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			if ctx.Err() != nil {
				return nil, d.deadlineErr(ctx)
			}
			return nil, o.err
		}
		return encodeData(o.value, format)
	case <-ctx.Done():
		return nil, d.deadlineErr(ctx)
	}
}

// deadlineErr reports why ctx ended. A limiter refusal counts as a timeout
// since it means the wait would exceed the deadline.
func (d *Dispatcher) deadlineErr(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	return &domain.TimeoutError{After: d.timeout}
}

func decodeArguments(raw json.RawMessage) (arguments, error) {
	var args arguments
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return args, nil
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return args, &domain.SerializationError{Msg: "decode arguments", Err: err}
	}
	return args, nil
}

// resolveFormat picks the output format. jsonl streams frames and is only
// offered by iter_section, where it is the default when a frame writer
// is present.
func resolveFormat(command, format string, w driving.FrameWriter) (string, error) {
	switch format {
	case "":
		if command == domain.CommandIterSection && w != nil {
			return domain.FormatJSONL, nil
		}
		return domain.FormatJSON, nil
	case domain.FormatJSON, domain.FormatYAML:
		return format, nil
	case domain.FormatJSONL:
		if command != domain.CommandIterSection {
			return "", fmt.Errorf("%w: %s does not stream", domain.ErrUnsupportedFormat, command)
		}
		if w == nil {
			return "", fmt.Errorf("%w: transport cannot stream", domain.ErrUnsupportedFormat)
		}
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
}

// frameGuard forwards frames until the request finishes. A handler still
// running after a timeout cannot write into the next response.
type frameGuard struct {
	mu     sync.Mutex
	w      driving.FrameWriter
	closed bool
}

func (g *frameGuard) write(f domain.StreamFrame) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || g.w == nil {
		return context.Canceled
	}
	return g.w(f)
}

func (g *frameGuard) close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
}

// document loads the request's save, applying a player override.
func (d *Dispatcher) document(ctx context.Context, args arguments) (*domain.SaveDocument, error) {
	if args.Path == "" {
		return nil, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}
	doc, err := d.documents.Load(ctx, args.Path)
	if err != nil {
		return nil, err
	}
	if args.PlayerID != nil {
		doc = doc.WithPlayer(*args.PlayerID)
	}
	return doc, nil
}

// open returns the cached document for the request's save, or its raw
// text when no parsed copy is held.
func (d *Dispatcher) open(ctx context.Context, args arguments) (*domain.SaveDocument, *domain.RawSave, error) {
	if args.Path == "" {
		return nil, nil, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}
	return d.documents.Open(ctx, args.Path)
}

func (d *Dispatcher) extract(ctx context.Context, c *call) (any, error) {
	doc, err := d.document(ctx, c.args)
	if err != nil {
		return nil, err
	}
	return d.extraction.Extract(ctx, doc, c.command)
}

func (d *Dispatcher) empire(ctx context.Context, c *call) (any, error) {
	doc, err := d.document(ctx, c.args)
	if err != nil {
		return nil, err
	}
	return d.extraction.Empire(ctx, doc, c.args.Name)
}

func (d *Dispatcher) search(ctx context.Context, c *call) (any, error) {
	doc, err := d.document(ctx, c.args)
	if err != nil {
		return nil, err
	}
	return d.extraction.Search(ctx, doc, c.args.Query, domain.SearchOptions{
		MaxResults:   c.args.MaxResults,
		ContextChars: c.args.ContextChars,
		MaxOutput:    c.args.MaxOutput,
	})
}

func (d *Dispatcher) fullBriefing(ctx context.Context, c *call) (any, error) {
	doc, err := d.document(ctx, c.args)
	if err != nil {
		return nil, err
	}
	return d.briefing.Brief(ctx, doc)
}
