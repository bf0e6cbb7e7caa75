package driving

import (
	"context"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// FrameWriter receives intermediate frames of a streamed response.
type FrameWriter func(frame domain.StreamFrame) error

// Dispatcher serves the request boundary shared by every transport.
type Dispatcher interface {
	// Dispatch runs one request. Streaming commands send frames to w before
	// the terminal response is returned; w may be nil for commands that do
	// not stream. Dispatch never returns a nil response: failures are
	// carried in the envelope.
	Dispatch(ctx context.Context, req domain.Request, w FrameWriter) *domain.Response

	// Commands lists every command the dispatcher accepts.
	Commands() []string
}
