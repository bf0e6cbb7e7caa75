package extractors

import (
	"fmt"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
	"github.com/custodia-labs/empire-ledger/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps command names to extractors in registration order.
type Registry struct {
	extractors map[string]driven.Extractor
	order      []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[string]driven.Extractor),
	}
}

// Register adds an extractor under its own name. Registering a name twice
// replaces the extractor and keeps its position.
func (r *Registry) Register(e driven.Extractor) {
	name := e.Name()
	if _, ok := r.extractors[name]; !ok {
		r.order = append(r.order, name)
	}
	r.extractors[name] = e
}

// Get returns the extractor for a command.
func (r *Registry) Get(name string) (driven.Extractor, bool) {
	e, ok := r.extractors[name]
	return e, ok
}

// Has returns true if a command is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.extractors[name]
	return ok
}

// Names returns registered command names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Run looks up and runs an extractor.
func (r *Registry) Run(name string, doc *domain.SaveDocument, opts domain.ExtractOptions) (any, error) {
	e, ok := r.extractors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCommand, name)
	}
	return e.Extract(doc, opts)
}

// Func adapts a typed extraction function to driven.Extractor.
type Func[V any] struct {
	name string
	fn   func(doc *domain.SaveDocument, opts domain.ExtractOptions) (*V, error)
}

// New wraps fn as an extractor named name.
func New[V any](name string, fn func(doc *domain.SaveDocument, opts domain.ExtractOptions) (*V, error)) *Func[V] {
	return &Func[V]{name: name, fn: fn}
}

// Name returns the command the extractor serves.
func (f *Func[V]) Name() string { return f.name }

// Extract runs the wrapped function. A nil view is only returned with an
// error, so the result is never a typed nil.
func (f *Func[V]) Extract(doc *domain.SaveDocument, opts domain.ExtractOptions) (any, error) {
	if doc == nil {
		return nil, fmt.Errorf("%s: %w: nil document", f.name, domain.ErrInvalidInput)
	}
	v, err := f.fn(doc, opts)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// RegisterDefaults registers every category extractor.
func RegisterDefaults(r *Registry) {
	r.Register(New(domain.CommandMetadata, Metadata))
	r.Register(New(domain.CommandPlayerStatus, PlayerStatus))
	r.Register(New(domain.CommandWars, Wars))
	r.Register(New(domain.CommandFleets, Fleets))
	r.Register(New(domain.CommandResources, Resources))
	r.Register(New(domain.CommandDiplomacy, Diplomacy))
	r.Register(New(domain.CommandLeaders, Leaders))
	r.Register(New(domain.CommandTechnology, Technology))
	r.Register(New(domain.CommandPlanets, Planets))
	r.Register(New(domain.CommandStarbases, Starbases))
	r.Register(New(domain.CommandPolitics, Politics))
	r.Register(New(domain.CommandSpecies, Species))
	r.Register(New(domain.CommandMegastructures, Megastructures))
	r.Register(New(domain.CommandSituation, Situation))
}

// Defaults returns a registry holding every category extractor.
func Defaults() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}
