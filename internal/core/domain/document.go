package domain

import "time"

// NullID is the sentinel the save format writes for "no entity".
const NullID int64 = 4294967295

// DocumentInfo is metadata derived from a save when it is built.
type DocumentInfo struct {
	// ContentHash is the SHA-256 hex digest of the file bytes.
	ContentHash string `json:"content_hash"`

	// Path is where the bytes were read from, if anywhere.
	Path string `json:"path,omitempty"`

	// Date is the in-game date.
	Date Date `json:"date"`

	// PlayerID is the resolved player country id.
	PlayerID int64 `json:"player_id"`

	// PlayerResolved is false when the document has no player entry.
	PlayerResolved bool `json:"player_resolved"`

	// CampaignID is the galaxy identifier shared by every save of one game.
	CampaignID string `json:"campaign_id,omitempty"`

	// Version is the game version string.
	Version string `json:"version,omitempty"`

	// SaveName is the name the player gave the save.
	SaveName string `json:"name,omitempty"`

	// LoadedAt is when the document was built.
	LoadedAt time.Time `json:"loaded_at"`
}

// SectionFailure reports a top-level section that could not be built.
type SectionFailure struct {
	Section string `json:"section"`
	Kind    string `json:"kind"`
	Offset  int    `json:"offset"`
	Message string `json:"message"`
}

// SaveDocument is a parsed save. It is immutable once built and safe for
// concurrent readers. Views never hold references into it.
type SaveDocument struct {
	root   Node
	meta   Node
	text   string
	failed map[string]error
	errs   []error
	info   DocumentInfo
}

// NewSaveDocument assembles a document. root must be a Mapping of the
// top-level sections that built successfully; errs lists the sections that
// did not, each a *ParseError or *StructuralError naming its section.
func NewSaveDocument(root, meta Node, text string, errs []error, info DocumentInfo) *SaveDocument {
	failed := make(map[string]error, len(errs))
	for _, err := range errs {
		if name := failedSection(err); name != "" {
			if _, seen := failed[name]; !seen {
				failed[name] = err
			}
		}
	}
	return &SaveDocument{
		root:   root,
		meta:   meta,
		text:   text,
		failed: failed,
		errs:   append([]error(nil), errs...),
		info:   info,
	}
}

func failedSection(err error) string {
	switch e := err.(type) {
	case *ParseError:
		return e.Section
	case *StructuralError:
		return e.Section
	}
	return ""
}

// Root returns the top-level mapping.
func (d *SaveDocument) Root() Node { return d.root }

// Meta returns the parsed meta entry of a save archive, if any.
func (d *SaveDocument) Meta() Node { return d.meta }

// Text returns the decoded gamestate text.
func (d *SaveDocument) Text() string { return d.text }

// Info returns the derived metadata.
func (d *SaveDocument) Info() DocumentInfo { return d.info }

// Hash returns the content hash.
func (d *SaveDocument) Hash() string { return d.info.ContentHash }

// PlayerID returns the resolved player id.
func (d *SaveDocument) PlayerID() (int64, error) {
	if !d.info.PlayerResolved {
		return 0, ErrPlayerUnresolved
	}
	return d.info.PlayerID, nil
}

// WithPlayer returns a copy of the document resolved to another player.
func (d *SaveDocument) WithPlayer(id int64) *SaveDocument {
	cp := *d
	cp.info.PlayerID = id
	cp.info.PlayerResolved = true
	return &cp
}

// Section returns the first occurrence of a top-level section. A section
// that failed to build returns its build error; an absent one returns
// *SectionNotFoundError.
func (d *SaveDocument) Section(key string) (Node, error) {
	if n, ok := d.root.Get(key); ok {
		return n, nil
	}
	if err, ok := d.failed[key]; ok {
		return Node{}, err
	}
	return Node{}, &SectionNotFoundError{Section: key}
}

// Sections returns every occurrence of a top-level key.
func (d *SaveDocument) Sections(key string) []Node {
	return d.root.GetAll(key)
}

// Errors returns the build errors of failed sections.
func (d *SaveDocument) Errors() []error {
	return append([]error(nil), d.errs...)
}

// Failures renders build errors for reporting.
func (d *SaveDocument) Failures() []SectionFailure {
	out := make([]SectionFailure, 0, len(d.errs))
	for _, err := range d.errs {
		off, _ := ErrorOffset(err)
		out = append(out, SectionFailure{
			Section: failedSection(err),
			Kind:    ErrorKind(err),
			Offset:  off,
			Message: err.Error(),
		})
	}
	return out
}

// Partial reports whether any section failed to build.
func (d *SaveDocument) Partial() bool { return len(d.errs) > 0 }
