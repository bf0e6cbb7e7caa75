package domain

// RawSave is a save file as read from disk, before parsing.
// Text fields are already decoded to UTF-8.
type RawSave struct {
	// Path is the file the save was read from.
	Path string

	// Gamestate is the decoded gamestate text.
	Gamestate string

	// Meta is the decoded meta entry of an archive. Empty for plain files.
	Meta string

	// ContentHash is the SHA-256 hex digest of the file bytes.
	ContentHash string

	// Encoding names the source text encoding ("utf-8" or "windows-1252").
	Encoding string

	// Archived is true when the save was a ZIP container.
	Archived bool

	// Size is the file size in bytes.
	Size int64
}

// ExtractOptions parameterize a category extraction.
type ExtractOptions struct {
	// PlayerID selects the country the views are written for.
	PlayerID int64

	// ListLimit truncates returned lists. Zero means unbounded.
	ListLimit int
}

// SearchOptions bound a text search. Values above the hard caps are clamped.
type SearchOptions struct {
	MaxResults   int
	ContextChars int
	MaxOutput    int
}
