// Package parser turns save text into domain nodes.
//
// The lexer produces typed tokens. The builder assembles blocks into
// Lists and Mappings without ever collapsing repeated keys. Top-level
// sections are built independently so a damaged section only costs
// itself: Scan and Entries stream one section (or one entry) at a time
// and never build sections the caller did not ask for.
//
// Save text is written with nested content indented. A key found at
// column 0 while a block is still open marks the block as unterminated;
// the builder reports a StructuralError for that section and resumes at
// the key.
package parser
