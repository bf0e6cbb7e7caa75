// Package extractors turns parsed saves into category views.
//
// Every extractor is a pure function of a document and its options: it
// reads the tree through checked accessors, never mutates it, and returns
// a freshly allocated view. A missing primary section is reported as
// *domain.SectionNotFoundError so callers can degrade per category.
//
// Tables keyed by numeric id may repeat an id. The later entry replaces
// the earlier one and keeps the earlier one's position.
package extractors
