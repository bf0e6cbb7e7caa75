// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - SaveSource: Reads save files (ZIP archives or plain gamestate text)
//   - Extractor: Builds one category view from a parsed document
//   - ExtractorRegistry: Looks up extractors by command name
//   - SnapshotStore: Append-only snapshot persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Metrics: Request, parse and snapshot counters. A nil Metrics records nothing.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, parser, or extractor package
package driven
