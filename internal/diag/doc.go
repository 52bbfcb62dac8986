// Package diag defines the non-fatal diagnostics collected while the type
// registry is built.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Subject – identity of the type the finding is about.
//   - Chain – provenance of the subject, from a root to the subject.
//
// Fatal conditions (configuration errors, incomplete program models) are Go
// errors returned by the registry; the CLI converts them to SevError
// diagnostics only for rendering.
//
// # Emitting diagnostics
//
// Producers hold a diag.Reporter. ReportWarning/ReportInfo build a diagnostic,
// WithChain attaches provenance, Emit forwards it exactly once. BagReporter
// collects into a bounded Bag which supports sorting and deduplication.
package diag
