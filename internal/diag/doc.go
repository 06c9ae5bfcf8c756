// Package diag defines the diagnostic model shared by the model loader and
// the generation passes.
//
// # Purpose
//
//   - Provide deterministic data structures that capture the findings of
//     model loading, enum naming and action translation.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting layers.
//
// # Scope
//
// Package diag does not perform rendering beyond the one-line short form used
// by tests and the `check` command. Pretty and JSON rendering live in
// internal/diagfmt.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form
//     (MOD1001, GEN2001, ...).
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the source.Span of the offending reference token, rule or
//     symbol inside the grammar model file.
//   - Notes – optional secondary spans/messages, e.g. "first declared here"
//     for duplicate enum names.
//
// # Emitting diagnostics
//
// Generation errors are plain Go errors that also implement Coded. Phases
// return them; the driver feeds them to ReportErr, which splits joined errors
// and turns each one into a Diagnostic. Parallel passes wrap the reporter in a
// LockedReporter.
package diag
