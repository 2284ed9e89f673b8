// Package diagnostic provides structured errors and warnings for the
// accessor generator.
//
// Every engine failure is a single *Diagnostic carrying:
//   - a Code (UnsupportedShape, UnsupportedDirective, NameConflict)
//   - the source position of the offending construct
//   - the record and field being processed
//   - optional "did you mean" suggestions
//
// Diagnostics collects the failures of a whole run so that one bad record
// does not hide the others.
package diagnostic
