// Package gen renders accessor methods into Go source.
//
// Generation uses text/template + go/format, one file per package:
//   - a "Code generated ... DO NOT EDIT." header
//   - imports collected from the types of derived fields
//   - one method per plan.MethodDefinition, in record then field order
//
// The generator has no policy of its own; every decision is already in the
// plan.ImplBlock it is given.
package gen
