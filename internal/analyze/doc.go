// Package analyze loads Go packages and extracts the types that ask for
// accessors.
//
// It uses golang.org/x/tools/go/packages with AST and go/types. A type is
// selected when its doc comment carries a //gusket line or when one of its
// fields carries a gusket struct tag.
//
// Key types:
//   - RecordDescriptor: name, shape, type parameters, container directives
//   - FieldDescriptor: name, qualified type, docs, and the raw gusket tag
//   - Directive: unparsed directive text with its source position
package analyze
