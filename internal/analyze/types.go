package analyze

import (
	"go/token"
	"strings"

	"gusket/internal/common"
)

// Visibility is the visibility of a type or of a generated method.
// Go carries visibility in the identifier case, so there are only two.
type Visibility int

const (
	VisibilityUnexported Visibility = iota
	VisibilityExported
)

// String returns a human-readable representation of the Visibility.
func (v Visibility) String() string {
	switch v {
	case VisibilityUnexported:
		return "unexported"
	case VisibilityExported:
		return "exported"
	default:
		return common.UnknownStr
	}
}

// VisibilityOf returns the visibility Go assigns to an identifier.
func VisibilityOf(name string) Visibility {
	if token.IsExported(name) {
		return VisibilityExported
	}

	return VisibilityUnexported
}

// Shape classifies a named type by what gusket can do with it.
type Shape int

const (
	ShapeStruct Shape = iota // struct with at least one named field
	ShapeEnum                // defined type over a basic type (type Color int)
	ShapeUnion               // interface, with or without a type set
	ShapeTuple               // struct whose fields are all embedded
	ShapeUnit                // struct{}
	ShapeOther               // map, slice, func, chan, pointer, array
)

// String returns a human-readable representation of the Shape.
func (s Shape) String() string {
	switch s {
	case ShapeStruct:
		return "struct"
	case ShapeEnum:
		return "enum"
	case ShapeUnion:
		return "union"
	case ShapeTuple:
		return "tuple"
	case ShapeUnit:
		return "unit"
	case ShapeOther:
		return "other"
	default:
		return common.UnknownStr
	}
}

// Directive is a raw gusket directive as found in the source.
type Directive struct {
	// Present reports whether the directive exists at all. A present
	// directive with empty Text is not the same as an absent one.
	Present bool
	// Text is the directive list, e.g. "copy,mut".
	Text string
	// Pos is the position of the first byte of Text.
	Pos token.Position
	// Malformed marks a //gusket line that is neither "//gusket" nor
	// "//gusket:<list>", e.g. "//gusket all". Text holds what follows the
	// marker.
	Malformed bool
}

// TypeParam is one type parameter of a generic record.
type TypeParam struct {
	Name       string // K
	Constraint string // comparable
}

// Decl returns the declaration form of the parameter ("K comparable").
func (p TypeParam) Decl() string {
	return p.Name + " " + p.Constraint
}

// Import is a package referenced by a field type.
type Import struct {
	Name string // Package name used in the type expression
	Path string // Import path
}

// FieldDescriptor describes one struct field.
type FieldDescriptor struct {
	Name      string         // Go field name ("_" for blank fields)
	Type      string         // Type expression, qualified relative to the record's package
	Imports   []Import       // Packages referenced by Type
	Docs      []string       // Documentation lines without the comment markers
	Pos       token.Position // Position of the field name, diagnostics only
	Embedded  bool           // Whether the field is embedded (anonymous)
	Directive Directive      // The gusket struct tag
}

// RecordDescriptor describes a named type that requested accessors.
type RecordDescriptor struct {
	Name       string
	PkgPath    string
	Shape      Shape
	TypeParams []TypeParam
	Visibility Visibility
	Pos        token.Position // Position of the type name
	// Containers holds one entry per //gusket doc line, in source order.
	Containers []Directive
	Fields     []FieldDescriptor
	// Methods are the names of methods declared on the type by hand.
	Methods []string
}

// TypeParamsDecl returns the bracketed declaration form ("[K comparable, V any]")
// or an empty string for non-generic records.
func (r *RecordDescriptor) TypeParamsDecl() string {
	if len(r.TypeParams) == 0 {
		return ""
	}

	parts := make([]string, 0, len(r.TypeParams))
	for _, p := range r.TypeParams {
		parts = append(parts, p.Decl())
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// TypeParamsUsage returns the bracketed usage form ("[K, V]")
// or an empty string for non-generic records.
func (r *RecordDescriptor) TypeParamsUsage() string {
	if len(r.TypeParams) == 0 {
		return ""
	}

	parts := make([]string, 0, len(r.TypeParams))
	for _, p := range r.TypeParams {
		parts = append(parts, p.Name)
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// FieldNames returns the names of all fields, embedded ones included,
// in declaration order. Blank fields are left out.
func (r *RecordDescriptor) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		if f.Name == "_" {
			continue
		}

		names = append(names, f.Name)
	}

	return names
}

// TypeParamNames returns the names of the record's type parameters.
func (r *RecordDescriptor) TypeParamNames() []string {
	names := make([]string, 0, len(r.TypeParams))
	for _, p := range r.TypeParams {
		names = append(names, p.Name)
	}

	return names
}

// Package holds the records found in one loaded package.
type Package struct {
	Path    string // Import path
	Name    string // Package name
	Dir     string // Directory of the package's files
	Records []*RecordDescriptor
}
