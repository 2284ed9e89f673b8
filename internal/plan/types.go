package plan

import (
	"go/token"

	"gusket/internal/analyze"
	"gusket/internal/common"
	"gusket/internal/directive"
)

// ContainerDefaults holds the record-wide defaults every field starts from.
type ContainerDefaults struct {
	// Visibility starts as the record's own visibility.
	Visibility analyze.Visibility
	// Mutable starts true; //gusket:immut clears it.
	Mutable bool
	// DeriveAll starts false; //gusket:all sets it.
	DeriveAll bool
}

// FieldOptions is the parsed, not yet merged, directive of one field.
type FieldOptions struct {
	// Present is true whenever the field carries a gusket tag, even an
	// empty one. It is the opt-in signal on its own.
	Present bool
	// Entries are the parsed directives in source order.
	Entries []directive.Entry
}

// ResolvedPolicy is the final per-field decision.
type ResolvedPolicy struct {
	Derive     bool
	Visibility analyze.Visibility
	Mutable    bool
	ByValue    bool
}

// MethodKind identifies one member of the accessor trio.
type MethodKind int

const (
	MethodGetter    MethodKind = iota // Foo() *T or Foo() T
	MethodMutGetter                   // FooMut() *T
	MethodSetter                      // SetFoo(v T)
)

// String returns a human-readable representation of the MethodKind.
func (k MethodKind) String() string {
	switch k {
	case MethodGetter:
		return "getter"
	case MethodMutGetter:
		return "mut-getter"
	case MethodSetter:
		return "setter"
	default:
		return common.UnknownStr
	}
}

// Param is a named, typed parameter or receiver.
type Param struct {
	Name string
	Type string
}

// MethodDefinition fully describes one generated method. The emitter has no
// policy of its own and renders these as they are.
type MethodDefinition struct {
	Kind       MethodKind
	Name       string
	Visibility analyze.Visibility
	Docs       []string
	Receiver   Param
	Params     []Param
	Result     string // Empty when the method returns nothing
	Body       string // A single statement
	Field      string // Field the method accesses
	Pos        token.Position
}

// FieldPlan records what was decided for one field.
type FieldPlan struct {
	Field   string
	Type    string
	Policy  ResolvedPolicy
	Methods []string
}

// ImplBlock is the set of methods generated for one record.
type ImplBlock struct {
	Record  string
	PkgPath string
	// TypeParamsDecl is the declaration form, e.g. "[K comparable, V any]".
	TypeParamsDecl string
	// TypeParamsUsage is the usage form, e.g. "[K, V]".
	TypeParamsUsage string
	Methods         []MethodDefinition
	Imports         []analyze.Import
	Fields          []FieldPlan
}

// Scope lists the identifiers generated methods must not reuse.
type Scope struct {
	// Fields are the record's field names.
	Fields []string
	// TypeParams are the record's type parameter names.
	TypeParams []string
}

// Options tune a Process call.
type Options struct {
	// Receiver overrides the receiver name derived from the record name.
	Receiver string
}
