package plan

import (
	"go/token"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gusket/internal/analyze"
	"gusket/internal/diagnostic"
)

func pos(line int) token.Position {
	return token.Position{Filename: "model.go", Line: line, Column: 2}
}

func tag(text string) analyze.Directive {
	return analyze.Directive{Present: true, Text: text, Pos: pos(1)}
}

func container(text string) []analyze.Directive {
	return []analyze.Directive{{Present: true, Text: text, Pos: pos(1)}}
}

func record(containers []analyze.Directive, fields ...analyze.FieldDescriptor) *analyze.RecordDescriptor {
	return &analyze.RecordDescriptor{
		Name:       "Widget",
		PkgPath:    "example/widgets",
		Shape:      analyze.ShapeStruct,
		Visibility: analyze.VisibilityExported,
		Pos:        pos(1),
		Containers: containers,
		Fields:     fields,
	}
}

func methodNames(block *ImplBlock) []string {
	names := make([]string, 0, len(block.Methods))
	for _, m := range block.Methods {
		names = append(names, m.Name)
	}

	return names
}

func requireDiagnostic(t *testing.T, err error, code string) *diagnostic.Diagnostic {
	t.Helper()
	require.Error(t, err)

	diag, ok := diagnostic.As(err)
	require.True(t, ok, "not a diagnostic: %v", err)
	assert.Equal(t, code, diag.Code)

	return diag
}

func TestProcess_EmptyTagDerivesTrio(t *testing.T) {
	rec := record(nil, analyze.FieldDescriptor{Name: "foo", Type: "Bar", Pos: pos(3), Directive: tag("")})

	block, err := Process(rec, Options{})
	require.NoError(t, err)
	require.Len(t, block.Methods, 3, spew.Sdump(block))

	assert.Equal(t, []string{"Foo", "FooMut", "SetFoo"}, methodNames(block))
	assert.Equal(t, "*Bar", block.Methods[0].Result)
	assert.Equal(t, "*Bar", block.Methods[1].Result)
	assert.Equal(t, []Param{{Name: "foo", Type: "Bar"}}, block.Methods[2].Params)

	for _, m := range block.Methods {
		assert.Equal(t, analyze.VisibilityExported, m.Visibility)
		assert.Equal(t, Param{Name: "w", Type: "*Widget"}, m.Receiver)
	}
}

func TestProcess_ContainerImmutDropsMutators(t *testing.T) {
	rec := record(container("immut"), analyze.FieldDescriptor{Name: "foo", Type: "Bar", Directive: tag("")})

	block, err := Process(rec, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Foo"}, methodNames(block))
}

func TestProcess_SkipWinsUnderAll(t *testing.T) {
	rec := record(container("all"),
		analyze.FieldDescriptor{Name: "foo", Type: "string"},
		analyze.FieldDescriptor{Name: "bar", Type: "uint32", Directive: tag("skip")},
	)

	block, err := Process(rec, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Foo", "FooMut", "SetFoo"}, methodNames(block))

	require.Len(t, block.Fields, 2)
	assert.False(t, block.Fields[1].Policy.Derive)
	assert.Empty(t, block.Fields[1].Methods)
}

func TestProcess_CopyReturnsByValue(t *testing.T) {
	rec := record(nil, analyze.FieldDescriptor{Name: "foo", Type: "Bar", Directive: tag("copy")})

	block, err := Process(rec, Options{})
	require.NoError(t, err)
	require.Len(t, block.Methods, 3)

	assert.Equal(t, "Bar", block.Methods[0].Result)
	assert.Equal(t, "return w.foo", block.Methods[0].Body)
	assert.Equal(t, "*Bar", block.Methods[1].Result)
	assert.Equal(t, "w.foo = foo", block.Methods[2].Body)
}

func TestProcess_UntaggedSiblingIsIgnored(t *testing.T) {
	rec := record(nil,
		analyze.FieldDescriptor{Name: "plain", Type: "int"},
		analyze.FieldDescriptor{Name: "tagged", Type: "int", Directive: tag("immut")},
	)

	block, err := Process(rec, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Tagged"}, methodNames(block))
}

func TestProcess_EnumIsRejected(t *testing.T) {
	rec := record(container(""))
	rec.Shape = analyze.ShapeEnum

	block, err := Process(rec, Options{})
	assert.Nil(t, block)

	diag := requireDiagnostic(t, err, diagnostic.CodeUnsupportedShape)
	assert.Equal(t, rec.Pos, diag.Pos)
	assert.Equal(t, "Widget", diag.Record)
}

func TestProcess_RejectedShapes(t *testing.T) {
	for _, shape := range []analyze.Shape{
		analyze.ShapeEnum, analyze.ShapeUnion, analyze.ShapeTuple, analyze.ShapeUnit, analyze.ShapeOther,
	} {
		t.Run(shape.String(), func(t *testing.T) {
			rec := record(nil, analyze.FieldDescriptor{Name: "foo", Type: "int", Directive: tag("")})
			rec.Shape = shape

			block, err := Process(rec, Options{})
			assert.Nil(t, block)
			requireDiagnostic(t, err, diagnostic.CodeUnsupportedShape)
		})
	}
}

func TestProcess_NothingDerivedWithoutOptIn(t *testing.T) {
	rec := record(nil,
		analyze.FieldDescriptor{Name: "a", Type: "int"},
		analyze.FieldDescriptor{Name: "b", Type: "string"},
	)

	block, err := Process(rec, Options{})
	require.NoError(t, err)
	assert.Empty(t, block.Methods)
	assert.Len(t, block.Fields, 2)
}

func TestProcess_ContainerVisAndFieldOverride(t *testing.T) {
	rec := record(container("all, vis=unexported"),
		analyze.FieldDescriptor{Name: "a", Type: "int"},
		analyze.FieldDescriptor{Name: "b", Type: "int", Directive: tag("vis=pub, immut")},
		analyze.FieldDescriptor{Name: "c", Type: "int", Directive: tag("vis=pub, vis=private, immut")},
	)

	block, err := Process(rec, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"getA", "aMut", "setA", "B", "getC"}, methodNames(block))
}

func TestProcess_MultipleContainerLinesApplyInOrder(t *testing.T) {
	containers := []analyze.Directive{
		{Present: true, Text: "vis=private", Pos: pos(1)},
		{Present: true, Text: "all,vis=pub", Pos: pos(2)},
	}
	rec := record(containers, analyze.FieldDescriptor{Name: "a", Type: "int"})

	block, err := Process(rec, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "AMut", "SetA"}, methodNames(block))
}

func TestProcess_MalformedFieldDirective(t *testing.T) {
	rec := record(nil,
		analyze.FieldDescriptor{Name: "ok", Type: "int", Directive: tag("")},
		analyze.FieldDescriptor{Name: "bad", Type: "int", Directive: tag("skip, readonly")},
	)

	block, err := Process(rec, Options{})
	assert.Nil(t, block)

	diag := requireDiagnostic(t, err, diagnostic.CodeUnsupportedDirective)
	assert.Equal(t, "Widget", diag.Record)
	assert.Equal(t, "bad", diag.Field)
}

func TestProcess_MalformedContainerDirective(t *testing.T) {
	rec := record(container("copy"), analyze.FieldDescriptor{Name: "a", Type: "int", Directive: tag("")})

	block, err := Process(rec, Options{})
	assert.Nil(t, block)

	diag := requireDiagnostic(t, err, diagnostic.CodeUnsupportedDirective)
	assert.Equal(t, "Widget", diag.Record)
	assert.Empty(t, diag.Field)
}

func TestProcess_EmbeddedFields(t *testing.T) {
	embedded := analyze.FieldDescriptor{Name: "Base", Type: "Base", Embedded: true}
	rec := record(container("all"), embedded, analyze.FieldDescriptor{Name: "id", Type: "int"})

	block, err := Process(rec, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Id", "IdMut", "SetId"}, methodNames(block))

	embedded.Directive = tag("")
	rec = record(nil, embedded, analyze.FieldDescriptor{Name: "id", Type: "int"})

	_, err = Process(rec, Options{})
	diag := requireDiagnostic(t, err, diagnostic.CodeUnsupportedShape)
	assert.Equal(t, "Base", diag.Field)
}

func TestProcess_BlankFields(t *testing.T) {
	rec := record(container("all"),
		analyze.FieldDescriptor{Name: "_", Type: "[0]func()"},
		analyze.FieldDescriptor{Name: "id", Type: "int"},
	)

	block, err := Process(rec, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Id", "IdMut", "SetId"}, methodNames(block))

	rec.Fields[0].Directive = tag("")

	_, err = Process(rec, Options{})
	requireDiagnostic(t, err, diagnostic.CodeUnsupportedShape)
}

func TestProcess_ExportedFieldGetterTakesGetPrefix(t *testing.T) {
	rec := record(nil, analyze.FieldDescriptor{Name: "Name", Type: "string", Pos: pos(4), Directive: tag("")})

	block, err := Process(rec, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"GetName", "NameMut", "SetName"}, methodNames(block))

	rec.Fields[0].Directive = tag("vis=unexported")

	block, err = Process(rec, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"getName", "nameMut", "setName"}, methodNames(block))
}

func TestProcess_AllWithExportedAndUnexportedFields(t *testing.T) {
	rec := record(container("all"),
		analyze.FieldDescriptor{Name: "ID", Type: "int"},
		analyze.FieldDescriptor{Name: "name", Type: "string"},
	)

	block, err := Process(rec, Options{})
	require.NoError(t, err, spew.Sdump(err))
	assert.Equal(t, []string{"GetID", "IDMut", "SetID", "Name", "NameMut", "SetName"}, methodNames(block))

	for _, f := range block.Fields {
		assert.True(t, f.Policy.Derive, f.Field)
	}
}

func TestProcess_NameConflictWithField(t *testing.T) {
	rec := record(nil,
		analyze.FieldDescriptor{Name: "name", Type: "string", Pos: pos(4), Directive: tag("")},
		analyze.FieldDescriptor{Name: "NameMut", Type: "bool", Pos: pos(5)},
	)

	block, err := Process(rec, Options{})
	assert.Nil(t, block)

	diag := requireDiagnostic(t, err, diagnostic.CodeNameConflict)
	assert.Equal(t, pos(4), diag.Pos)
	assert.Equal(t, "name", diag.Field)
	assert.Contains(t, diag.Message, "method NameMut would have the same name as field NameMut")

	rec.Fields[0].Directive = tag("immut")

	block, err = Process(rec, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Name"}, methodNames(block))
}

func TestProcess_NameConflictBetweenFields(t *testing.T) {
	// The getter of fooMut is named like the mutable getter of foo.
	rec := record(container("all"),
		analyze.FieldDescriptor{Name: "foo", Type: "string"},
		analyze.FieldDescriptor{Name: "fooMut", Type: "string"},
	)

	_, err := Process(rec, Options{})
	diag := requireDiagnostic(t, err, diagnostic.CodeNameConflict)
	assert.Equal(t, "fooMut", diag.Field)
	assert.Contains(t, diag.Message, "already generated for field foo")
}

func TestProcess_NameConflictWithDeclaredMethod(t *testing.T) {
	rec := record(nil, analyze.FieldDescriptor{Name: "label", Type: "string", Pos: pos(5), Directive: tag("")})
	rec.Methods = []string{"String", "SetLabel"}

	_, err := Process(rec, Options{})
	diag := requireDiagnostic(t, err, diagnostic.CodeNameConflict)
	assert.Equal(t, "label", diag.Field)
	assert.Contains(t, diag.Message, "SetLabel is already declared on Widget")

	rec.Fields[0].Directive = tag("immut")

	block, err := Process(rec, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Label"}, methodNames(block))
}

func TestProcess_Generics(t *testing.T) {
	rec := record(nil, analyze.FieldDescriptor{Name: "items", Type: "map[K]V", Directive: tag("")})
	rec.TypeParams = []analyze.TypeParam{
		{Name: "K", Constraint: "comparable"},
		{Name: "V", Constraint: "interface{ ~int | ~string }"},
	}

	block, err := Process(rec, Options{})
	require.NoError(t, err)

	assert.Equal(t, "[K comparable, V interface{ ~int | ~string }]", block.TypeParamsDecl)
	assert.Equal(t, "[K, V]", block.TypeParamsUsage)

	for _, m := range block.Methods {
		assert.Equal(t, "*Widget[K, V]", m.Receiver.Type)
	}
}

func TestProcess_TypeParamsAreNotShadowed(t *testing.T) {
	rec := record(nil, analyze.FieldDescriptor{Name: "V", Type: "V", Directive: tag("vis=priv")})
	rec.Name = "Box"
	rec.TypeParams = []analyze.TypeParam{{Name: "V", Constraint: "any"}, {Name: "b", Constraint: "any"}}

	block, err := Process(rec, Options{})
	require.NoError(t, err)
	require.Len(t, block.Methods, 3)

	setter := block.Methods[2]
	assert.Equal(t, "setV", setter.Name)
	assert.Equal(t, Param{Name: "r", Type: "*Box[V, b]"}, setter.Receiver)
	assert.Equal(t, []Param{{Name: "value", Type: "V"}}, setter.Params)
	assert.Equal(t, "r.V = value", setter.Body)
}

func TestProcess_ReceiverOverrideCollidesWithTypeParam(t *testing.T) {
	rec := record(nil, analyze.FieldDescriptor{Name: "v", Type: "T", Directive: tag("")})
	rec.TypeParams = []analyze.TypeParam{{Name: "T", Constraint: "any"}}

	_, err := Process(rec, Options{Receiver: "T"})
	diag := requireDiagnostic(t, err, diagnostic.CodeNameConflict)
	assert.Equal(t, rec.Pos, diag.Pos)
	assert.Equal(t, "Widget", diag.Record)
}

func TestProcess_ReceiverOverride(t *testing.T) {
	rec := record(nil, analyze.FieldDescriptor{Name: "foo", Type: "int", Directive: tag("")})

	block, err := Process(rec, Options{Receiver: "self"})
	require.NoError(t, err)
	assert.Equal(t, "return &self.foo", block.Methods[0].Body)
}

func TestProcess_ImportsOnlyFromDerivedFields(t *testing.T) {
	timeImport := analyze.Import{Name: "time", Path: "time"}
	urlImport := analyze.Import{Name: "url", Path: "net/url"}

	rec := record(nil,
		analyze.FieldDescriptor{Name: "at", Type: "time.Time", Imports: []analyze.Import{timeImport}, Directive: tag("")},
		analyze.FieldDescriptor{Name: "since", Type: "time.Time", Imports: []analyze.Import{timeImport}, Directive: tag("")},
		analyze.FieldDescriptor{Name: "link", Type: "*url.URL", Imports: []analyze.Import{urlImport}},
	)

	block, err := Process(rec, Options{})
	require.NoError(t, err)
	assert.Equal(t, []analyze.Import{timeImport}, block.Imports)
}

func TestProcess_DoesNotMutateRecord(t *testing.T) {
	rec := record(container("all"), analyze.FieldDescriptor{Name: "foo", Type: "int", Docs: []string{"doc"}})
	before := spew.Sdump(rec)

	_, err := Process(rec, Options{})
	require.NoError(t, err)
	assert.Equal(t, before, spew.Sdump(rec))
}
