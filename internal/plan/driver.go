package plan

import (
	"slices"

	"gusket/internal/analyze"
	"gusket/internal/diagnostic"
	"gusket/internal/directive"
)

// Process validates record and builds its ImplBlock. Any problem aborts
// the whole record: the error is a *diagnostic.Diagnostic and no partial
// block is returned.
func Process(record *analyze.RecordDescriptor, opts Options) (*ImplBlock, error) {
	if err := checkShape(record); err != nil {
		return nil, err
	}

	defaults, err := containerDefaults(record)
	if err != nil {
		return nil, err
	}

	scope := Scope{
		Fields:     record.FieldNames(),
		TypeParams: record.TypeParamNames(),
	}

	recv := Param{
		Name: opts.Receiver,
		Type: "*" + record.Name + record.TypeParamsUsage(),
	}

	switch {
	case recv.Name == "":
		recv.Name = receiverName(record.Name, scope.TypeParams)
	case slices.Contains(scope.TypeParams, recv.Name):
		return nil, diagnostic.Errorf(diagnostic.CodeNameConflict, record.Pos,
			"receiver %s would have the same name as a type parameter", recv.Name).WithRecord(record.Name, "")
	}

	block := &ImplBlock{
		Record:          record.Name,
		PkgPath:         record.PkgPath,
		TypeParamsDecl:  record.TypeParamsDecl(),
		TypeParamsUsage: record.TypeParamsUsage(),
	}

	owners := make(map[string]string) // generated method name -> field

	for _, field := range record.Fields {
		if field.Embedded || field.Name == "_" {
			if field.Directive.Present {
				return nil, unsupportedField(record, field)
			}

			continue
		}

		entries, err := directive.Parse(directive.LevelField, field.Directive)
		if err != nil {
			return nil, withRecord(err, record.Name, field.Name)
		}

		policy := Resolve(defaults, FieldOptions{
			Present: field.Directive.Present,
			Entries: entries,
		})

		methods := Synthesize(recv, field, policy, scope)

		fp := FieldPlan{Field: field.Name, Type: field.Type, Policy: policy}

		for _, m := range methods {
			if err := checkConflict(record, field, m.Name, scope.Fields, owners); err != nil {
				return nil, err
			}

			owners[m.Name] = field.Name
			fp.Methods = append(fp.Methods, m.Name)
		}

		block.Methods = append(block.Methods, methods...)
		block.Fields = append(block.Fields, fp)

		if policy.Derive {
			block.Imports = appendImports(block.Imports, field.Imports)
		}
	}

	return block, nil
}

// checkShape rejects records that cannot carry accessors.
func checkShape(record *analyze.RecordDescriptor) error {
	var msg string

	switch record.Shape {
	case analyze.ShapeStruct:
		return nil
	case analyze.ShapeEnum:
		msg = "enum-shaped types are not supported"
	case analyze.ShapeUnion:
		msg = "interface and union types are not supported"
	case analyze.ShapeTuple:
		msg = "structs with only embedded fields are not supported"
	case analyze.ShapeUnit:
		msg = "empty structs are not supported"
	default:
		msg = "only struct types are supported"
	}

	return diagnostic.Errorf(diagnostic.CodeUnsupportedShape, record.Pos,
		"%s (%s has shape %s)", msg, record.Name, record.Shape).WithRecord(record.Name, "")
}

// containerDefaults applies every //gusket line of record, in order.
func containerDefaults(record *analyze.RecordDescriptor) (ContainerDefaults, error) {
	defaults := NewContainerDefaults(record)

	for _, d := range record.Containers {
		entries, err := directive.Parse(directive.LevelContainer, d)
		if err != nil {
			return ContainerDefaults{}, withRecord(err, record.Name, "")
		}

		defaults = defaults.Apply(entries)
	}

	return defaults, nil
}

func unsupportedField(record *analyze.RecordDescriptor, field analyze.FieldDescriptor) error {
	what := "embedded"
	if field.Name == "_" {
		what = "blank"
	}

	return diagnostic.Errorf(diagnostic.CodeUnsupportedShape, field.Pos,
		"%s fields cannot have accessors", what).WithRecord(record.Name, field.Name)
}

// checkConflict rejects a method name that is already taken by a field, by
// a hand-written method, or by a method generated for another field.
func checkConflict(
	record *analyze.RecordDescriptor,
	field analyze.FieldDescriptor,
	name string,
	fieldNames []string,
	owners map[string]string,
) error {
	if slices.Contains(fieldNames, name) {
		diag := diagnostic.Errorf(diagnostic.CodeNameConflict, field.Pos,
			"method %s would have the same name as field %s", name, name)
		diag.Suggestions = []string{"vis=unexported", "an unexported field name"}

		return diag.WithRecord(record.Name, field.Name)
	}

	if slices.Contains(record.Methods, name) {
		return diagnostic.Errorf(diagnostic.CodeNameConflict, field.Pos,
			"method %s is already declared on %s", name, record.Name).WithRecord(record.Name, field.Name)
	}

	if owner, ok := owners[name]; ok {
		return diagnostic.Errorf(diagnostic.CodeNameConflict, field.Pos,
			"method %s is already generated for field %s", name, owner).WithRecord(record.Name, field.Name)
	}

	return nil
}

func withRecord(err error, record, field string) error {
	if diag, ok := diagnostic.As(err); ok {
		return diag.WithRecord(record, field)
	}

	return err
}

func appendImports(dst, src []analyze.Import) []analyze.Import {
	for _, imp := range src {
		if !slices.Contains(dst, imp) {
			dst = append(dst, imp)
		}
	}

	return dst
}
