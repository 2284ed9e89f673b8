package plan

import (
	"slices"

	"gusket/internal/analyze"
)

// setterParamFallback names the setter parameter when the field name would
// shadow the receiver or a type parameter.
const setterParamFallback = "value"

// Synthesize produces the methods a resolved policy asks for: nothing when
// the field is not derived, a getter, and a mutable getter plus setter when
// the field is mutable. All methods share the field's documentation and the
// resolved visibility. Identifiers in scope are never reused: an exported
// getter named like a field takes a Get prefix, and the setter parameter
// avoids the receiver and the type parameters.
func Synthesize(recv Param, field analyze.FieldDescriptor, policy ResolvedPolicy, scope Scope) []MethodDefinition {
	if !policy.Derive {
		return nil
	}

	access := recv.Name + "." + field.Name

	name := getterName(field.Name, policy.Visibility)
	if policy.Visibility == analyze.VisibilityExported && slices.Contains(scope.Fields, name) {
		name = getterPrefix + name
	}

	getter := MethodDefinition{
		Kind:       MethodGetter,
		Name:       name,
		Visibility: policy.Visibility,
		Docs:       slices.Clone(field.Docs),
		Receiver:   recv,
		Result:     "*" + field.Type,
		Body:       "return &" + access,
		Field:      field.Name,
		Pos:        field.Pos,
	}

	if policy.ByValue {
		getter.Result = field.Type
		getter.Body = "return " + access
	}

	methods := []MethodDefinition{getter}

	if !policy.Mutable {
		return methods
	}

	taken := append([]string{recv.Name}, scope.TypeParams...)
	param := freeName(taken, field.Name, setterParamFallback)

	methods = append(methods,
		MethodDefinition{
			Kind:       MethodMutGetter,
			Name:       mutGetterName(field.Name, policy.Visibility),
			Visibility: policy.Visibility,
			Docs:       slices.Clone(field.Docs),
			Receiver:   recv,
			Result:     "*" + field.Type,
			Body:       "return &" + access,
			Field:      field.Name,
			Pos:        field.Pos,
		},
		MethodDefinition{
			Kind:       MethodSetter,
			Name:       setterName(field.Name, policy.Visibility),
			Visibility: policy.Visibility,
			Docs:       slices.Clone(field.Docs),
			Receiver:   recv,
			Params:     []Param{{Name: param, Type: field.Type}},
			Body:       access + " = " + param,
			Field:      field.Name,
			Pos:        field.Pos,
		},
	)

	return methods
}
