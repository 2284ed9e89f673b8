package plan

import (
	"gusket/internal/analyze"
	"gusket/internal/directive"
)

// NewContainerDefaults returns the implicit defaults of record: its own
// visibility, mutable accessors, and no field derived unless opted in.
func NewContainerDefaults(record *analyze.RecordDescriptor) ContainerDefaults {
	return ContainerDefaults{
		Visibility: record.Visibility,
		Mutable:    true,
		DeriveAll:  false,
	}
}

// Apply returns d with the container directives applied in order.
func (d ContainerDefaults) Apply(entries []directive.Entry) ContainerDefaults {
	for _, e := range entries {
		switch e.Kind {
		case directive.KindVis:
			d.Visibility = e.Visibility
		case directive.KindImmut:
			d.Mutable = false
		case directive.KindAll:
			d.DeriveAll = true
		}
	}

	return d
}

// Resolve merges container defaults with one field's options.
// Field entries are applied in order, so the last one wins.
func Resolve(defaults ContainerDefaults, opts FieldOptions) ResolvedPolicy {
	policy := ResolvedPolicy{
		Derive:     defaults.DeriveAll,
		Visibility: defaults.Visibility,
		Mutable:    defaults.Mutable,
		ByValue:    false,
	}

	if opts.Present {
		policy.Derive = true
	}

	for _, e := range opts.Entries {
		switch e.Kind {
		case directive.KindVis:
			policy.Visibility = e.Visibility
		case directive.KindImmut:
			policy.Mutable = false
		case directive.KindMut:
			policy.Mutable = true
		case directive.KindCopy:
			policy.ByValue = true
		case directive.KindSkip:
			policy.Derive = false
		}
	}

	return policy
}
