package plan

import (
	"gopkg.in/yaml.v3"
)

// PolicyReport is the YAML shape printed by `gusket plan`.
type PolicyReport struct {
	Records []RecordReport `yaml:"records"`
}

// RecordReport describes the decisions taken for one record.
type RecordReport struct {
	Package    string        `yaml:"package"`
	Name       string        `yaml:"name"`
	TypeParams string        `yaml:"type_params,omitempty"`
	Fields     []FieldReport `yaml:"fields"`
}

// FieldReport describes the resolved policy of one field.
type FieldReport struct {
	Name       string   `yaml:"name"`
	Type       string   `yaml:"type"`
	Derive     bool     `yaml:"derive"`
	Visibility string   `yaml:"visibility,omitempty"`
	Mutable    bool     `yaml:"mutable,omitempty"`
	ByValue    bool     `yaml:"by_value,omitempty"`
	Methods    []string `yaml:"methods,omitempty"`
}

// ExportPolicies builds a report of every field decision in blocks.
// Visibility and mutability are only reported for derived fields.
func ExportPolicies(blocks []*ImplBlock) *PolicyReport {
	report := &PolicyReport{Records: []RecordReport{}}

	for _, b := range blocks {
		rr := RecordReport{
			Package:    b.PkgPath,
			Name:       b.Record,
			TypeParams: b.TypeParamsDecl,
			Fields:     []FieldReport{},
		}

		for _, f := range b.Fields {
			fr := FieldReport{
				Name:   f.Field,
				Type:   f.Type,
				Derive: f.Policy.Derive,
			}

			if f.Policy.Derive {
				fr.Visibility = f.Policy.Visibility.String()
				fr.Mutable = f.Policy.Mutable
				fr.ByValue = f.Policy.ByValue
				fr.Methods = f.Methods
			}

			rr.Fields = append(rr.Fields, fr)
		}

		report.Records = append(report.Records, rr)
	}

	return report
}

// ExportPoliciesYAML renders ExportPolicies as YAML.
func ExportPoliciesYAML(blocks []*ImplBlock) ([]byte, error) {
	return yaml.Marshal(ExportPolicies(blocks))
}
