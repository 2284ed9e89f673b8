package analyze

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders the record the way it is declared, e.g.
// "Box[K comparable, V any] (struct, 3 fields)".
func (r *RecordDescriptor) String() string {
	if r == nil {
		return "<nil>"
	}

	return fmt.Sprintf("%s%s (%s, %d fields)", r.Name, r.TypeParamsDecl(), r.Shape, len(r.Fields))
}

// String renders the field as a struct field line, including its directive.
func (f FieldDescriptor) String() string {
	var sb strings.Builder

	if !f.Embedded {
		sb.WriteString(f.Name)
		sb.WriteByte(' ')
	}

	sb.WriteString(f.Type)

	if f.Directive.Present {
		sb.WriteString(" `" + TagKey + ":" + strconv.Quote(f.Directive.Text) + "`")
	}

	return sb.String()
}
