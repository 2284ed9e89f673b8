package plan

import (
	"go/token"
	"slices"
	"strconv"
	"strings"

	"gusket/internal/analyze"
	"gusket/internal/common"
)

// getterPrefix starts exported getters that cannot use the bare field name.
const getterPrefix = "Get"

// defaultReceiver is used when the record name yields no usable letter.
const defaultReceiver = "r"

// receiverName returns the conventional receiver name for a type: its
// first letter, lower-cased. Names in taken are avoided.
func receiverName(record string, taken []string) string {
	name := strings.TrimLeft(record, "_")
	if name == "" {
		return freeName(taken, defaultReceiver)
	}

	first := common.LowerFirst(string([]rune(name)[0]))
	if !token.IsIdentifier(first) || token.IsKeyword(first) {
		return freeName(taken, defaultReceiver)
	}

	return freeName(taken, first, defaultReceiver)
}

// freeName returns the first candidate not in taken. When all are taken,
// the last candidate gets a numeric suffix.
func freeName(taken []string, candidates ...string) string {
	for _, c := range candidates {
		if !slices.Contains(taken, c) {
			return c
		}
	}

	last := candidates[len(candidates)-1]
	for i := 1; ; i++ {
		if c := last + strconv.Itoa(i); !slices.Contains(taken, c) {
			return c
		}
	}
}

// exportedBase returns the exported spelling of a field name, falling back
// to a prefix when the first rune has no upper case.
func exportedBase(field, prefix string) string {
	if up := common.UpperFirst(field); token.IsExported(up) {
		return up
	}

	return prefix + field
}

// getterName names the read-only accessor: Foo or getFoo.
func getterName(field string, vis analyze.Visibility) string {
	if vis == analyze.VisibilityExported {
		return exportedBase(field, getterPrefix)
	}

	return "get" + common.UpperFirst(field)
}

// mutGetterName names the mutable accessor: FooMut or fooMut.
func mutGetterName(field string, vis analyze.Visibility) string {
	if vis == analyze.VisibilityExported {
		return exportedBase(field, getterPrefix) + "Mut"
	}

	return common.LowerFirst(field) + "Mut"
}

// setterName names the setter: SetFoo or setFoo.
func setterName(field string, vis analyze.Visibility) string {
	if vis == analyze.VisibilityExported {
		return "Set" + common.UpperFirst(field)
	}

	return "set" + common.UpperFirst(field)
}
