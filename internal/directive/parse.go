package directive

import (
	"errors"
	"go/token"
	"slices"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"gusket/internal/analyze"
	"gusket/internal/common"
	"gusket/internal/diagnostic"
	"gusket/internal/match"
)

// Kind identifies what an Entry asks for.
type Kind int

const (
	KindVis   Kind = iota // vis = <visibility>
	KindImmut             // immut
	KindMut               // mut
	KindCopy              // copy
	KindSkip              // skip
	KindAll               // all (container only)
)

// String returns the keyword of the Kind.
func (k Kind) String() string {
	switch k {
	case KindVis:
		return "vis"
	case KindImmut:
		return "immut"
	case KindMut:
		return "mut"
	case KindCopy:
		return "copy"
	case KindSkip:
		return "skip"
	case KindAll:
		return "all"
	default:
		return common.UnknownStr
	}
}

// Level is where a directive list is attached.
type Level int

const (
	LevelContainer Level = iota // //gusket doc line on a type
	LevelField                  // gusket struct tag on a field
)

// String returns a human-readable representation of the Level.
func (l Level) String() string {
	switch l {
	case LevelContainer:
		return "container"
	case LevelField:
		return "field"
	default:
		return common.UnknownStr
	}
}

// keywords returns the keywords accepted at the level.
func (l Level) keywords() []string {
	if l == LevelContainer {
		return []string{"vis", "immut", "all"}
	}

	return []string{"vis", "immut", "mut", "copy", "skip"}
}

// Entry is one parsed directive.
type Entry struct {
	Kind Kind
	// Visibility is only meaningful for KindVis.
	Visibility analyze.Visibility
	// Pos is the position of the entry's keyword.
	Pos token.Position
}

var visibilities = map[string]analyze.Visibility{
	"pub":        analyze.VisibilityExported,
	"public":     analyze.VisibilityExported,
	"exported":   analyze.VisibilityExported,
	"priv":       analyze.VisibilityUnexported,
	"private":    analyze.VisibilityUnexported,
	"unexported": analyze.VisibilityUnexported,
	"pub(self)":  analyze.VisibilityUnexported,
}

// Parse parses the text of d into entries, in source order. An absent or
// empty directive yields no entries. The first problem found is returned
// as a *diagnostic.Diagnostic with code UnsupportedDirective.
func Parse(level Level, d analyze.Directive) ([]Entry, error) {
	if !d.Present {
		return nil, nil
	}

	if d.Malformed {
		diag := diagnostic.Errorf(diagnostic.CodeUnsupportedDirective, d.Pos,
			"malformed directive %q: expected //gusket or //gusket:<list>", strings.TrimSpace(d.Text))
		diag.Suggestions = []string{markerFix(d.Text)}

		return nil, diag
	}

	tree, err := listParser.ParseString(d.Pos.Filename, d.Text)
	if err != nil {
		return nil, syntaxError(d.Pos, err)
	}

	entries := make([]Entry, 0, len(tree.Entries))

	for _, e := range tree.Entries {
		pos := offset(d.Pos, e.Pos)

		kind, ok := kindOf(level, e.Key)
		if !ok {
			diag := diagnostic.Errorf(diagnostic.CodeUnsupportedDirective, pos,
				"unsupported %s directive %q", level, e.Key)
			diag.Suggestions = match.Suggest(e.Key, level.keywords())

			return nil, diag
		}

		entry := Entry{Kind: kind, Pos: pos}

		switch {
		case kind == KindVis && e.Value == nil:
			return nil, diagnostic.Errorf(diagnostic.CodeUnsupportedDirective, pos,
				"vis requires a value, e.g. vis=unexported")

		case kind == KindVis:
			vis, ok := visibilities[e.Value.String()]
			if !ok {
				diag := diagnostic.Errorf(diagnostic.CodeUnsupportedDirective, offset(d.Pos, e.Value.Pos),
					"malformed visibility expression %q", e.Value.String())
				diag.Suggestions = match.Suggest(e.Value.String(), visibilityNames())

				return nil, diag
			}

			entry.Visibility = vis

		case e.Value != nil:
			return nil, diagnostic.Errorf(diagnostic.CodeUnsupportedDirective, pos,
				"%s does not take a value", e.Key)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func kindOf(level Level, key string) (Kind, bool) {
	if !slices.Contains(level.keywords(), key) {
		return 0, false
	}

	switch key {
	case "vis":
		return KindVis, true
	case "immut":
		return KindImmut, true
	case "mut":
		return KindMut, true
	case "copy":
		return KindCopy, true
	case "skip":
		return KindSkip, true
	case "all":
		return KindAll, true
	default:
		return 0, false
	}
}

func visibilityNames() []string {
	names := make([]string, 0, len(visibilities))
	for name := range visibilities {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// markerFix spells a malformed container line the way it was likely meant.
func markerFix(text string) string {
	list := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(text), "=:"))
	if list == "" {
		return "//gusket"
	}

	return "//gusket:" + list
}

// syntaxError converts a participle error into a diagnostic.
func syntaxError(base token.Position, err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		return diagnostic.Errorf(diagnostic.CodeUnsupportedDirective,
			offset(base, perr.Position()), "malformed directive: %s", perr.Message())
	}

	return diagnostic.Errorf(diagnostic.CodeUnsupportedDirective, base, "malformed directive: %v", err)
}

// offset maps a position inside the directive text onto the source file.
func offset(base token.Position, p lexer.Position) token.Position {
	if p.Line == 0 {
		return base
	}

	pos := base
	pos.Offset += p.Offset

	if p.Line > 1 {
		pos.Line += p.Line - 1
		pos.Column = p.Column

		return pos
	}

	pos.Column += p.Column - 1

	return pos
}
