package directive

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var directiveLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[=,()]`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

// list is the parse tree of one directive list.
type list struct {
	Entries []*entry `parser:"( @@ ( ',' @@ )* ','? )?"`
}

// entry is `key` or `key = visExpr`.
type entry struct {
	Pos   lexer.Position
	Key   string   `parser:"@Ident"`
	Value *visExpr `parser:"( '=' @@ )?"`
}

// visExpr is `pub`, `private` or `pub(self)`.
type visExpr struct {
	Pos   lexer.Position
	Name  string  `parser:"@Ident"`
	Scope *string `parser:"( '(' @Ident ')' )?"`
}

// String returns the expression as written, minus whitespace.
func (v *visExpr) String() string {
	if v.Scope == nil {
		return v.Name
	}

	return v.Name + "(" + *v.Scope + ")"
}

var listParser = participle.MustBuild[list](
	participle.Lexer(directiveLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)
