package analyze

import (
	"context"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
// NeedDeps makes go/packages type-check from source instead of compiling
// through export data, so compile errors arrive as TypeError.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports |
	packages.NeedDeps

// TagKey is the struct tag key holding field-level directives.
const TagKey = "gusket"

// containerMarker is the doc comment prefix of container-level directives.
const containerMarker = "//gusket"

var tagValueRe = regexp.MustCompile("(?:^`|\\s)" + TagKey + `:"`)

// LoaderConfig configures a Loader.
type LoaderConfig struct {
	// Dir is the working directory patterns are resolved against.
	Dir string
	// SkipFiles lists base names whose declarations are ignored, typically
	// the generated output itself so a stale file cannot break loading.
	SkipFiles []string
}

// Loader loads Go packages and extracts record descriptors.
type Loader struct {
	config LoaderConfig
}

// NewLoader creates a new Loader.
func NewLoader(config LoaderConfig) *Loader {
	return &Loader{config: config}
}

// Load loads the packages matching patterns and returns, for each of them,
// the types that carry a //gusket marker or at least one gusket field tag.
func (l *Loader) Load(ctx context.Context, patterns ...string) ([]*Package, error) {
	cfg := &packages.Config{
		Context:   ctx,
		Mode:      LoadMode,
		Dir:       l.config.Dir,
		ParseFile: l.parseFile,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Type errors are tolerated: code calling accessors that are not
	// generated yet must not prevent generating them.
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			if e.Kind != packages.TypeError {
				errs = append(errs, e)
			}
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	result := make([]*Package, 0, len(pkgs))
	for _, pkg := range pkgs {
		info, err := l.processPackage(pkg)
		if err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}

		result = append(result, info)
	}

	slices.SortFunc(result, func(a, b *Package) int {
		return strings.Compare(a.Path, b.Path)
	})

	return result, nil
}

// parseFile parses a file for go/packages, reducing skipped files to their
// package clause.
func (l *Loader) parseFile(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
	mode := parser.AllErrors | parser.ParseComments
	if slices.Contains(l.config.SkipFiles, filepath.Base(filename)) {
		mode = parser.PackageClauseOnly
	}

	return parser.ParseFile(fset, filename, src, mode)
}

// processPackage extracts records from a loaded package.
func (l *Loader) processPackage(pkg *packages.Package) (*Package, error) {
	info := &Package{
		Path: pkg.PkgPath,
		Name: pkg.Name,
	}

	if len(pkg.GoFiles) > 0 {
		info.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}

			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)

				doc := ts.Doc
				if doc == nil && !gd.Lparen.IsValid() {
					doc = gd.Doc
				}

				record, err := l.analyzeTypeSpec(pkg, ts, doc)
				if err != nil {
					return nil, err
				}

				if record != nil {
					info.Records = append(info.Records, record)
				}
			}
		}
	}

	return info, nil
}

// analyzeTypeSpec builds a record for ts, or returns nil when the type did
// not ask for accessors.
func (l *Loader) analyzeTypeSpec(
	pkg *packages.Package,
	ts *ast.TypeSpec,
	doc *ast.CommentGroup,
) (*RecordDescriptor, error) {
	containers := containerDirectives(pkg.Fset, doc)

	obj, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
	if !ok {
		return nil, fmt.Errorf("no type information for %s", ts.Name.Name)
	}

	record := &RecordDescriptor{
		Name:       ts.Name.Name,
		PkgPath:    pkg.PkgPath,
		Visibility: VisibilityOf(ts.Name.Name),
		Pos:        pkg.Fset.Position(ts.Name.Pos()),
		Containers: containers,
	}

	record.Shape = shapeOf(ts, obj)

	if ts.TypeParams != nil {
		for _, field := range ts.TypeParams.List {
			constraint, err := nodeString(pkg.Fset, field.Type)
			if err != nil {
				return nil, fmt.Errorf("printing constraint of %s: %w", ts.Name.Name, err)
			}

			for _, name := range field.Names {
				record.TypeParams = append(record.TypeParams, TypeParam{
					Name:       name.Name,
					Constraint: constraint,
				})
			}
		}
	}

	if named, ok := obj.Type().(*types.Named); ok {
		for i := range named.NumMethods() {
			record.Methods = append(record.Methods, named.Method(i).Name())
		}
	}

	st, isStruct := ts.Type.(*ast.StructType)
	if isStruct && !ts.Assign.IsValid() {
		tst, ok := obj.Type().Underlying().(*types.Struct)
		if !ok {
			return nil, fmt.Errorf("%s: struct without struct type", ts.Name.Name)
		}

		record.Fields = analyzeStructFields(pkg, st, tst)
	}

	if len(containers) == 0 && !hasFieldDirective(record.Fields) {
		return nil, nil
	}

	return record, nil
}

// shapeOf classifies a type declaration.
func shapeOf(ts *ast.TypeSpec, obj *types.TypeName) Shape {
	if ts.Assign.IsValid() {
		return ShapeOther
	}

	switch ut := obj.Type().Underlying().(type) {
	case *types.Struct:
		if ut.NumFields() == 0 {
			return ShapeUnit
		}

		for i := range ut.NumFields() {
			if !ut.Field(i).Embedded() {
				return ShapeStruct
			}
		}

		return ShapeTuple

	case *types.Basic:
		return ShapeEnum

	case *types.Interface:
		return ShapeUnion

	default:
		return ShapeOther
	}
}

// analyzeStructFields walks the AST and type-checked views of a struct side by side.
func analyzeStructFields(pkg *packages.Package, st *ast.StructType, tst *types.Struct) []FieldDescriptor {
	var (
		fields []FieldDescriptor
		index  int
	)

	for _, field := range st.Fields.List {
		directive := tagDirective(pkg.Fset, field.Tag)
		docs := docLines(field.Doc)

		if len(field.Names) == 0 {
			tf := tst.Field(index)
			index++

			typ, imports := qualifiedType(pkg.Types, tf.Type())
			fields = append(fields, FieldDescriptor{
				Name:      tf.Name(),
				Type:      typ,
				Imports:   imports,
				Docs:      docs,
				Pos:       pkg.Fset.Position(field.Type.Pos()),
				Embedded:  true,
				Directive: directive,
			})

			continue
		}

		for _, name := range field.Names {
			tf := tst.Field(index)
			index++

			typ, imports := qualifiedType(pkg.Types, tf.Type())
			fields = append(fields, FieldDescriptor{
				Name:      name.Name,
				Type:      typ,
				Imports:   imports,
				Docs:      docs,
				Pos:       pkg.Fset.Position(name.Pos()),
				Directive: directive,
			})
		}
	}

	return fields
}

// qualifiedType renders t relative to pkg and returns the packages it references.
func qualifiedType(pkg *types.Package, t types.Type) (string, []Import) {
	var imports []Import

	qualifier := func(other *types.Package) string {
		if other.Path() == pkg.Path() {
			return ""
		}

		imp := Import{Name: other.Name(), Path: other.Path()}
		if !slices.Contains(imports, imp) {
			imports = append(imports, imp)
		}

		return other.Name()
	}

	return types.TypeString(t, qualifier), imports
}

// containerDirectives extracts //gusket lines from a doc comment.
func containerDirectives(fset *token.FileSet, doc *ast.CommentGroup) []Directive {
	if doc == nil {
		return nil
	}

	var directives []Directive

	for _, c := range doc.List {
		rest, ok := strings.CutPrefix(c.Text, containerMarker)
		if !ok {
			continue
		}

		pos := fset.Position(c.Pos())

		switch {
		case rest == "" || strings.TrimSpace(rest) == "":
			pos.Column += len(containerMarker)
			pos.Offset += len(containerMarker)
			directives = append(directives, Directive{Present: true, Pos: pos})

		case rest[0] == ':':
			shift := len(containerMarker) + 1
			pos.Column += shift
			pos.Offset += shift
			directives = append(directives, Directive{Present: true, Text: rest[1:], Pos: pos})

		case !isIdentByte(rest[0]):
			// "//gusketry" is another word; "//gusket all" is ours, misspelled.
			pos.Column += len(containerMarker)
			pos.Offset += len(containerMarker)
			directives = append(directives, Directive{Present: true, Text: rest, Pos: pos, Malformed: true})
		}
	}

	return directives
}

// tagDirective looks up the gusket key of a struct tag literal.
func tagDirective(fset *token.FileSet, tag *ast.BasicLit) Directive {
	if tag == nil {
		return Directive{}
	}

	raw, err := strconv.Unquote(tag.Value)
	if err != nil {
		return Directive{}
	}

	value, ok := reflect.StructTag(raw).Lookup(TagKey)
	if !ok {
		return Directive{}
	}

	pos := fset.Position(tag.Pos())

	if loc := tagValueRe.FindStringIndex(tag.Value); loc != nil && tag.Value[0] == '`' {
		pos.Column += loc[1]
		pos.Offset += loc[1]
	}

	return Directive{Present: true, Text: value, Pos: pos}
}

// docLines returns the text lines of a doc comment.
func docLines(doc *ast.CommentGroup) []string {
	if doc == nil {
		return nil
	}

	text := strings.TrimRight(doc.Text(), "\n")
	if text == "" {
		return nil
	}

	return strings.Split(text, "\n")
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= utf8.RuneSelf ||
		'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

func hasFieldDirective(fields []FieldDescriptor) bool {
	return slices.ContainsFunc(fields, func(f FieldDescriptor) bool {
		return f.Directive.Present
	})
}

func nodeString(fset *token.FileSet, node ast.Node) (string, error) {
	var sb strings.Builder
	if err := format.Node(&sb, fset, node); err != nil {
		return "", err
	}

	return sb.String(), nil
}
