package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"slices"
	"strings"
	"text/template"

	"gusket/internal/analyze"
	"gusket/internal/common"
	"gusket/internal/config"
	"gusket/internal/plan"
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// Filename is the base name of the generated file in each package.
	Filename string
	// Header is the first line of the generated file.
	Header string
	// DebugUnformatted writes a .unformatted.go sidecar when gofmt fails.
	DebugUnformatted bool
}

// ConfigFrom builds a GeneratorConfig from a loaded config file.
func ConfigFrom(cfg *config.Config) GeneratorConfig {
	return GeneratorConfig{
		Filename: cfg.Output,
		Header:   cfg.Header,
	}
}

// Generator renders implementation blocks into Go source files.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Dir is the package directory the file belongs to.
	Dir string
	// Filename is the base name of the file (e.g., "gusket_gen.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// importSpec represents an import statement.
type importSpec struct {
	Alias string
	Path  string
}

// templateData holds all data needed for the accessors template.
type templateData struct {
	Header      string
	PackageName string
	Imports     []importSpec
	Methods     []plan.MethodDefinition
}

// Generate renders the methods of blocks into one file for pkg.
// It returns nil when no block has any method.
func (g *Generator) Generate(pkg *analyze.Package, blocks []*plan.ImplBlock) (*GeneratedFile, error) {
	data := &templateData{
		Header:      g.config.Header,
		PackageName: pkg.Name,
	}

	for _, b := range blocks {
		data.Methods = append(data.Methods, b.Methods...)
	}

	if len(data.Methods) == 0 {
		return nil, nil
	}

	imports, err := collectImports(pkg.Path, blocks)
	if err != nil {
		return nil, err
	}

	data.Imports = imports

	var buf bytes.Buffer
	if err := accessorsTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		if g.config.DebugUnformatted && pkg.Dir != "" {
			_ = writeDebugUnformatted(pkg.Dir, g.config.Filename, buf.Bytes())
		}

		return nil, fmt.Errorf("formatting code for %s: %w", pkg.Path, err)
	}

	return &GeneratedFile{
		Dir:      pkg.Dir,
		Filename: g.config.Filename,
		Content:  formatted,
	}, nil
}

// collectImports merges the imports of all blocks, sorted by path.
// Two packages sharing a name cannot both be referenced unqualified.
func collectImports(pkgPath string, blocks []*plan.ImplBlock) ([]importSpec, error) {
	byName := make(map[string]string)

	var specs []importSpec

	for _, b := range blocks {
		for _, imp := range b.Imports {
			if imp.Path == pkgPath {
				continue
			}

			if other, ok := byName[imp.Name]; ok {
				if other != imp.Path {
					return nil, fmt.Errorf("packages %s and %s are both referenced as %s", other, imp.Path, imp.Name)
				}

				continue
			}

			byName[imp.Name] = imp.Path

			spec := importSpec{Path: imp.Path}
			if imp.Name != common.PkgAlias(imp.Path) {
				spec.Alias = imp.Name
			}

			specs = append(specs, spec)
		}
	}

	slices.SortFunc(specs, func(a, b importSpec) int {
		return strings.Compare(a.Path, b.Path)
	})

	return specs, nil
}

// docComment renders one documentation line.
func docComment(line string) string {
	if line == "" {
		return "//"
	}

	return "// " + line
}

// paramList renders "a T, b U".
func paramList(params []plan.Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.Name+" "+p.Type)
	}

	return strings.Join(parts, ", ")
}

var accessorsTemplate = template.Must(template.New("accessors").Funcs(template.FuncMap{
	"doc":    docComment,
	"params": paramList,
}).Parse(`{{.Header}}

package {{.PackageName}}
{{if .Imports}}
import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{end}}
{{range .Methods}}
{{range .Docs}}{{doc .}}
{{end}}func ({{.Receiver.Name}} {{.Receiver.Type}}) {{.Name}}({{params .Params}}){{if .Result}} {{.Result}}{{end}} {
	{{.Body}}
}
{{end}}`))
