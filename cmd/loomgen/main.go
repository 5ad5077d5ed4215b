// loomgen generates loom builder declarations from annotated Go source.
//
// It scans a Go file for package-level string constants (or vars) whose
// declaration carries a //loom:build directive naming the lowered function
// and its parameters:
//
//	//loom:build sum(a, b)
//	const sumSrc = `a + b`
//
// and emits a sibling <input>_loom.go file (named after the scanned file)
// containing one builder per directive:
//
//	var SumBuilder = loom.MustLowerFunction(sumSrc, []string{"a", "b"})
//
// The generated builders lower at package init, so malformed embedded
// source fails the program before anything runs, and each invocation of a
// builder returns a fresh Function value.
//
// Usage:
//
//	loomgen -input file.go [-output file_loom.go]
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

const directivePrefix = "//loom:build "

type builderSpec struct {
	// Name is the loom-level function name from the directive.
	Name string
	// Params are the declared parameter names.
	Params []string
	// Source is the Go identifier of the string const/var holding the body.
	Source string
}

func main() {
	input := flag.String("input", "", "Go source file to scan for //loom:build directives")
	output := flag.String("output", "", "output file (default: <input>_loom.go)")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "loomgen: -input is required")
		os.Exit(2)
	}
	out := *output
	if out == "" {
		out = strings.TrimSuffix(*input, ".go") + "_loom.go"
	}

	if err := run(*input, out); err != nil {
		fmt.Fprintf(os.Stderr, "loomgen: %v\n", err)
		os.Exit(1)
	}
}

func run(input, output string) error {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, input, nil, parser.ParseComments)
	if err != nil {
		return err
	}

	specs, err := collectSpecs(file)
	if err != nil {
		return err
	}
	if len(specs) == 0 {
		return fmt.Errorf("%s: no //loom:build directives found", input)
	}

	src, err := render(file.Name.Name, filepath.Base(input), specs)
	if err != nil {
		return err
	}
	return os.WriteFile(output, src, 0o644)
}

// collectSpecs walks the file's declarations for annotated string
// const/var specs. The directive may sit on the GenDecl (single-spec
// declarations) or on the individual ValueSpec (grouped declarations).
func collectSpecs(file *ast.File) ([]builderSpec, error) {
	var specs []builderSpec
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || (gen.Tok != token.CONST && gen.Tok != token.VAR) {
			continue
		}
		for _, s := range gen.Specs {
			vs, ok := s.(*ast.ValueSpec)
			if !ok {
				continue
			}
			directive := findDirective(gen.Doc)
			if directive == "" {
				directive = findDirective(vs.Doc)
			}
			if directive == "" {
				continue
			}
			if len(vs.Names) != 1 {
				return nil, fmt.Errorf("directive %q must annotate a single declaration", directive)
			}
			name, params, err := parseDirective(directive)
			if err != nil {
				return nil, err
			}
			specs = append(specs, builderSpec{Name: name, Params: params, Source: vs.Names[0].Name})
		}
	}
	return specs, nil
}

func findDirective(doc *ast.CommentGroup) string {
	if doc == nil {
		return ""
	}
	for _, c := range doc.List {
		if strings.HasPrefix(c.Text, directivePrefix) {
			return strings.TrimSpace(strings.TrimPrefix(c.Text, directivePrefix))
		}
	}
	return ""
}

// parseDirective splits `name(p1, p2)` into the function name and its
// parameter list. A bare `name` or `name()` declares no parameters.
func parseDirective(directive string) (string, []string, error) {
	open := strings.IndexByte(directive, '(')
	if open < 0 {
		if !isIdent(directive) {
			return "", nil, fmt.Errorf("malformed directive %q", directive)
		}
		return directive, nil, nil
	}
	if !strings.HasSuffix(directive, ")") {
		return "", nil, fmt.Errorf("malformed directive %q", directive)
	}
	name := directive[:open]
	if !isIdent(name) {
		return "", nil, fmt.Errorf("malformed directive %q", directive)
	}
	inner := strings.TrimSpace(directive[open+1 : len(directive)-1])
	if inner == "" {
		return name, nil, nil
	}
	var params []string
	for _, p := range strings.Split(inner, ",") {
		p = strings.TrimSpace(p)
		if !isIdent(p) {
			return "", nil, fmt.Errorf("malformed parameter %q in directive %q", p, directive)
		}
		params = append(params, p)
	}
	return name, params, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

// exportedName turns a directive name into the generated builder's
// identifier: snake_case becomes CamelCase plus a Builder suffix, so
// `insertion_sort` yields InsertionSortBuilder.
func exportedName(name string) string {
	var sb strings.Builder
	upper := true
	for _, r := range name {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			sb.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		sb.WriteRune(r)
	}
	sb.WriteString("Builder")
	return sb.String()
}

func render(pkg, inputBase string, specs []builderSpec) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by loomgen from %s. DO NOT EDIT.\n\n", inputBase)
	fmt.Fprintf(&buf, "package %s\n\n", pkg)
	fmt.Fprintf(&buf, "import \"github.com/loomlang/loom/pkg/loom\"\n\n")
	for _, spec := range specs {
		fmt.Fprintf(&buf, "// %s builds a fresh Function for %s.\n", exportedName(spec.Name), spec.Name)
		fmt.Fprintf(&buf, "var %s = loom.MustLowerFunction(%s, %s)\n\n", exportedName(spec.Name), spec.Source, renderParams(spec.Params))
	}
	return format.Source(buf.Bytes())
}

func renderParams(params []string) string {
	if len(params) == 0 {
		return "nil"
	}
	quoted := make([]string, len(params))
	for i, p := range params {
		quoted[i] = fmt.Sprintf("%q", p)
	}
	return "[]string{" + strings.Join(quoted, ", ") + "}"
}
