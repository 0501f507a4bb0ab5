// Package record looks up record types in Go package sources.
package record

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/multierr"
)

// Package record types found in a package
type Package struct {
	Name    string
	Records map[string]*Struct
}

// Struct top level struct type of the package
type Struct struct {
	Pos    token.Position
	Name   string
	Fields []string
}

// Has checks if the struct has a field with the given name
func (s *Struct) Has(field string) bool {
	for _, f := range s.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// Load parses non-test Go files of the directory except ones listed in skip
func Load(dir string, skip ...string) (*Package, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read package directory: %w", err)
	}

	skipped := map[string]struct{}{}
	for _, s := range skip {
		skipped[filepath.Base(s)] = struct{}{}
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		if _, ok := skipped[name]; ok {
			continue
		}
		names = append(names, name)
	}
	sources := make(map[string]string, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		sources[path] = string(data)
	}

	return LoadSource(sources)
}

// LoadSource is Load for sources kept in memory, file names are only used for positions
func LoadSource(sources map[string]string) (*Package, error) {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	fset := token.NewFileSet()
	var files []*ast.File
	var err error
	for _, name := range names {
		file, parseErr := parser.ParseFile(fset, name, sources[name], parser.SkipObjectResolution)
		if parseErr != nil {
			err = multierr.Append(err, parseErr)
			continue
		}
		files = append(files, file)
	}
	if err != nil {
		return nil, err
	}

	return collect(fset, files)
}

func collect(fset *token.FileSet, files []*ast.File) (*Package, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no Go files found")
	}

	res := &Package{
		Records: map[string]*Struct{},
	}
	var err error
	for _, file := range files {
		switch {
		case res.Name == "":
			res.Name = file.Name.Name
		case res.Name != file.Name.Name:
			err = multierr.Append(err, fmt.Errorf(
				"%s: package %s differs from %s",
				fset.Position(file.Name.Pos()),
				file.Name.Name,
				res.Name,
			))
			continue
		}

		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)
				st, ok := ts.Type.(*ast.StructType)
				if !ok || ts.TypeParams != nil {
					continue
				}
				res.Records[ts.Name.Name] = &Struct{
					Pos:    fset.Position(ts.Pos()),
					Name:   ts.Name.Name,
					Fields: fieldNames(st),
				}
			}
		}
	}
	if err != nil {
		return nil, err
	}

	return res, nil
}

func fieldNames(st *ast.StructType) []string {
	var res []string
	for _, f := range st.Fields.List {
		if len(f.Names) > 0 {
			for _, n := range f.Names {
				if n.Name == "_" {
					continue
				}
				res = append(res, n.Name)
			}
			continue
		}

		// embedded field is named after its type
		if name := embeddedName(f.Type); name != "" {
			res = append(res, name)
		}
	}
	return res
}

func embeddedName(expr ast.Expr) string {
	switch v := expr.(type) {
	case *ast.Ident:
		return v.Name
	case *ast.StarExpr:
		return embeddedName(v.X)
	case *ast.SelectorExpr:
		return v.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(v.X)
	case *ast.IndexListExpr:
		return embeddedName(v.X)
	default:
		return ""
	}
}
