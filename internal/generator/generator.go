// Package generator turns parsed .props invocations into Go source.
//
// Every invocation produces a tagged union (a small integer type for unit-only
// enums, a closed interface with branch types otherwise) and a proptable.Table
// which keeps the record of every variant. Records are checked for completeness
// here, before any code is written: every field of the record type must be set
// either explicitly or through a default record.
package generator

import (
	"fmt"
	"go/scanner"
	"go/token"
	"strconv"

	"github.com/sirkon/gotify"

	"github.com/sirkon/go-enumprops/internal/grammar"
	"github.com/sirkon/go-enumprops/internal/record"
	"github.com/sirkon/go-enumprops/internal/render"
)

const (
	// RuntimePackage import path of the package generated code relies on
	RuntimePackage = "github.com/sirkon/go-enumprops/proptable"

	// DefaultMethod name of the projection method
	DefaultMethod = "Props"

	tagMethod    = "Tag"
	stringMethod = "String"
)

// Config generation settings
type Config struct {
	// Source name of the .props file for the header
	Source string

	// Package records of the package generated code belongs to
	Package *record.Package

	// Method projection method name, DefaultMethod if empty
	Method string

	// Pointer struct payload branches implement the union over pointer receivers
	Pointer bool
}

// Generate renders Go source for all enums of the file. The source is not formatted.
// Errors are returned as scanner.ErrorList with positions in the .props file.
func Generate(cfg Config, file *grammar.File) ([]byte, error) {
	if cfg.Method == "" {
		cfg.Method = DefaultMethod
	}
	if err := CheckMethod(cfg.Method); err != nil {
		return nil, err
	}

	g := &generator{
		cfg:    cfg,
		public: gotify.New(nil).Public,
		names:  map[string]string{},
	}
	for name := range cfg.Package.Records {
		g.names[name] = "type " + name + " of package " + cfg.Package.Name
	}

	var enums []*enum
	for _, e := range file.Enums {
		if res := g.analyze(e); res != nil {
			enums = append(enums, res)
		}
	}
	if len(g.errs) > 0 {
		g.errs.Sort()
		return nil, g.errs
	}

	var body render.Collector
	for _, e := range enums {
		g.union(&body, e)
		g.dispatch(&body, e)
		g.projection(&body, e)
	}

	var r render.Collector
	if cfg.Source != "" {
		r.Line(`// Code generated by go-enumprops from $0. DO NOT EDIT.`, cfg.Source)
	} else {
		r.Rawl(`// Code generated by go-enumprops. DO NOT EDIT.`)
	}
	r.Newl()
	r.Line(`package $0`, cfg.Package.Name)
	r.Newl()
	r.Rawl(`import (`)
	r.Rawl(`    "strconv"`)
	r.Newl()
	r.Line(`    "$0"`, RuntimePackage)
	for _, imp := range file.Imports {
		if imp.Name == "" && (imp.Path == "strconv" || imp.Path == RuntimePackage) {
			continue
		}
		if imp.Name != "" {
			r.Line(`    $0 $1`, imp.Name, strconv.Quote(imp.Path))
		} else {
			r.Line(`    $0`, strconv.Quote(imp.Path))
		}
	}
	r.Rawl(`)`)
	r.Newl()
	r.Append(&body)

	return r.Bytes(), nil
}

// CheckMethod checks if the name can be used for the projection method
func CheckMethod(name string) error {
	if !token.IsIdentifier(name) || !token.IsExported(name) {
		return fmt.Errorf("method name %s is not an exported Go identifier", name)
	}
	switch name {
	case tagMethod, stringMethod:
		return fmt.Errorf("method name %s clashes with generated %s method", name, name)
	}
	return nil
}

type generator struct {
	cfg    Config
	public func(string) string
	errs   scanner.ErrorList

	// names package level names of generated code and record types with their owners
	names map[string]string
}

func (g *generator) errorf(pos token.Position, format string, a ...interface{}) {
	g.errs.Add(pos, fmt.Sprintf(format, a...))
}
