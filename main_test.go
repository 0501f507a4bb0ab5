package main

import (
	"go/parser"
	"go/scanner"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/sirkon/go-enumprops/internal/generator"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{
			file: "fruit.props",
			want: "fruit_props.go",
		},
		{
			file: filepath.Join("internal", "fruit", "fruit.props"),
			want: filepath.Join("internal", "fruit", "fruit_props.go"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			if got := outputPath(tt.file); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestProcess(t *testing.T) {
	file := filepath.Join("testdata", "planet", "planet.props")
	src, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}

	res, err := process(file, src, outputPath(file), generator.Config{Method: generator.DefaultMethod})
	if err != nil {
		t.Fatal(err)
	}

	fset := token.NewFileSet()
	out, err := parser.ParseFile(fset, "planet_props.go", res, parser.ParseComments)
	if err != nil {
		t.Fatalf("generated source is not valid Go: %s", err)
	}
	if out.Name.Name != "planet" {
		t.Errorf("got package %s, want planet", out.Name.Name)
	}

	var imports []string
	for _, imp := range out.Imports {
		imports = append(imports, imp.Path.Value)
	}
	wantImports := []string{`"math"`, `"strconv"`, `"` + generator.RuntimePackage + `"`}
	if diff := cmp.Diff(wantImports, imports, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("imports mismatch (-want +got):\n%s", diff)
	}

	source := string(res)
	for _, want := range []string{
		"// Code generated by go-enumprops from planet.props. DO NOT EDIT.",
		"type Planet uint8",
		"PlanetSaturn  Planet = 5",
		"var propsOfPlanet = proptable.NewEager(",
		"Rings:  rocky.Rings,",
		"type OrbitTag uint8",
		"type OrbitLow float64",
		"type OrbitTransfer struct {",
		"var propsOfOrbit = proptable.NewLazy(",
		"base := PlanetProperties{Mass: 5.976e+24}",
	} {
		if !strings.Contains(source, want) {
			t.Errorf("generated source has no %q:\n%s", want, source)
		}
	}
}

func TestProcessErrors(t *testing.T) {
	file := filepath.Join("testdata", "broken.props")
	src, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}

	_, err = process(file, src, outputPath(file), generator.Config{Method: generator.DefaultMethod})
	lst, ok := err.(scanner.ErrorList)
	if !ok {
		t.Fatalf("got %v, want scanner.ErrorList", err)
	}
	if len(lst) != 1 {
		t.Fatalf("got %d errors, want 1: %s", len(lst), lst)
	}
	if lst[0].Pos.Line != 4 || !strings.Contains(lst[0].Msg, "duplicate property Mass of variant Mercury") {
		t.Errorf("unexpected error %s", lst[0])
	}
}

func TestNumbered(t *testing.T) {
	src := []byte(strings.Repeat("x\n", 9) + "y")

	lines := strings.Split(numbered(src), "\n")
	if lines[0] != "01 x" {
		t.Errorf("got first line %q, want %q", lines[0], "01 x")
	}
	if lines[9] != "10 y" {
		t.Errorf("got last line %q, want %q", lines[9], "10 y")
	}
}
