package record

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/multierr"
)

const fruitSource = `package fruit

import "io"

type FruitProperties struct {
	Name        string
	Description string
	Weight      float32
}

type embedding struct {
	io.Reader
	*FruitProperties
	a, b int
	_    struct{}
}

type generic[T any] struct {
	V T
}

type notStruct int
`

func TestLoadSource(t *testing.T) {
	pkg, err := LoadSource(map[string]string{"fruit.go": fruitSource})
	if err != nil {
		t.Fatal(err)
	}

	if pkg.Name != "fruit" {
		t.Errorf("got package %s, want fruit", pkg.Name)
	}

	got := map[string][]string{}
	for name, rec := range pkg.Records {
		got[name] = rec.Fields
	}
	want := map[string][]string{
		"FruitProperties": {"Name", "Description", "Weight"},
		"embedding":       {"Reader", "FruitProperties", "a", "b"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}

	if !pkg.Records["FruitProperties"].Has("Weight") || pkg.Records["FruitProperties"].Has("Length") {
		t.Error("Has reports wrong field set")
	}
}

func TestLoadSourceErrors(t *testing.T) {
	_, err := LoadSource(map[string]string{
		"a.go": "package a\nfunc {",
		"b.go": "package a\ntype X struct {",
	})
	if err == nil {
		t.Fatal("error expected")
	}
	if n := len(multierr.Errors(err)); n != 2 {
		t.Errorf("got %d errors, want one per broken file: %s", n, err)
	}

	_, err = LoadSource(map[string]string{
		"a.go": "package a",
		"b.go": "package b",
	})
	if err == nil || !strings.Contains(err.Error(), "package b differs from a") {
		t.Errorf("unexpected error %v", err)
	}

	if _, err := LoadSource(nil); err == nil {
		t.Error("empty package accepted")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"fruit.go":       fruitSource,
		"fruit_test.go":  "package fruit_test\nfunc {",
		"fruit_props.go": "this is not Go",
		"README.md":      "# fruit",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	pkg, err := Load(dir, filepath.Join(dir, "fruit_props.go"))
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, 0, len(pkg.Records))
	for name := range pkg.Records {
		names = append(names, name)
	}
	if diff := cmp.Diff([]string{"FruitProperties", "embedding"}, names, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}

	if _, err := Load(filepath.Join(dir, "missing")); err == nil {
		t.Error("missing directory accepted")
	}
}
