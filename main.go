package main

import (
	"bytes"
	"fmt"
	"go/scanner"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/sirkon/gosrcfmt"
	"github.com/sirkon/message"

	"github.com/sirkon/go-enumprops/internal/generator"
	"github.com/sirkon/go-enumprops/internal/grammar"
	"github.com/sirkon/go-enumprops/internal/record"
)

const (
	propsExt     = ".props"
	outputSuffix = "_props.go"
)

func main() {
	var args struct {
		Pointer bool   `arg:"-p" help:"implement union interfaces over pointers to struct payloads"`
		Method  string `arg:"-m" help:"name of the method returning variant properties"`
		Output  string `arg:"-o" help:"output file path, FILE with .props replaced by _props.go if not set"`
		FILE    string `arg:"positional,required" help:"file path to process"`
	}
	args.Method = generator.DefaultMethod
	p := arg.MustParse(&args)

	if !strings.HasSuffix(args.FILE, propsExt) {
		p.Fail("FILE must be " + propsExt + " file")
	}
	if err := generator.CheckMethod(args.Method); err != nil {
		p.Fail(err.Error())
	}
	if args.Output == "" {
		args.Output = outputPath(args.FILE)
	}

	src, err := os.ReadFile(args.FILE)
	if err != nil {
		message.Fatal(err)
	}

	res, err := process(args.FILE, src, args.Output, generator.Config{
		Method:  args.Method,
		Pointer: args.Pointer,
	})
	if err != nil {
		lst, ok := err.(scanner.ErrorList)
		if !ok {
			message.Fatal(err)
		}
		for _, l := range lst {
			message.Error(l)
		}
		os.Exit(1)
	}

	if err := os.WriteFile(args.Output, res, 0644); err != nil {
		message.Fatal(err)
	}
}

// outputPath default path of the generated file
func outputPath(file string) string {
	return strings.TrimSuffix(file, propsExt) + outputSuffix
}

// process generates formatted source for .props file. Record types are looked up in the package
// the file belongs to, the output file itself is not taken into account.
func process(file string, src []byte, output string, cfg generator.Config) ([]byte, error) {
	fset := token.NewFileSet()
	props, err := grammar.Parse(fset, file, src)
	if err != nil {
		return nil, err
	}

	pkg, err := record.Load(filepath.Dir(file), output)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	cfg.Source = filepath.Base(file)
	cfg.Package = pkg
	data, err := generator.Generate(cfg, props)
	if err != nil {
		return nil, err
	}

	res, err := gosrcfmt.Source(data, output)
	if err != nil {
		return nil, fmt.Errorf("%s\n%s", err, numbered(data))
	}

	return res, nil
}

// numbered prefixes every line of the source with its number
func numbered(src []byte) string {
	var buf bytes.Buffer
	lines := strings.Split(string(src), "\n")
	errFmt := fmt.Sprintf("%%0%dd", len(strconv.Itoa(len(lines)+1)))
	for i, l := range lines {
		_, _ = fmt.Fprintf(&buf, errFmt, i+1)
		buf.WriteByte(' ')
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	return buf.String()
}
