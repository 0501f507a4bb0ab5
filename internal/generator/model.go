package generator

import (
	"go/ast"
	"go/parser"
	"go/token"
	"math"
	"strconv"
	"strings"

	"github.com/sirkon/go-enumprops/internal/grammar"
	"github.com/sirkon/go-enumprops/internal/record"
)

// enum an invocation checked against its record type
type enum struct {
	src    *grammar.Enum
	record *record.Struct

	// rich enums have payload variants and are rendered as closed interfaces
	rich bool

	name     string
	public   string
	tagType  string
	repr     string
	table    string
	variants []*variant
}

// variant checked variant
type variant struct {
	src *grammar.Variant

	value  int64
	tag    string
	branch string

	// fields values of all record fields in order of their declaration
	fields []fieldValue
	// base default record the variant copies omitted fields from
	base *grammar.Expr
}

// usesBase checks if any record field is copied from the default record
func (v *variant) usesBase() bool {
	for _, f := range v.fields {
		if !f.explicit {
			return true
		}
	}
	return false
}

type fieldValue struct {
	name     string
	value    string
	explicit bool
}

func (g *generator) analyze(e *grammar.Enum) *enum {
	errCount := len(g.errs)

	rec, ok := g.cfg.Package.Records[e.Record]
	if !ok {
		g.errorf(e.Pos, "record type %s not found in package %s", e.Record, g.cfg.Package.Name)
		return nil
	}

	res := &enum{
		src:    e,
		record: rec,
		rich:   e.HasPayload(),
		name:   e.Name,
		public: g.public(e.Name),
	}
	if ast.IsExported(e.Name) && e.Name != res.public {
		g.errorf(e.Pos, "invalid enum name %s, must be %s", e.Name, res.public)
	}
	res.table = "propsOf" + res.public
	res.tagType = e.Name
	if res.rich {
		res.tagType = e.Name + tagMethod
		g.declare(e.Pos, e.Name, "interface of enum "+e.Name)
	}
	g.declare(e.Pos, res.tagType, "tag type of enum "+e.Name)
	g.declare(e.Pos, e.Name+"Tags", "tags function of enum "+e.Name)
	g.declare(e.Pos, res.table, "properties table of enum "+e.Name)

	var next int64
	var exhausted bool
	values := map[int64]*variant{}
	for _, v := range e.Variants {
		if v.Name != g.public(v.Name) {
			g.errorf(v.Pos, "invalid variant name %s, must be %s", v.Name, g.public(v.Name))
		}

		vv := &variant{src: v}
		if v.Discriminant != nil {
			value, err := evalDiscriminant(v.Discriminant.Text)
			if err != nil {
				g.errorf(v.Discriminant.Pos, "discriminant of %s.%s: %s", e.Name, v.Name, err)
			} else {
				next = value
				exhausted = false
			}
		} else if exhausted {
			g.errorf(v.Pos, "implicit discriminant of %s.%s overflows int64", e.Name, v.Name)
		}
		vv.value = next
		exhausted = next == math.MaxInt64
		next++
		if prev, ok := values[vv.value]; ok {
			g.errorf(v.Pos, "discriminant value %d of %s.%s is already taken by %s", vv.value, e.Name, v.Name, prev.src.Name)
		} else {
			values[vv.value] = vv
		}

		if res.rich {
			vv.tag = res.tagType + v.Name
			vv.branch = e.Name + v.Name
		} else {
			vv.tag = e.Name + v.Name
		}
		g.declare(v.Pos, vv.tag, "tag of "+e.Name+"."+v.Name)
		if res.rich {
			g.declare(v.Pos, vv.branch, "branch of "+e.Name+"."+v.Name)
		}

		g.fill(res, vv)
		g.checkPayload(res, vv)
		if !e.Lazy {
			g.checkStatic(res, vv)
		}

		res.variants = append(res.variants, vv)
	}

	if len(g.errs) > errCount {
		return nil
	}

	minValue, maxValue := res.variants[0].value, res.variants[0].value
	for _, v := range res.variants {
		if v.value < minValue {
			minValue = v.value
		}
		if v.value > maxValue {
			maxValue = v.value
		}
	}
	res.repr = reprFor(minValue, maxValue)

	return res
}

// fill merges explicit initializers with the default record
func (g *generator) fill(e *enum, v *variant) {
	for _, init := range v.src.Inits {
		if !e.record.Has(init.Field) {
			g.errorf(init.Pos, "record type %s has no field %s", e.record.Name, init.Field)
		}
	}

	base := e.src.DefaultOf(v.src)
	var missing []string
	for _, field := range e.record.Fields {
		fv := fieldValue{name: field}
		if init := v.src.Init(field); init != nil {
			fv.value = init.Value.Text
			fv.explicit = true
		} else if base == nil {
			missing = append(missing, field)
		}
		v.fields = append(v.fields, fv)
	}
	if len(missing) > 0 {
		g.errorf(
			v.src.Pos,
			"variant %s.%s does not set %s and there is no default record for it",
			e.name,
			v.src.Name,
			strings.Join(missing, ", "),
		)
	}
	if v.usesBase() {
		v.base = base
	}
}

func (g *generator) checkPayload(e *enum, v *variant) {
	if v.src.Payload.Kind != grammar.PayloadStruct {
		return
	}

	for _, f := range v.src.Payload.Fields {
		switch f.Name {
		case tagMethod, g.cfg.Method, "is" + e.public:
			g.errorf(f.Pos, "payload field %s of %s.%s clashes with method %s", f.Name, e.name, v.src.Name, f.Name)
		}
	}
}

// declare registers a package level name of generated code, every name can be taken once
func (g *generator) declare(pos token.Position, name, owner string) {
	if prev, ok := g.names[name]; ok {
		g.errorf(pos, "name %s of %s is already taken by %s", name, owner, prev)
		return
	}
	g.names[name] = owner
}

// namedSlot checks if a single slot tuple payload can be represented with a named type
func namedSlot(p grammar.Payload) bool {
	if p.Kind != grammar.PayloadTuple || len(p.Fields) != 1 || p.Fields[0].Tag != "" {
		return false
	}

	expr, err := parser.ParseExpr(p.Fields[0].Type)
	if err != nil {
		return false
	}
	switch v := expr.(type) {
	case *ast.Ident:
		// other names may stand for interfaces or pointers, these cannot have methods
		_, ok := predeclaredTypes[v.Name]
		return ok
	case *ast.ArrayType, *ast.MapType, *ast.ChanType, *ast.FuncType:
		return true
	default:
		return false
	}
}

func reprFor(minValue, maxValue int64) string {
	switch {
	case minValue >= 0 && maxValue <= math.MaxUint8:
		return "uint8"
	case minValue >= math.MinInt8 && maxValue <= math.MaxInt8:
		return "int8"
	case minValue >= 0 && maxValue <= math.MaxUint16:
		return "uint16"
	case minValue >= math.MinInt16 && maxValue <= math.MaxInt16:
		return "int16"
	case minValue >= 0 && maxValue <= math.MaxUint32:
		return "uint32"
	case minValue >= math.MinInt32 && maxValue <= math.MaxInt32:
		return "int32"
	default:
		return "int64"
	}
}

// baseRef returns an expression default record fields can be selected from
func baseRef(base *grammar.Expr) string {
	expr, err := parser.ParseExpr(base.Text)
	if err == nil {
		switch expr.(type) {
		case *ast.Ident, *ast.SelectorExpr:
			return base.Text
		}
	}
	return "(" + base.Text + ")"
}

// baseVar picks a name for the local copy of the default record which no initializer refers to
func baseVar(v *variant) string {
	used := map[string]struct{}{}
	for _, init := range v.src.Inits {
		expr, err := parser.ParseExpr(init.Value.Text)
		if err != nil {
			continue
		}
		ast.Inspect(expr, func(n ast.Node) bool {
			if id, ok := n.(*ast.Ident); ok {
				used[id.Name] = struct{}{}
			}
			return true
		})
	}

	name := "base"
	for i := 1; ; i++ {
		if _, ok := used[name]; !ok {
			return name
		}
		name = "base" + strconv.Itoa(i)
	}
}
