package generator

import (
	"fmt"
	"go/ast"
	"go/constant"
	"go/parser"
	"go/token"
	"go/types"
)

var predeclaredTypes = map[string]struct{}{
	"bool":       {},
	"byte":       {},
	"complex64":  {},
	"complex128": {},
	"float32":    {},
	"float64":    {},
	"int":        {},
	"int8":       {},
	"int16":      {},
	"int32":      {},
	"int64":      {},
	"rune":       {},
	"string":     {},
	"uint":       {},
	"uint8":      {},
	"uint16":     {},
	"uint32":     {},
	"uint64":     {},
	"uintptr":    {},
}

// evalDiscriminant computes integer constant expression
func evalDiscriminant(text string) (int64, error) {
	tv, err := types.Eval(token.NewFileSet(), nil, token.NoPos, text)
	if err != nil {
		return 0, fmt.Errorf("%s is not a constant expression", text)
	}
	if tv.Value == nil {
		return 0, fmt.Errorf("%s is not a constant expression", text)
	}

	value := constant.ToInt(tv.Value)
	if value.Kind() != constant.Int {
		return 0, fmt.Errorf("%s is not an integer", text)
	}
	res, exact := constant.Int64Val(value)
	if !exact {
		return 0, fmt.Errorf("%s overflows int64", text)
	}

	return res, nil
}

// checkStatic makes sure eager records are built out of expressions which do not run code
func (g *generator) checkStatic(e *enum, v *variant) {
	for _, init := range v.src.Inits {
		if what := nonStatic(init.Value.Text); what != "" {
			g.errorf(
				init.Value.Pos,
				"value of %s.%s.%s is not static (%s), declare the enum lazy to compute it at run time",
				e.name,
				v.src.Name,
				init.Field,
				what,
			)
		}
	}

	if v.base == nil {
		return
	}
	if what := nonStatic(v.base.Text); what != "" {
		g.errorf(
			v.base.Pos,
			"default record of %s.%s is not static (%s), declare the enum lazy to compute it at run time",
			e.name,
			v.src.Name,
			what,
		)
	}
}

// nonStatic returns description of the first part of expression which needs a run time computation,
// empty string when there are none
func nonStatic(text string) string {
	expr, err := parser.ParseExpr(text)
	if err != nil {
		return "malformed expression"
	}

	var res string
	ast.Inspect(expr, func(n ast.Node) bool {
		if res != "" {
			return false
		}

		switch v := n.(type) {
		case *ast.FuncLit:
			res = "function literal"
		case *ast.CallExpr:
			if id, ok := v.Fun.(*ast.Ident); ok && len(v.Args) == 1 {
				if _, ok := predeclaredTypes[id.Name]; ok {
					return true
				}
			}
			res = "call of " + types.ExprString(v.Fun)
		case *ast.UnaryExpr:
			if v.Op == token.ARROW {
				res = "receive operation"
			}
		case *ast.TypeAssertExpr:
			res = "type assertion"
		}
		return res == ""
	})

	return res
}
