package generator

import (
	"github.com/sirkon/go-enumprops/internal/grammar"
	"github.com/sirkon/go-enumprops/internal/render"
)

// dispatch renders the projection arms. A variant is recognized by its tag only: unit enums are tags
// themselves, branch methods of rich enums have unnamed receivers and never look into payloads.
func (g *generator) dispatch(r *render.Collector, e *enum) {
	if !e.rich {
		r.Line(`// $0 returns properties of the variant.`, g.cfg.Method)
		r.Line(`func (t $0) $1() *$2 {`, e.tagType, g.cfg.Method, e.record.Name)
		r.Line(`    return $0.Resolve(t)`, e.table)
		r.Rawl(`}`)
		r.Newl()
		return
	}

	for _, v := range e.variants {
		recv := v.branch
		if g.cfg.Pointer && v.src.Payload.Kind == grammar.PayloadStruct {
			recv = "*" + v.branch
		}

		r.Line(`func ($0) is$1() {}`, recv, e.public)
		r.Newl()
		r.Line(`// $0 returns $1.`, tagMethod, v.tag)
		r.Line(`func ($0) $1() $2 {`, recv, tagMethod, e.tagType)
		r.Line(`    return $0`, v.tag)
		r.Rawl(`}`)
		r.Newl()
		r.Line(`// $0 returns properties of $1 variant.`, g.cfg.Method, v.src.Name)
		r.Line(`func ($0) $1() *$2 {`, recv, g.cfg.Method, e.record.Name)
		r.Line(`    return $0.Resolve($1)`, e.table, v.tag)
		r.Rawl(`}`)
		r.Newl()
	}
}

// recordLiteral renders composite literal of variant's record surrounded with prefix and suffix.
// Fields the variant does not set are selected from base.
func recordLiteral(r *render.Collector, e *enum, v *variant, prefix, suffix, base string) {
	r.Rawl(prefix + e.record.Name + "{")
	for _, f := range v.fields {
		if f.explicit {
			r.Line(`    $0: $1,`, f.name, f.value)
			continue
		}
		r.Line(`    $0: $1.$2,`, f.name, base, f.name)
	}
	r.Rawl("}" + suffix)
}
