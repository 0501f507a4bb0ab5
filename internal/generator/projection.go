package generator

import (
	"github.com/sirkon/go-enumprops/internal/render"
)

// projection renders the table backing the projection method. Eager tables get records built
// during package initialization, lazy ones get a cell per variant computing its record on first access.
func (g *generator) projection(r *render.Collector, e *enum) {
	if e.src.Lazy {
		r.Line(`var $0 = proptable.NewLazy(`, e.table)
		for _, v := range e.variants {
			r.Line(`    proptable.Cell($0, func() $1 {`, v.tag, e.record.Name)
			var base string
			if v.base != nil {
				base = baseVar(v)
				r.Line(`        $0 := $1`, base, v.base.Text)
			}
			recordLiteral(r, e, v, "return ", "", base)
			r.Rawl(`    }),`)
		}
		r.Rawl(`)`)
		r.Newl()
		return
	}

	r.Line(`var $0 = proptable.NewEager(`, e.table)
	for _, v := range e.variants {
		var base string
		if v.base != nil {
			base = baseRef(v.base)
		}
		recordLiteral(r, e, v, "proptable.Entry("+v.tag+", ", "),", base)
	}
	r.Rawl(`)`)
	r.Newl()
}
