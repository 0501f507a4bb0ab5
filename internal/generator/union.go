package generator

import (
	"strconv"

	"github.com/sirkon/go-enumprops/internal/grammar"
	"github.com/sirkon/go-enumprops/internal/render"
)

// union renders tag type with its constants and, for rich enums, the closed interface with branch types.
// Variants keep their order, docs, payloads and discriminants.
func (g *generator) union(r *render.Collector, e *enum) {
	if e.rich {
		r.Line(`// $0 identifies variants of $1.`, e.tagType, e.name)
	} else {
		r.Comments(e.src.Doc)
	}
	r.Line(`type $0 $1`, e.tagType, e.repr)
	r.Newl()

	r.Rawl(`const (`)
	for _, v := range e.variants {
		if !e.rich {
			r.Comments(v.src.Doc)
		}
		r.Line(`    $0 $1 = $2`, v.tag, e.tagType, strconv.FormatInt(v.value, 10))
	}
	r.Rawl(`)`)
	r.Newl()

	r.Rawl(`// String returns variant name.`)
	r.Line(`func (t $0) String() string {`, e.tagType)
	r.Rawl(`    switch t {`)
	for _, v := range e.variants {
		r.Line(`    case $0:`, v.tag)
		r.Line(`        return $0`, strconv.Quote(v.src.Name))
	}
	r.Rawl(`    }`)
	r.Line(`    return "$0(" + strconv.FormatInt(int64(t), 10) + ")"`, e.tagType)
	r.Rawl(`}`)
	r.Newl()

	r.Line(`// $0 returns tags of $1 variants in order of declaration.`, e.name+"Tags", e.name)
	r.Line(`func $0() []$1 {`, e.name+"Tags", e.tagType)
	r.Line(`    return $0.Tags()`, e.table)
	r.Rawl(`}`)
	r.Newl()

	if !e.rich {
		return
	}

	r.Comments(e.src.Doc)
	r.Line(`type $0 interface {`, e.name)
	r.Line(`    // $0 returns variant tag.`, tagMethod)
	r.Line(`    $0() $1`, tagMethod, e.tagType)
	r.Line(`    // $0 returns properties of the variant.`, g.cfg.Method)
	r.Line(`    $0() *$1`, g.cfg.Method, e.record.Name)
	r.Newl()
	r.Line(`    is$0()`, e.public)
	r.Rawl(`}`)
	r.Newl()

	for _, v := range e.variants {
		g.branch(r, v)
	}
}

func (g *generator) branch(r *render.Collector, v *variant) {
	r.Comments(v.src.Doc)

	payload := v.src.Payload
	switch {
	case payload.Kind == grammar.PayloadNone:
		r.Line(`type $0 struct{}`, v.branch)

	case namedSlot(payload):
		r.Comments(payload.Fields[0].Doc)
		r.Line(`type $0 $1`, v.branch, payload.Fields[0].Type)

	case payload.Kind == grammar.PayloadTuple:
		r.Line(`type $0 struct {`, v.branch)
		for i, f := range payload.Fields {
			r.Comments(f.Doc)
			payloadField(r, "F"+strconv.Itoa(i), f)
		}
		r.Rawl(`}`)

	default:
		r.Line(`type $0 struct {`, v.branch)
		for _, f := range payload.Fields {
			r.Comments(f.Doc)
			payloadField(r, f.Name, f)
		}
		r.Rawl(`}`)
	}
	r.Newl()
}

func payloadField(r *render.Collector, name string, f *grammar.PayloadField) {
	if f.Tag != "" {
		r.Line(`    $0 $1 $2`, name, f.Type, f.Tag)
		return
	}
	r.Line(`    $0 $1`, name, f.Type)
}
