package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCollector(t *testing.T) {
	var inner Collector
	inner.Line(`func (v $0) is$1() {}`, "FruitApple", "Fruit")

	var c Collector
	c.Comments([]string{"// Fruit a fruit", "/* with properties */"})
	c.Line(`type $0 interface {`, "Fruit")
	c.Line(`    is$0()`, "Fruit")
	c.Rawl(`}`)
	c.Newl()
	c.Append(&inner)

	want := `// Fruit a fruit
/* with properties */
type Fruit interface {
    isFruit()
}

func (v FruitApple) isFruit() {}
`
	if diff := cmp.Diff(want, c.String()); diff != "" {
		t.Errorf("collected source mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]byte(want), c.Bytes()); diff != "" {
		t.Errorf("collected bytes mismatch (-want +got):\n%s", diff)
	}
}
