// Package render collects generated Go source line by line.
package render

import (
	"bytes"

	"github.com/sirkon/go-format"
)

// Collector line by line collector
type Collector struct {
	buf bytes.Buffer
}

// Line puts format expression, $0, $1, etc are replaced with positional parameters
func (r *Collector) Line(line string, p ...interface{}) {
	r.buf.WriteString(format.Formatp(line, p...))
	r.buf.WriteByte('\n')
}

// Rawl puts raw string
func (r *Collector) Rawl(line string) {
	r.buf.WriteString(line)
	r.buf.WriteByte('\n')
}

// Newl puts new line
func (r *Collector) Newl() {
	r.buf.WriteByte('\n')
}

// Comments puts comments as they are, one per line
func (r *Collector) Comments(lines []string) {
	for _, l := range lines {
		r.Rawl(l)
	}
}

// Append puts everything collected by another collector
func (r *Collector) Append(other *Collector) {
	r.buf.Write(other.Bytes())
}

// Bytes returns collected data in []byte
func (r *Collector) Bytes() []byte {
	return r.buf.Bytes()
}

// String returns collected data in string
func (r *Collector) String() string {
	return r.buf.String()
}
