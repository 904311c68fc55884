package format

import (
	"fmt"
	"strings"

	"github.com/gookit/color"
	"github.com/timewinder-dev/tracerec/record"
)

// DefaultIndent matches the stackindent used for standalone stack actions.
const DefaultIndent = 14

// Formatter renders records for display. Color output follows the global
// gookit/color setting.
type Formatter struct {
	Indent    int
	MaxFrames int // 0 means no limit
}

func New() *Formatter {
	return &Formatter{Indent: DefaultIndent}
}

// FormatStack renders one frame per line. An undecoded stack is rendered as
// a single summary line of its raw data.
func (f *Formatter) FormatStack(s *record.StackValueRecord) string {
	pad := strings.Repeat(" ", f.Indent)
	if !s.Decoded() {
		raw := s.RawStackData()
		return pad + color.Gray.Sprintf("<%s: %d raw bytes, not decoded>", s.Kind(), len(raw)) + "\n"
	}
	var b strings.Builder
	frames := s.AsList()
	n := frames.Len()
	if f.MaxFrames > 0 && n > f.MaxFrames {
		n = f.MaxFrames
	}
	for i := 0; i < n; i++ {
		b.WriteString(pad)
		b.WriteString(frames.At(i).Frame())
		b.WriteString("\n")
	}
	if n < frames.Len() {
		b.WriteString(pad)
		b.WriteString(color.Gray.Sprintf("... %d more", frames.Len()-n))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatRecord renders any value record. Stacks start on a new line.
func (f *Formatter) FormatRecord(v record.ValueRecord) string {
	switch r := v.(type) {
	case *record.StackValueRecord:
		return "\n" + f.FormatStack(r)
	case *record.SymbolValueRecord:
		if r.Symbol() == "" {
			return color.Yellow.Sprintf("0x%x", r.Address())
		}
		return r.Symbol()
	case fmt.Stringer:
		return r.String()
	default:
		return fmt.Sprintf("%v", v.Value())
	}
}

// FormatTuple renders each element in order, separated by spaces.
func (f *Formatter) FormatTuple(t record.Tuple) string {
	var b strings.Builder
	for i, e := range t.AsList().All() {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(f.FormatRecord(e))
	}
	return b.String()
}
