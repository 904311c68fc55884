package format

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gookit/color"
	"github.com/timewinder-dev/tracerec/record"
)

type directive struct {
	literal string
	verb    byte // 0 for a literal
	agg     bool // %@: format the aggregation value instead of a key element
	left    bool
	width   int
}

func parse(format string) ([]directive, error) {
	var out []directive
	var lit strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			lit.WriteByte(c)
			continue
		}
		start := i
		i++
		if i < len(format) && format[i] == '%' {
			lit.WriteByte('%')
			continue
		}
		if lit.Len() > 0 {
			out = append(out, directive{literal: lit.String()})
			lit.Reset()
		}
		d := directive{}
		for i < len(format) && (format[i] == '-' || format[i] == '@') {
			if format[i] == '-' {
				d.left = true
			} else {
				d.agg = true
			}
			i++
		}
		digits := i
		for i < len(format) && format[i] >= '0' && format[i] <= '9' {
			i++
		}
		if i > digits {
			d.width, _ = strconv.Atoi(format[digits:i])
		}
		if i >= len(format) {
			return nil, fmt.Errorf("incomplete conversion at offset %d", start)
		}
		switch format[i] {
		case 'k', 'a', 'A', 'd', 'i', 'u', 'x', 's':
			d.verb = format[i]
		default:
			return nil, fmt.Errorf("unsupported conversion %%%c", format[i])
		}
		out = append(out, d)
	}
	if lit.Len() > 0 {
		out = append(out, directive{literal: lit.String()})
	}
	return out, nil
}

// StackPlaceholders returns the tuple indexes consumed by %k conversions.
func StackPlaceholders(format string) ([]int, error) {
	ds, err := parse(format)
	if err != nil {
		return nil, err
	}
	var out []int
	idx := 0
	for _, d := range ds {
		if d.verb == 0 || d.agg {
			continue
		}
		if d.verb == 'k' {
			out = append(out, idx)
		}
		idx++
	}
	return out, nil
}

// DecodeMask reports, for a tuple of n elements, which stacks need decoded
// frames to print format. Without a format string everything is decoded.
func DecodeMask(format string, n int) ([]bool, error) {
	mask := make([]bool, n)
	if format == "" {
		for i := range mask {
			mask[i] = true
		}
		return mask, nil
	}
	idx, err := StackPlaceholders(format)
	if err != nil {
		return nil, err
	}
	for _, i := range idx {
		if i < n {
			mask[i] = true
		}
	}
	return mask, nil
}

// Printa renders key and value with a printa()-style format string. Each
// conversion consumes the next key element except those flagged with @,
// such as %@d, which print value.
// An empty format prints the key followed by the value.
func (f *Formatter) Printa(format string, key record.Tuple, value record.ValueRecord) (string, error) {
	if format == "" {
		s := f.FormatTuple(key)
		if value != nil {
			s += " " + f.FormatRecord(value)
		}
		return s + "\n", nil
	}
	ds, err := parse(format)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	idx := 0
	for _, d := range ds {
		if d.verb == 0 {
			b.WriteString(d.literal)
			continue
		}
		var v record.ValueRecord
		if d.agg {
			if value == nil {
				return "", fmt.Errorf("%%@ used without an aggregation value")
			}
			v = value
		} else {
			if idx >= key.Len() {
				return "", fmt.Errorf("conversion %d has no tuple element", idx)
			}
			v = key.Get(idx)
			idx++
		}
		s, err := f.convert(d.verb, v)
		if err != nil {
			return "", err
		}
		b.WriteString(pad(s, d.width, d.left))
	}
	return b.String(), nil
}

func (f *Formatter) convert(verb byte, v record.ValueRecord) (string, error) {
	switch verb {
	case 'k':
		s, ok := v.(*record.StackValueRecord)
		if !ok {
			return "", fmt.Errorf("%%k requires a stack, got %s", record.KindOf(v))
		}
		return "\n" + f.FormatStack(s), nil
	case 'a', 'A':
		switch r := v.(type) {
		case *record.SymbolValueRecord:
			return f.FormatRecord(r), nil
		case *record.ScalarRecord:
			if r.IsNumeric() {
				return fmt.Sprintf("0x%x", uint64(r.Int())), nil
			}
		}
		return "", fmt.Errorf("%%%c requires an address, got %s", verb, record.KindOf(v))
	case 'd', 'i', 'u', 'x':
		r, ok := v.(*record.ScalarRecord)
		if !ok || !r.IsNumeric() {
			return "", fmt.Errorf("%%%c requires an integer, got %s", verb, record.KindOf(v))
		}
		switch verb {
		case 'u':
			return strconv.FormatUint(uint64(r.Int()), 10), nil
		case 'x':
			return strconv.FormatUint(uint64(r.Int()), 16), nil
		}
		return strconv.FormatInt(r.Int(), 10), nil
	default:
		return f.FormatRecord(v), nil
	}
}

// pad measures the visible width, ignoring color escapes.
func pad(s string, width int, left bool) string {
	n := utf8.RuneCountInString(color.ClearCode(s))
	if n >= width {
		return s
	}
	fill := strings.Repeat(" ", width-n)
	if left {
		return s + fill
	}
	return fill + s
}
