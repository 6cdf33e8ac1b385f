package tinyclj

import (
	"strconv"
	"strings"
)

// literalSanitizer backslash-escapes the characters pr_str's quoted
// string form must escape to round-trip through the reader.
var literalSanitizer = strings.NewReplacer(
	`"`, `\"`,
	`\`, `\\`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func escapeLiteral(s string) string {
	return literalSanitizer.Replace(s)
}

var charNames = map[rune]string{
	' ':  "space",
	'\n': "newline",
	'\t': "tab",
	'\r': "return",
}

// PrStr renders v in readable form: the form the reader accepts back.
// Strings are quoted and escaped, characters are named/prefixed, and
// nil prints as "nil".
func PrStr(v Value) string {
	var b strings.Builder
	writeValue(&b, v, true)
	return b.String()
}

// ToString renders v in display form, the form `str` uses: strings
// are unquoted, nil is the empty string, and characters print as
// themselves.
func ToString(v Value) string {
	if IsNil(v) {
		return ""
	}
	if IsChar(v) {
		return string(AsChar(v))
	}
	if IsHeap(v) {
		if s, ok := AsHeap(v).(*StringObj); ok {
			return string(s.Bytes)
		}
	}
	var b strings.Builder
	writeValue(&b, v, false)
	return b.String()
}

func writeValue(b *strings.Builder, v Value, readable bool) {
	if IsNil(v) {
		b.WriteString("nil")
		return
	}
	switch {
	case IsFixnum(v):
		b.WriteString(strconv.FormatInt(int64(AsFixnum(v)), 10))
		return
	case IsFixed(v):
		b.WriteString(formatFixed(v))
		return
	case IsChar(v):
		writeChar(b, AsChar(v), readable)
		return
	case IsSpecial(v):
		if IsTruthy(v) {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
		return
	}

	switch o := AsHeap(v).(type) {
	case *StringObj:
		if readable {
			b.WriteByte('"')
			b.WriteString(escapeLiteral(string(o.Bytes)))
			b.WriteByte('"')
		} else {
			b.WriteString(string(o.Bytes))
		}
	case *SymbolObj:
		b.WriteString(o.QualifiedName())
	case *VectorObj:
		writeSeqLike(b, '[', ']', o.Items, readable)
	case *TransientVectorObj:
		writeSeqLike(b, '[', ']', o.Items, readable)
	case *ListObj:
		writeList(b, HeapValue(o), readable)
	case *MapObj:
		writeMap(b, o, readable)
	case *TransientMapObj:
		writeMap(b, &MapObj{Header: o.Header, Pairs: o.Pairs}, readable)
	case *ByteArrayObj:
		b.WriteString("#<byte-array ")
		b.WriteString(strconv.Itoa(len(o.Bytes)))
		b.WriteString(">")
	case *ExceptionObj:
		b.WriteString(o.Error())
	case *NativeFnObj:
		writeFn(b, "native-fn", o.Name)
	case *ClosureObj:
		writeFn(b, "closure", o.Name)
	case *SeqObj:
		writeSeqVal(b, o, readable)
	case *NamespaceObj:
		b.WriteString("#<namespace ")
		b.WriteString(o.Name.Name)
		b.WriteString(">")
	default:
		b.WriteString("#<unknown>")
	}
}

func writeChar(b *strings.Builder, c rune, readable bool) {
	if !readable {
		b.WriteRune(c)
		return
	}
	b.WriteByte('\\')
	if name, ok := charNames[c]; ok {
		b.WriteString(name)
		return
	}
	b.WriteRune(c)
}

func writeSeqLike(b *strings.Builder, open, close byte, items []Value, readable bool) {
	b.WriteByte(open)
	for i, item := range items {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeValue(b, item, readable)
	}
	b.WriteByte(close)
}

func writeList(b *strings.Builder, v Value, readable bool) {
	b.WriteByte('(')
	first := true
	for !IsNil(v) {
		l, ok := objOf(v).(*ListObj)
		if !ok {
			// improper rest: print it after a dot, Clojure-reader style.
			b.WriteString(" . ")
			writeValue(b, v, readable)
			break
		}
		if !first {
			b.WriteByte(' ')
		}
		first = false
		writeValue(b, l.First, readable)
		v = l.Rest
	}
	b.WriteByte(')')
}

func writeMap(b *strings.Builder, m *MapObj, readable bool) {
	b.WriteByte('{')
	for i := 0; i+1 < len(m.Pairs); i += 2 {
		if i > 0 {
			b.WriteString(", ")
		}
		writeValue(b, m.Pairs[i], readable)
		b.WriteByte(' ')
		writeValue(b, m.Pairs[i+1], readable)
	}
	b.WriteByte('}')
}

func writeSeqVal(b *strings.Builder, s *SeqObj, readable bool) {
	b.WriteByte('(')
	it := s.it
	first := true
	for !it.IterEmpty() {
		if !first {
			b.WriteByte(' ')
		}
		first = false
		writeValue(b, it.IterFirst(), readable)
		it.IterNext()
	}
	b.WriteByte(')')
}

func writeFn(b *strings.Builder, kind, name string) {
	b.WriteString("#<")
	b.WriteString(kind)
	if name != "" {
		b.WriteByte(' ')
		b.WriteString(name)
	}
	b.WriteByte('>')
}

// formatFixed prints a Q16.13 value with up to four significant
// fractional digits, trailing zeros trimmed.
func formatFixed(v Value) string {
	f := AsFixedFloat(v)
	s := strconv.FormatFloat(f, 'f', 4, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
