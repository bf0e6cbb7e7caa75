package domain

import (
	"bytes"
	"iter"
	"strconv"
	"unicode/utf8"
)

// NodeKind distinguishes the three node shapes.
type NodeKind uint8

// Node kinds.
const (
	NodeMapping NodeKind = iota
	NodeList
	NodeScalar
)

// String returns the kind name.
func (k NodeKind) String() string {
	switch k {
	case NodeScalar:
		return "scalar"
	case NodeList:
		return "list"
	case NodeMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// ScalarType distinguishes scalar payloads.
type ScalarType uint8

// Scalar types.
const (
	ScalarString ScalarType = iota
	ScalarInt
	ScalarFixed
	ScalarDate
)

// Scalar is a leaf value. Dates are packed into num as y*10000+m*100+d.
type Scalar struct {
	typ    ScalarType
	quoted bool
	str    string
	num    int64
}

// Type returns the scalar payload type.
func (s Scalar) Type() ScalarType { return s.typ }

// Quoted reports whether a string scalar was written in quotes.
func (s Scalar) Quoted() bool { return s.quoted }

// Text renders any scalar as text.
func (s Scalar) Text() string {
	switch s.typ {
	case ScalarInt:
		return strconv.FormatInt(s.num, 10)
	case ScalarFixed:
		return Fixed(s.num).String()
	case ScalarDate:
		return s.Date().String()
	default:
		return s.str
	}
}

// Date unpacks a date scalar.
func (s Scalar) Date() Date {
	if s.typ != ScalarDate {
		return Date{}
	}
	return Date{Year: int(s.num / 10000), Month: int(s.num / 100 % 100), Day: int(s.num % 100)}
}

// Entry is one key/value pair of a Mapping.
type Entry struct {
	Key   string
	Value Node
}

// indexThreshold is the entry count above which mappings carry a key index.
const indexThreshold = 16

// Node is an immutable save tree element: a Scalar, a List or a Mapping.
// Mappings keep every pair in encounter order, including repeated keys.
// The zero Node is an empty Mapping.
type Node struct {
	kind    NodeKind
	scalar  Scalar
	items   []Node
	entries []Entry
	index   map[string][]int
}

// NewString returns a string scalar node.
func NewString(s string, quoted bool) Node {
	return Node{kind: NodeScalar, scalar: Scalar{typ: ScalarString, str: s, quoted: quoted}}
}

// NewInt returns an integer scalar node.
func NewInt(v int64) Node {
	return Node{kind: NodeScalar, scalar: Scalar{typ: ScalarInt, num: v}}
}

// NewFixed returns a fixed-point scalar node.
func NewFixed(v Fixed) Node {
	return Node{kind: NodeScalar, scalar: Scalar{typ: ScalarFixed, num: int64(v)}}
}

// NewDate returns a date scalar node.
func NewDate(d Date) Node {
	packed := int64(d.Year)*10000 + int64(d.Month)*100 + int64(d.Day)
	return Node{kind: NodeScalar, scalar: Scalar{typ: ScalarDate, num: packed}}
}

// NewList returns a list node. The node takes ownership of items.
func NewList(items []Node) Node {
	return Node{kind: NodeList, items: items}
}

// NewMapping returns a mapping node. The node takes ownership of entries.
func NewMapping(entries []Entry) Node {
	n := Node{kind: NodeMapping, entries: entries}
	if len(entries) > indexThreshold {
		n.index = make(map[string][]int, len(entries))
		for i, e := range entries {
			n.index[e.Key] = append(n.index[e.Key], i)
		}
	}
	return n
}

// Kind returns the node shape.
func (n Node) Kind() NodeKind { return n.kind }

// IsScalar reports whether n is a scalar.
func (n Node) IsScalar() bool { return n.kind == NodeScalar }

// IsList reports whether n is a list.
func (n Node) IsList() bool { return n.kind == NodeList }

// IsMapping reports whether n is a mapping.
func (n Node) IsMapping() bool { return n.kind == NodeMapping }

// Scalar returns the scalar payload.
func (n Node) Scalar() (Scalar, bool) {
	return n.scalar, n.kind == NodeScalar
}

// Len returns the number of list items or mapping entries.
func (n Node) Len() int {
	switch n.kind {
	case NodeList:
		return len(n.items)
	case NodeMapping:
		return len(n.entries)
	default:
		return 0
	}
}

// Items iterates list items in order.
func (n Node) Items() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, it := range n.items {
			if !yield(it) {
				return
			}
		}
	}
}

// Entries iterates mapping pairs in encounter order, repeated keys included.
func (n Node) Entries() iter.Seq2[string, Node] {
	return func(yield func(string, Node) bool) {
		for _, e := range n.entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Item returns the i-th list item.
func (n Node) Item(i int) (Node, bool) {
	if n.kind != NodeList || i < 0 || i >= len(n.items) {
		return Node{}, false
	}
	return n.items[i], true
}

// Get returns the first value stored under key.
func (n Node) Get(key string) (Node, bool) {
	if n.kind != NodeMapping {
		return Node{}, false
	}
	if n.index != nil {
		idx, ok := n.index[key]
		if !ok {
			return Node{}, false
		}
		return n.entries[idx[0]].Value, true
	}
	for _, e := range n.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Node{}, false
}

// Last returns the last value stored under key. Callers use it when they
// want latest-wins semantics for a repeated key.
func (n Node) Last(key string) (Node, bool) {
	if n.kind != NodeMapping {
		return Node{}, false
	}
	if n.index != nil {
		idx, ok := n.index[key]
		if !ok {
			return Node{}, false
		}
		return n.entries[idx[len(idx)-1]].Value, true
	}
	for i := len(n.entries) - 1; i >= 0; i-- {
		if n.entries[i].Key == key {
			return n.entries[i].Value, true
		}
	}
	return Node{}, false
}

// GetAll returns every value stored under key, in encounter order.
func (n Node) GetAll(key string) []Node {
	if n.kind != NodeMapping {
		return nil
	}
	var out []Node
	if n.index != nil {
		for _, i := range n.index[key] {
			out = append(out, n.entries[i].Value)
		}
		return out
	}
	for _, e := range n.entries {
		if e.Key == key {
			out = append(out, e.Value)
		}
	}
	return out
}

// Has reports whether key occurs at least once.
func (n Node) Has(key string) bool {
	_, ok := n.Get(key)
	return ok
}

// Keys returns distinct keys in first-occurrence order.
func (n Node) Keys() []string {
	if n.kind != NodeMapping {
		return nil
	}
	seen := make(map[string]struct{}, len(n.entries))
	keys := make([]string, 0, len(n.entries))
	for _, e := range n.entries {
		if _, ok := seen[e.Key]; ok {
			continue
		}
		seen[e.Key] = struct{}{}
		keys = append(keys, e.Key)
	}
	return keys
}

// Path follows a chain of keys using the first occurrence at each level.
func (n Node) Path(keys ...string) (Node, bool) {
	cur := n
	for _, k := range keys {
		next, ok := cur.Get(k)
		if !ok {
			return Node{}, false
		}
		cur = next
	}
	return cur, true
}

// Str returns the text of a string scalar.
func (n Node) Str() (string, bool) {
	if n.kind != NodeScalar || n.scalar.typ != ScalarString {
		return "", false
	}
	return n.scalar.str, true
}

// Text renders a scalar of any type as text.
func (n Node) Text() (string, bool) {
	if n.kind != NodeScalar {
		return "", false
	}
	return n.scalar.Text(), true
}

// Int returns an integer value. Fixed values without a fractional part and
// numeric strings are accepted.
func (n Node) Int() (int64, bool) {
	if n.kind != NodeScalar {
		return 0, false
	}
	switch n.scalar.typ {
	case ScalarInt:
		return n.scalar.num, true
	case ScalarFixed:
		if n.scalar.num%FixedScale == 0 {
			return n.scalar.num / FixedScale, true
		}
		return 0, false
	case ScalarString:
		v, err := strconv.ParseInt(n.scalar.str, 10, 64)
		return v, err == nil
	default:
		return 0, false
	}
}

// Fixed returns a decimal value. Integers and numeric strings are accepted.
func (n Node) Fixed() (Fixed, bool) {
	if n.kind != NodeScalar {
		return 0, false
	}
	switch n.scalar.typ {
	case ScalarInt:
		return FixedFromInt(n.scalar.num), true
	case ScalarFixed:
		return Fixed(n.scalar.num), true
	case ScalarString:
		v, err := ParseFixed(n.scalar.str)
		return v, err == nil
	default:
		return 0, false
	}
}

// Date returns a date value. Quoted date strings are accepted.
func (n Node) Date() (Date, bool) {
	if n.kind != NodeScalar {
		return Date{}, false
	}
	switch n.scalar.typ {
	case ScalarDate:
		return n.scalar.Date(), true
	case ScalarString:
		d, err := ParseDate(n.scalar.str)
		return d, err == nil
	default:
		return Date{}, false
	}
}

// Bool interprets yes/no scalars.
func (n Node) Bool() (bool, bool) {
	s, ok := n.Str()
	if !ok {
		return false, false
	}
	switch s {
	case "yes":
		return true, true
	case "no":
		return false, true
	}
	return false, false
}

// MarshalJSON renders the node. Repeated mapping keys are grouped into an
// array of every occurrence, placed at the key's first position.
func (n Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	n.AppendJSON(&buf)
	return buf.Bytes(), nil
}

// AppendJSON writes the JSON rendering of n to buf.
func (n Node) AppendJSON(buf *bytes.Buffer) {
	switch n.kind {
	case NodeScalar:
		switch n.scalar.typ {
		case ScalarInt:
			buf.WriteString(strconv.FormatInt(n.scalar.num, 10))
		case ScalarFixed:
			buf.WriteString(Fixed(n.scalar.num).String())
		case ScalarDate:
			appendJSONString(buf, n.scalar.Date().String())
		default:
			appendJSONString(buf, n.scalar.str)
		}
	case NodeList:
		buf.WriteByte('[')
		for i, it := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			it.AppendJSON(buf)
		}
		buf.WriteByte(']')
	default:
		n.appendMappingJSON(buf)
	}
}

func (n Node) appendMappingJSON(buf *bytes.Buffer) {
	buf.WriteByte('{')
	counts := make(map[string]int, len(n.entries))
	for _, e := range n.entries {
		counts[e.Key]++
	}
	written := make(map[string]bool, len(counts))
	first := true
	for _, e := range n.entries {
		if written[e.Key] {
			continue
		}
		written[e.Key] = true
		if !first {
			buf.WriteByte(',')
		}
		first = false
		appendJSONString(buf, e.Key)
		buf.WriteByte(':')
		if counts[e.Key] == 1 {
			e.Value.AppendJSON(buf)
			continue
		}
		buf.WriteByte('[')
		j := 0
		for _, o := range n.entries {
			if o.Key != e.Key {
				continue
			}
			if j > 0 {
				buf.WriteByte(',')
			}
			o.Value.AppendJSON(buf)
			j++
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
}

const hexDigits = "0123456789abcdef"

func appendJSONString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch {
			case c == '"' || c == '\\':
				buf.WriteByte('\\')
				buf.WriteByte(c)
			case c == '\n':
				buf.WriteString(`\n`)
			case c == '\r':
				buf.WriteString(`\r`)
			case c == '\t':
				buf.WriteString(`\t`)
			case c < 0x20:
				buf.WriteString(`\u00`)
				buf.WriteByte(hexDigits[c>>4])
				buf.WriteByte(hexDigits[c&0xf])
			default:
				buf.WriteByte(c)
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			buf.WriteString("\ufffd")
		} else {
			buf.WriteString(s[i : i+size])
		}
		i += size
	}
	buf.WriteByte('"')
}
