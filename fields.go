package goshape

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Field pairs a field name with its descriptor.
type Field struct {
	Name string
	Type Descriptor
}

// F is shorthand for Field{Name: name, Type: d}.
func F(name string, d Descriptor) Field { return Field{Name: name, Type: d} }

// Fields is an immutable ordered mapping from field name to descriptor.
type Fields struct {
	names  []string
	byName map[string]Descriptor
}

func fieldsFromMap(m map[string]Descriptor) Fields {
	names := lo.Keys(m)
	sort.Strings(names)
	return Fields{names: names, byName: lo.Assign(m)}
}

// fieldsFromList keeps the first position of a repeated name and the last
// descriptor given for it.
func fieldsFromList(list []Field) Fields {
	f := Fields{byName: make(map[string]Descriptor, len(list))}
	for _, fd := range list {
		if _, dup := f.byName[fd.Name]; !dup {
			f.names = append(f.names, fd.Name)
		}
		f.byName[fd.Name] = fd.Type
	}
	return f
}

// Len returns the number of fields.
func (f Fields) Len() int { return len(f.names) }

// Names returns the field names in order.
func (f Fields) Names() []string { return append([]string(nil), f.names...) }

// Get returns the descriptor of the named field.
func (f Fields) Get(name string) (Descriptor, bool) {
	d, ok := f.byName[name]
	return d, ok
}

// Has reports whether the named field is declared.
func (f Fields) Has(name string) bool {
	_, ok := f.byName[name]
	return ok
}

// Each calls fn for every field in order.
func (f Fields) Each(fn func(name string, d Descriptor)) {
	for _, n := range f.names {
		fn(n, f.byName[n])
	}
}

// List returns the fields in order.
func (f Fields) List() []Field {
	return lo.Map(f.names, func(n string, _ int) Field { return Field{Name: n, Type: f.byName[n]} })
}

func (f Fields) omit(names []string) Fields {
	return Fields{
		names:  lo.Without(f.names, names...),
		byName: lo.OmitByKeys(f.byName, names),
	}
}

func (f Fields) pick(names []string) Fields {
	return Fields{
		names:  lo.Filter(f.names, func(n string, _ int) bool { return lo.Contains(names, n) }),
		byName: lo.PickByKeys(f.byName, names),
	}
}

func (f Fields) String() string {
	b := &strings.Builder{}
	b.WriteByte('{')
	for i, n := range f.names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(n)
		b.WriteString(": ")
		b.WriteString(describe(f.byName[n]))
	}
	b.WriteByte('}')
	return b.String()
}
