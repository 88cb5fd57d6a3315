package check

// Type is the static type of a local, field or expression.
type Type int

const (
	Unknown Type = iota
	Int
	String
	Void
	StringArray
)

var typeNames = map[Type]string{
	Unknown:     "unknown",
	Int:         "int",
	String:      "String",
	Void:        "void",
	StringArray: "String[]",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// TypeFromName resolves a type as spelled in source. Any name outside the
// supported set resolves to Unknown.
func TypeFromName(name string) Type {
	switch name {
	case "int":
		return Int
	case "String":
		return String
	case "void":
		return Void
	case "String[]":
		return StringArray
	}
	return Unknown
}

// IsValue reports whether a local or field may hold a value of type t.
func (t Type) IsValue() bool {
	return t == Int || t == String
}

// Local is one entry of the symbol table.
type Local struct {
	Name string
	Type Type
}

// DefaultMaxLocals is the capacity of a Table created with zero capacity.
const DefaultMaxLocals = 256

// Table is the append-only symbol table of one method body. Lookups are
// linear and the first entry with a matching name wins.
type Table struct {
	locals []Local
	max    int
}

func NewTable(max int) *Table {
	if max <= 0 {
		max = DefaultMaxLocals
	}
	return &Table{max: max}
}

// Add appends an entry. It returns false when the table is full.
func (t *Table) Add(name string, typ Type) bool {
	if len(t.locals) >= t.max {
		return false
	}
	t.locals = append(t.locals, Local{Name: name, Type: typ})
	return true
}

func (t *Table) Lookup(name string) (Local, bool) {
	for _, l := range t.locals {
		if l.Name == name {
			return l, true
		}
	}
	return Local{}, false
}

func (t *Table) Len() int {
	return len(t.locals)
}

// Locals returns a copy of the entries in insertion order.
func (t *Table) Locals() []Local {
	out := make([]Local, len(t.locals))
	copy(out, t.locals)
	return out
}
