package il

// TableEntry is a single key/value pair inside a Map-form Table constant.
// Table preserves insertion order and permits duplicate keys: Lua tables
// admit multiple writes to the same key, and decompilation must be able to
// reveal that, so this is deliberately a sequence of pairs and never a Go
// map.
type TableEntry struct {
	Key   Value
	Value Value
}

// Table is the constant-pool representation of a Lua table literal. It is
// either an ordered Map of (Value, Value) pairs or an ordered Array of
// Value, never a hash-indexed structure.
type Table struct {
	// Entries holds the Map form. Nil when Array is populated.
	Entries []TableEntry

	// Array holds the Array form. Nil when Entries is populated.
	Array []Value

	isArray bool
}

// NewArrayTable builds the Array form of a Table constant.
func NewArrayTable(elements []Value) Table {
	return Table{Array: elements, isArray: true}
}

// NewMapTable builds the Map form of a Table constant, preserving the order
// of entries exactly as given (duplicates are kept, not collapsed).
func NewMapTable(entries []TableEntry) Table {
	return Table{Entries: entries, isArray: false}
}

// IsArray reports whether this Table is in Array form.
func (t Table) IsArray() bool { return t.isArray }
