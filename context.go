package lugha

// A Context is one activation record. Parent links form the dynamic call
// chain used for tracebacks; the scope chain is separate, carried by the
// symbol table's own parent links. A context is never modified after
// creation; only its symbol table's bindings change.
type Context struct {
	DisplayName string
	Parent      *Context
	EntryPos    Position
	Symbols     *SymbolTable
}

// NewContext creates an activation record.
func NewContext(name string, parent *Context, entry Position, symbols *SymbolTable) *Context {
	return &Context{DisplayName: name, Parent: parent, EntryPos: entry, Symbols: symbols}
}
