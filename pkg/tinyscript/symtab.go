package tinyscript

// symtab is the symbol store shared by variables, labels and extension
// functions. Each interpreter instance owns its own tables; clearing one
// releases every entry at once. Keys are already case-folded by the
// tokenizer and the accessor functions, so lookups are plain map hits.
type symtab[T any] struct {
	m map[string]T
}

func newSymtab[T any]() *symtab[T] {
	return &symtab[T]{m: make(map[string]T)}
}

func (t *symtab[T]) find(name string) (T, bool) {
	v, ok := t.m[name]
	return v, ok
}

func (t *symtab[T]) put(name string, v T) {
	t.m[name] = v
}

func (t *symtab[T]) clear() {
	t.m = make(map[string]T)
}
