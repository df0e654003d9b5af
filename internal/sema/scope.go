package sema

// Scope is a lexical binding region: the global scope, a file scope, a
// struct/protocol body, a function body, or an anonymous block. Scopes
// chain to their parent for unqualified lookup and keep an insertion-ordered
// child list purely for deterministic traversal (diagnostics, dumps).
type Scope struct {
	Entity // Entity.Kind is one of KindGlobalScope, KindFileScope, KindAnonymousScope, or Native/ForeignLibrary
	children []*Scope

	// names maps a declared identifier to every entity it resolves to at
	// this scope. Most names map to a single entity; function names can
	// map to several (distinct overloads), which unqualified_lookup merges
	// into an OverloadSet view over the raw list.
	names map[string][]*Entity
}

func newScope(kind EntityKind, name string, parent *Scope) *Scope {
	s := &Scope{names: make(map[string][]*Entity)}
	s.Entity = Entity{ID: newEntityID(), Kind: kind, Name: name, Parent: parent}
	s.SetSelf(s)
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

// Children returns this scope's nested scopes in declaration order.
func (s *Scope) Children() []*Scope { return s.children }

// declare records name -> e in this scope's own name table. It does not
// check for redefinition; callers needing that diagnostic use
// SymbolTable.declareChecked.
func (s *Scope) declare(name string, e *Entity) {
	if name == "" {
		return
	}
	s.names[name] = append(s.names[name], e)
}

// localLookup returns every entity bound to name in this scope alone (no
// parent walk).
func (s *Scope) localLookup(name string) []*Entity {
	return s.names[name]
}
