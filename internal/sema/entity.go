// Package sema implements the compiler's entity graph & symbol table (C1),
// conversion & lifetime engine (C2), and semantic analyzer (C3) — spec §4.1,
// §4.2, §4.3.
//
// Grounded on the teacher's internal/semantic package: a scope-chaining
// symbol table (internal/semantic/symbol_table.go) generalized from a flat
// name->Symbol map per scope to an entity-graph arena with canonicalized
// structural types, and an analyze_*.go-per-concern file split generalized
// from DWScript's class/interface model to Scatha's struct/protocol model.
package sema

import "github.com/google/uuid"

// EntityKind is the closed kind set from spec §3 "Entities".
type EntityKind int

const (
	KindVariable EntityKind = iota
	KindProperty
	KindTemporary
	KindBaseClassObject
	KindFunction
	KindOverloadSet
	KindAlias
	KindPoison

	// Scope kinds.
	KindGlobalScope
	KindFileScope
	KindAnonymousScope
	KindNativeLibrary
	KindForeignLibrary

	// Type kinds (see types.go for the ObjectType payloads).
	KindType
)

func (k EntityKind) String() string {
	names := [...]string{
		"Variable", "Property", "Temporary", "BaseClassObject", "Function",
		"OverloadSet", "Alias", "Poison", "GlobalScope", "FileScope",
		"AnonymousScope", "NativeLibrary", "ForeignLibrary", "Type",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// Access mirrors ast.Access without importing internal/ast (sema is
// consumed by irgen and should stay ast-agnostic beyond what the analyzer
// itself needs).
type Access int

const (
	AccessDefault Access = iota
	AccessPublic
	AccessPrivate
)

// Entity is the common header every named or anonymous compile-time
// construct embeds (spec §3 "Entities"): unique identity, optional name,
// parent scope, access control, alias back-references, and a kind tag.
//
// The symbol-table arena (*SymbolTable) owns every Entity for the lifetime
// of the compilation; every other pointer to an Entity is a non-owning
// back-reference (spec §3 "Lifetime and ownership"), matching the teacher's
// comment that "indices or back-references do not own."
type Entity struct {
	ID     uuid.UUID
	Kind   EntityKind
	Name   string
	Parent *Scope
	Access Access

	aliases []*Entity // entities that are Aliases pointing at this one
	self    any       // the concrete wrapper (*Variable, *Function, ...) embedding this header
}

func newEntityID() uuid.UUID { return uuid.New() }

// Self returns the concrete entity value (e.g. *Function, *Alias) that
// embeds this Entity header. Go has no upcast-with-downcast story for
// embedding, so scopes, variables, functions, aliases, and the structs and
// protocols the analyzer declares set Self right after allocation; callers
// that only hold a *Entity (e.g. a Scope's name table) use Self to recover
// the concrete type. The primitive and structural types the SymbolTable
// builds never set it, so Self returns nil for them.
func (e *Entity) Self() any { return e.self }

// SetSelf records the concrete wrapper value; called once, right after the
// wrapper is allocated.
func (e *Entity) SetSelf(v any) { e.self = v }

// AddAlias records that alias refers to e (keeps the back-reference list
// required by spec §3 "Aliases hold a back-reference... and appear in the
// aliased entity's alias list").
func (e *Entity) AddAlias(alias *Entity) { e.aliases = append(e.aliases, alias) }

// Aliases returns every Alias entity referring to e.
func (e *Entity) Aliases() []*Entity { return e.aliases }

// Variable is a named storage location: a local, a global, or a parameter.
type Variable struct {
	Entity
	Type    QualType
	IsParam bool
	// Index is the struct field index for a member variable, or -1.
	Index int
}

// Temporary is an unnamed rvalue object materialized by the analyzer or
// conversion engine, tracked so a cleanup entry can name it (spec §3
// "Syntax tree decoration").
type Temporary struct {
	Entity
	Type QualType
}

// BaseClassObject represents the base-class sub-object embedded at the
// start of a derived struct's layout, used for this-pointer adjustment in
// vtable dispatch (spec §4.3).
type BaseClassObject struct {
	Entity
	Type       *StructType
	ByteOffset int
}

// Function is a single overload: a concrete signature, optional body
// linkage, and (for methods) receiver information.
type Function struct {
	Entity
	Params     []*Variable
	ReturnType QualType
	retTypeSet bool // set_function_type called at least once

	IsMethod    bool
	ReceiverDyn bool // virtual: `&dyn this` receiver
	Receiver    *StructType

	Extern   bool
	Variadic bool

	// VTableSlot is >= 0 when this function occupies a slot in its owning
	// struct/protocol's vtable (spec §4.3 VTable construction).
	VTableSlot int

	Lifetime LifetimeOpKind // set when this function implements a synthesized/lifetime op
}

// SignatureEquals reports whether f and other have identical argument-type
// lists, the equality spec §4.1 uses both for overload coexistence checks
// and for set_function_type's "no other function in scope has identical
// argument-type list" rule.
func (f *Function) SignatureEquals(other *Function) bool {
	if len(f.Params) != len(other.Params) {
		return false
	}
	for i, p := range f.Params {
		if !p.Type.Equal(other.Params[i].Type) {
			return false
		}
	}
	return true
}

// OverloadSet groups every Function entity sharing a name reachable from a
// lookup point (spec §4.1 unqualified_lookup).
type OverloadSet struct {
	Entity
	Functions []*Function
}

// Alias is a name that transparently forwards to another entity. Aliases
// never participate in structural type canonicalization (spec §4.1
// invariant c) and are resolved transparently during overload-set merging
// (SPEC_FULL §C.1).
type Alias struct {
	Entity
	Target *Entity
}

// Resolve walks through a (possibly chained) Alias to the entity it
// ultimately names.
func Resolve(e *Entity) *Entity {
	for {
		a, ok := e.Self().(*Alias)
		if !ok {
			return e
		}
		e = a.Target
	}
}

// Poison is a placeholder entity substituted wherever analysis failed, so
// downstream passes can keep going without special-casing nil (spec §4.3
// "Failure semantics: ... continues with poisoned placeholders").
type Poison struct {
	Entity
}
