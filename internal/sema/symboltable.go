package sema

import (
	"fmt"

	"github.com/scatha-lang/scatha/internal/issue"
	"github.com/scatha-lang/scatha/internal/token"
)

// SymbolTable is the arena owning every Entity for one compilation: it
// chains scopes, canonicalizes structural types, and resolves names.
// Everything else (conversion engine, analyzer, IR generator) only ever
// holds non-owning pointers into this arena.
type SymbolTable struct {
	Global *Scope
	cur    *Scope

	issues *issue.Handler

	// Structural-type canonicalization tables (invariant b: "canonical
	// structural types are unique per argument tuple"). Keyed on a
	// hashable description of the construction so identical requests
	// return the same *Entity.
	arrays  map[arrayKey]*ArrayType
	ptrs    map[ptrKey]*RawPtrType
	uniques map[ptrKey]*UniquePtrType
	refs    map[ptrKey]*ReferenceType
	fns     map[string]*FunctionType // keyed on FunctionType.String()

	primVoid    *VoidType
	primBool    *BoolType
	primByte    *ByteType
	primInts    map[[2]int]*IntType // [width, signed(0/1)]
	primFloats  map[int]*FloatType
	primNullPtr *NullPtrType
}

type arrayKey struct {
	elem  QualType
	count int
}

type ptrKey struct {
	pointee QualType
}

// NewSymbolTable allocates an empty table rooted at a single global scope
// and registers the built-in primitive types into it.
func NewSymbolTable(issues *issue.Handler) *SymbolTable {
	st := &SymbolTable{
		issues:     issues,
		arrays:     make(map[arrayKey]*ArrayType),
		ptrs:       make(map[ptrKey]*RawPtrType),
		uniques:    make(map[ptrKey]*UniquePtrType),
		refs:       make(map[ptrKey]*ReferenceType),
		fns:        make(map[string]*FunctionType),
		primInts:   make(map[[2]int]*IntType),
		primFloats: make(map[int]*FloatType),
	}
	st.Global = newScope(KindGlobalScope, "", nil)
	st.cur = st.Global
	st.registerPrimitives()
	return st
}

func (st *SymbolTable) registerPrimitives() {
	st.primVoid = &VoidType{Entity: st.newTypeEntity("void")}
	st.primBool = &BoolType{Entity: st.newTypeEntity("bool")}
	st.primByte = &ByteType{Entity: st.newTypeEntity("byte")}
	st.primNullPtr = &NullPtrType{Entity: st.newTypeEntity("nullptr_t")}
	for _, w := range []int{8, 16, 32, 64} {
		st.Int(w, true)
		st.Int(w, false)
	}
	st.Float(32)
	st.Float(64)
}

func (st *SymbolTable) newTypeEntity(name string) Entity {
	e := Entity{ID: newEntityID(), Kind: KindType, Name: name, Parent: st.Global}
	st.Global.declare(name, &e)
	return e
}

// --- current-scope navigation -------------------------------------------

// CurrentScope returns the scope new declarations attach to.
func (st *SymbolTable) CurrentScope() *Scope { return st.cur }

// PushAnonymousScope enters a new unnamed child scope (a block body, a
// loop body) and returns it; a matching Pop must follow.
func (st *SymbolTable) PushAnonymousScope() *Scope {
	s := newScope(KindAnonymousScope, "", st.cur)
	st.cur = s
	return s
}

// Pop leaves the current scope, returning to its parent. No-op at the
// global scope.
func (st *SymbolTable) Pop() {
	if st.cur.Parent != nil {
		st.cur = st.cur.Parent
	}
}

// EnterScope makes s the current scope directly (used when re-entering a
// struct or function scope built in an earlier pass, e.g. body analysis
// after signature analysis).
func (st *SymbolTable) EnterScope(s *Scope) { st.cur = s }

// --- primitive accessors --------------------------------------------------

func (st *SymbolTable) Void() *VoidType       { return st.primVoid }
func (st *SymbolTable) Bool() *BoolType       { return st.primBool }
func (st *SymbolTable) Byte() *ByteType       { return st.primByte }
func (st *SymbolTable) NullPtr() *NullPtrType { return st.primNullPtr }

func (st *SymbolTable) Int(width int, signed bool) *IntType {
	sbit := 0
	if signed {
		sbit = 1
	}
	key := [2]int{width, sbit}
	if t, ok := st.primInts[key]; ok {
		return t
	}
	t := &IntType{Entity: st.newTypeEntity(fmt.Sprintf("int%d/%v", width, signed)), Width: width, Signed: signed}
	st.primInts[key] = t
	return t
}

func (st *SymbolTable) Float(width int) *FloatType {
	if t, ok := st.primFloats[width]; ok {
		return t
	}
	t := &FloatType{Entity: st.newTypeEntity(fmt.Sprintf("float%d", width)), Width: width}
	st.primFloats[width] = t
	return t
}

// --- structural type canonicalization (invariant b) ------------------------

func (st *SymbolTable) ArrayType(elem QualType, count int) *ArrayType {
	key := arrayKey{elem: elem, count: count}
	if t, ok := st.arrays[key]; ok {
		return t
	}
	t := &ArrayType{Entity: st.canonicalEntity(elem.Type), Elem: elem, Count: count}
	st.arrays[key] = t
	return t
}

func (st *SymbolTable) PointerType(pointee QualType) *RawPtrType {
	key := ptrKey{pointee}
	if t, ok := st.ptrs[key]; ok {
		return t
	}
	t := &RawPtrType{Entity: st.canonicalEntity(pointee.Type), Pointee: pointee}
	st.ptrs[key] = t
	return t
}

func (st *SymbolTable) UniquePointerType(pointee QualType) *UniquePtrType {
	key := ptrKey{pointee}
	if t, ok := st.uniques[key]; ok {
		return t
	}
	t := &UniquePtrType{Entity: st.canonicalEntity(pointee.Type), Pointee: pointee}
	st.uniques[key] = t
	return t
}

func (st *SymbolTable) ReferenceType(referent QualType) *ReferenceType {
	key := ptrKey{referent}
	if t, ok := st.refs[key]; ok {
		return t
	}
	t := &ReferenceType{Entity: st.canonicalEntity(referent.Type), Referent: referent}
	st.refs[key] = t
	return t
}

func (st *SymbolTable) FunctionTypeOf(args []QualType, ret QualType) *FunctionType {
	t := &FunctionType{Args: args, Ret: ret}
	key := t.String()
	if existing, ok := st.fns[key]; ok {
		return existing
	}
	t.Entity = st.canonicalEntity(ret.Type)
	st.fns[key] = t
	return t
}

// canonicalEntity parents a newly canonicalized structural type to the
// scope of its element/base type (invariant iv), falling back to the
// global scope for element-less constructions.
func (st *SymbolTable) canonicalEntity(element ObjectType) Entity {
	parent := st.Global
	if element != nil {
		if p := element.AsEntity().Parent; p != nil {
			parent = p
		}
	}
	return Entity{ID: newEntityID(), Kind: KindType, Parent: parent}
}

// --- declare_* family -------------------------------------------------

// declareChecked reports Redefinition when name is already bound in the
// current scope to a non-overloadable entity, or to a Function when e
// itself is not also a Function.
func (st *SymbolTable) declareChecked(name string, e *Entity, pos token.Position, node any) bool {
	existing := st.cur.localLookup(name)
	if len(existing) == 0 {
		st.cur.declare(name, e)
		return true
	}
	_, newIsFn := e.Self().(*Function)
	for _, other := range existing {
		other = Resolve(other)
		_, otherIsFn := other.Self().(*Function)
		if !newIsFn || !otherIsFn {
			st.issues.Report(issue.Redefinition, pos, node, "redefinition of %q", name)
			return false
		}
		if fn, ok := e.Self().(*Function); ok {
			if ofn, ok2 := other.Self().(*Function); ok2 && fn.SignatureEquals(ofn) {
				st.issues.Report(issue.Redefinition, pos, node, "redefinition of %q with identical signature", name)
				return false
			}
		}
	}
	st.cur.declare(name, e)
	return true
}

// DeclareVariable declares a local/global/parameter variable in the
// current scope.
func (st *SymbolTable) DeclareVariable(name string, typ QualType, isParam bool, pos token.Position, node any) *Variable {
	v := &Variable{Entity: Entity{ID: newEntityID(), Kind: KindVariable, Name: name, Parent: st.cur}, Type: typ, IsParam: isParam, Index: -1}
	v.SetSelf(v)
	st.declareChecked(name, &v.Entity, pos, node)
	return v
}

// DeclareProperty declares a computed-accessor member (e.g. `.count` on an
// array reference), which is not backed by storage.
func (st *SymbolTable) DeclareProperty(name string, typ QualType) *Variable {
	v := &Variable{Entity: Entity{ID: newEntityID(), Kind: KindProperty, Name: name, Parent: st.cur}, Type: typ, Index: -1}
	v.SetSelf(v)
	st.cur.declare(name, &v.Entity)
	return v
}

// DeclareFunction declares one overload. Signature-identical redeclaration
// in the same scope is reported as Redefinition; otherwise it joins any
// existing entities of the same name as a sibling overload.
func (st *SymbolTable) DeclareFunction(name string, pos token.Position, node any) *Function {
	f := &Function{Entity: Entity{ID: newEntityID(), Kind: KindFunction, Name: name, Parent: st.cur}}
	f.SetSelf(f)
	st.declareChecked(name, &f.Entity, pos, node)
	return f
}

// SetFunctionType records the computed parameter/return types for a
// function whose signature was declared incrementally across several
// analyzer passes (signature pass, then body pass).
func (st *SymbolTable) SetFunctionType(f *Function, params []*Variable, ret QualType) {
	f.Params = params
	f.ReturnType = ret
	f.retTypeSet = true
}

// DeclareAlias binds name to target without creating a new canonical
// entity; target's Aliases list records the back-reference.
func (st *SymbolTable) DeclareAlias(name string, target *Entity, pos token.Position, node any) *Alias {
	a := &Alias{Entity: Entity{ID: newEntityID(), Kind: KindAlias, Name: name, Parent: st.cur}, Target: target}
	a.SetSelf(a)
	target.AddAlias(&a.Entity)
	st.declareChecked(name, &a.Entity, pos, node)
	return a
}

// DeclareAnonymousScope opens and declares a nested scope not bound to any
// name (a block body).
func (st *SymbolTable) DeclareAnonymousScope() *Scope {
	return st.PushAnonymousScope()
}

// DeclarePoison records a name as poisoned after a failed declaration, so
// later references to it do not cascade additional diagnostics.
func (st *SymbolTable) DeclarePoison(name string, pos token.Position, node any) *Poison {
	p := &Poison{Entity: Entity{ID: newEntityID(), Kind: KindPoison, Name: name, Parent: st.cur}}
	p.SetSelf(p)
	st.cur.declare(name, &p.Entity)
	return p
}

// --- lookup -------------------------------------------------------------

// UnqualifiedLookup walks outward from the current scope gathering entities
// bound to name. A function hit extends the walk (merging further outer
// overloads of the same name, with aliases transparently resolved before
// the function-or-not test, per SPEC_FULL §C.1); any non-function hit
// returns immediately with just that scope's bindings.
func (st *SymbolTable) UnqualifiedLookup(name string) []*Entity {
	var merged []*Entity
	for s := st.cur; s != nil; s = s.Parent {
		bound := s.localLookup(name)
		if len(bound) == 0 {
			continue
		}
		allFunctions := true
		for _, e := range bound {
			if _, ok := Resolve(e).Self().(*Function); !ok {
				allFunctions = false
				break
			}
		}
		if !allFunctions {
			return bound
		}
		merged = append(merged, bound...)
	}
	return merged
}

// --- library import -----------------------------------------------------

// LibrarySearchPath lists the directories import_native_library/
// import_foreign_library probe, in order, mirroring the host's
// configured library path list (see SPEC_FULL.md ambient configuration
// section).
var LibrarySearchPath []string

// ImportNativeLibrary parses descriptor (the deserialized public-entity
// list produced by the symbol-table codec) into a new child scope of the
// global scope named path.
func (st *SymbolTable) ImportNativeLibrary(path string, descriptor []PublicEntityDesc) *Scope {
	lib := newScope(KindNativeLibrary, path, st.Global)
	for _, d := range descriptor {
		materializePublicEntity(st, lib, d)
	}
	return lib
}

// ImportForeignLibrary records a foreign (FFI) library reference: just the
// name and file, since foreign symbols are resolved lazily at call time by
// the VM's FFI bridge rather than type-checked against a descriptor.
func (st *SymbolTable) ImportForeignLibrary(path string) *Scope {
	return newScope(KindForeignLibrary, path, st.Global)
}
