package irgen

// Type is the IR-level shape of a value: just enough to size/align it and
// to know whether it needs a second register slot for a fat pointer.
// TypeOf (generator.go) builds one of these from an internal/sema QualType;
// Type itself holds only those size/align/fat-pointer facts as plain
// ints/bools, so lowering code need not re-derive them from a
// sema.ObjectType.
type Type struct {
	Name        string
	SizeBytes   int
	AlignBytes  int
	Trivial     bool
	FatPointer  bool // dynamic-array reference / fat pointer: two register slots
}

// Location classifies where a Value currently lives.
type Location int

const (
	Register Location = iota
	Memory
)

// Value is the generator's handle on one live SSA value (or the memory
// address of a larger one). Packed holds a single IR value for a
// register-sized scalar, or the base-pointer half of a fat pointer.
// Unpacked, when non-nil, holds the length half.
type Value struct {
	ID       int
	Name     string
	Type     Type
	Loc      Location
	Packed   *IRValue
	Unpacked *IRValue // fat-pointer length slot, or nil
}

// IRValue is an opaque SSA operand: either the Instruction that produced
// it (Result) or a Function parameter.
type IRValue struct {
	Def *Instruction
}

// ToRegister emits (into b) the minimum loads needed to materialize v as a
// register-resident value, returning the (possibly newly loaded) Value.
func (f *Function) ToRegister(b *BasicBlock, v *Value) *Value {
	if v.Loc == Register {
		return v
	}
	loaded := f.newValue(v.Name+".reg", v.Type)
	inst := b.emit(&Instruction{Op: OpLoad, Result: loaded, Args: []*Value{v}})
	loaded.Packed = &IRValue{Def: inst}
	loaded.Loc = Register
	if v.Type.FatPointer {
		lenInst := b.emit(&Instruction{Op: OpLoad, Result: loaded, Args: []*Value{v}, Imm: 8})
		loaded.Unpacked = &IRValue{Def: lenInst}
	}
	return loaded
}

// ToMemory emits a stack slot (Alloca) plus a store, returning a Value
// whose Loc is Memory, so callers needing an address (argument passing
// for a large/non-trivial parameter, address-of) always get one.
func (f *Function) ToMemory(b *BasicBlock, v *Value) *Value {
	if v.Loc == Memory {
		return v
	}
	slot := f.newValue(v.Name+".slot", v.Type)
	allocaInst := b.emit(&Instruction{Op: OpAlloca, Result: slot, Imm: int64(v.Type.SizeBytes)})
	slot.Packed = &IRValue{Def: allocaInst}
	slot.Loc = Memory
	b.emit(&Instruction{Op: OpStore, Args: []*Value{slot, v}})
	return slot
}

// ToValueLocation moves v into whichever Location want dictates.
func (f *Function) ToValueLocation(b *BasicBlock, v *Value, want Location) *Value {
	if want == Register {
		return f.ToRegister(b, v)
	}
	return f.ToMemory(b, v)
}
