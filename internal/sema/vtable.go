package sema

// VTableSlot is one virtual dispatch entry: the function that answers it,
// and the pointer adjustments a call through this slot needs to apply.
type VTableSlot struct {
	Name string // method name, used to unify slots across diamond bases
	Impl *Function

	// ThisAdjustment is added to the receiver pointer before the call, to
	// land on the correct base sub-object when the slot was inherited
	// through a non-first base (diamond/multiple inheritance).
	ThisAdjustment int

	// ReturnAdjustment is added to a returned pointer/reference when a
	// covariant override returns a more-derived type than the slot's
	// declared signature promises.
	ReturnAdjustment int

	// NeedsThunk is true when either adjustment is non-zero, meaning
	// codegen must emit a small trampoline rather than a direct branch
	// (SPEC_FULL §C.3).
	NeedsThunk bool
}

// VTable is the flat slot table backing dynamic dispatch through a &dyn/*dyn
// reference. Structs compose their bases' vtables; protocols define a
// template vtable shape that every conforming struct's vtable is built to
// match slot-for-slot.
type VTable struct {
	Owner *StructType // nil for a protocol's template vtable
	Slots []VTableSlot
}

// SlotByName finds a slot, if any, answering the given method name.
func (v *VTable) SlotByName(name string) (int, *VTableSlot) {
	for i := range v.Slots {
		if v.Slots[i].Name == name {
			return i, &v.Slots[i]
		}
	}
	return -1, nil
}

// BuildVTable composes the vtable for a struct from its base vtables and its
// own conformances, assigning each method a slot and marking which slots
// need this/return-pointer adjustment thunks.
//
// Slot assignment order: first base's slots (in order), then each
// subsequent base's slots not already present by name, then each conformed
// protocol's slots not already present; a base slot whose name is already
// present instead adds that base's offset to the existing slot's
// ThisAdjustment. Last, each of the struct's own methods replaces the Impl
// of the slot it answers by name, or is appended as a new slot.
func BuildVTable(owner *StructType) *VTable {
	vt := &VTable{Owner: owner}

	addSlots := func(src []VTableSlot, baseOffset int) {
		for _, s := range src {
			if idx, existing := vt.SlotByName(s.Name); idx >= 0 {
				existing.ThisAdjustment += baseOffset
				existing.NeedsThunk = existing.ThisAdjustment != 0 || existing.ReturnAdjustment != 0
				continue
			}
			s.ThisAdjustment += baseOffset
			s.NeedsThunk = s.ThisAdjustment != 0 || s.ReturnAdjustment != 0
			vt.Slots = append(vt.Slots, s)
		}
	}

	offset := 0
	for _, base := range owner.Bases {
		if base.VTable != nil {
			addSlots(base.VTable.Slots, offset)
		}
		offset += base.Size()
	}
	for _, proto := range owner.Conforms {
		if proto.VTable != nil {
			addSlots(proto.VTable.Slots, 0)
		}
	}

	for _, m := range owner.Methods {
		if idx, existing := vt.SlotByName(m.Name); idx >= 0 {
			existing.Impl = m
			m.VTableSlot = idx
			continue
		}
		vt.Slots = append(vt.Slots, VTableSlot{Name: m.Name, Impl: m})
		m.VTableSlot = len(vt.Slots) - 1
	}

	if len(vt.Slots) == 0 {
		return nil
	}
	return vt
}

// BuildProtocolVTable constructs the template vtable a protocol declares:
// one slot per method, unresolved (Impl is nil until a conforming struct
// fills it in).
func BuildProtocolVTable(p *ProtocolType) *VTable {
	vt := &VTable{}
	for _, base := range p.Bases {
		if base.VTable != nil {
			for _, s := range base.VTable.Slots {
				if idx, _ := vt.SlotByName(s.Name); idx < 0 {
					vt.Slots = append(vt.Slots, VTableSlot{Name: s.Name})
				}
			}
		}
	}
	for _, m := range p.Methods {
		if idx, _ := vt.SlotByName(m.Name); idx < 0 {
			vt.Slots = append(vt.Slots, VTableSlot{Name: m.Name})
		}
	}
	if len(vt.Slots) == 0 {
		return nil
	}
	return vt
}
