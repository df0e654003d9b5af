package sema

// CommonType implements the "Common type" rule used by conditional
// expressions and untyped-literal contexts: identical types return
// themselves; two integers widen (preferring a signed result when the
// wider side is signed, matching the sign-widening rules of ConvertTo) or
// fail if incompatible; a fixed array and a dynamic array of the same
// element type produce the dynamic array; a pointer and nullptr_t produce
// the pointer; two pointers produce a pointer to their pointees' common
// type.
func CommonType(st *SymbolTable, a, b QualType) (QualType, bool) {
	if a.Type == b.Type {
		return QualType{Type: a.Type, Mut: commonMut(a.Mut, b.Mut)}, true
	}

	if ai, ok := a.Type.(*IntType); ok {
		if bi, ok := b.Type.(*IntType); ok {
			return commonIntType(st, ai, bi)
		}
	}

	if aa, ok := a.Type.(*ArrayType); ok {
		if ba, ok := b.Type.(*ArrayType); ok && aa.Elem.Equal(ba.Elem) {
			if aa.Count == Dynamic || ba.Count == Dynamic {
				return QualType{Type: st.ArrayType(aa.Elem, Dynamic)}, true
			}
		}
	}

	if _, aNull := a.Type.(*NullPtrType); aNull {
		if _, bPtr := b.Type.(*RawPtrType); bPtr {
			return b, true
		}
	}
	if _, bNull := b.Type.(*NullPtrType); bNull {
		if _, aPtr := a.Type.(*RawPtrType); aPtr {
			return a, true
		}
	}

	if ap, ok := a.Type.(*RawPtrType); ok {
		if bp, ok := b.Type.(*RawPtrType); ok {
			if common, ok := CommonType(st, ap.Pointee, bp.Pointee); ok {
				return QualType{Type: st.PointerType(common)}, true
			}
		}
	}

	return QualType{}, false
}

func commonMut(a, b Mutability) Mutability {
	if a == Const || b == Const {
		return Const
	}
	return Mut
}

func commonIntType(st *SymbolTable, a, b *IntType) (QualType, bool) {
	if a.Signed == b.Signed {
		width := a.Width
		if b.Width > width {
			width = b.Width
		}
		return QualType{Type: st.Int(width, a.Signed)}, true
	}
	s, u := a, b
	if !a.Signed {
		s, u = b, a
	}
	if s.Width > u.Width {
		return QualType{Type: s}, true
	}
	return QualType{}, false
}
