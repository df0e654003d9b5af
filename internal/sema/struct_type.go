package sema

// Field describes one struct member's storage (spec §3 invariant ii:
// "aggregate types expose memory layout").
type Field struct {
	Name   string
	Type   QualType
	Offset int
}

// StructType is an aggregate type with memory layout, lifetime metadata,
// an optional base list, and (when it conforms to a protocol or inherits)
// a VTable (spec §3 invariants i-iii).
type StructType struct {
	Entity
	Fields   []Field
	Bases    []*StructType   // inheritance bases, in declaration order
	Conforms []*ProtocolType // protocols this struct structurally/explicitly conforms to
	Methods  []*Function

	SizeBytes  int
	AlignBytes int

	Lifetime *LifetimeMetadata // nil => trivial lifetime (spec §3 invariant i)
	VTable   *VTable           // nil unless Conforms/Bases require one
}

func (*StructType) Kind() ObjectTypeKind { return TypeStruct }
func (t *StructType) Size() int          { return t.SizeBytes }
func (t *StructType) Align() int         { return t.AlignBytes }
func (t *StructType) String() string     { return t.Name }
func (t *StructType) AsEntity() *Entity  { return &t.Entity }

// IsTrivial reports whether the type has trivial lifetime (no
// LifetimeMetadata at all).
func (t *StructType) IsTrivial() bool { return t.Lifetime == nil }

// FieldByName looks up a member by name; returns (Field{}, false) if absent.
func (t *StructType) FieldByName(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// MethodByName looks up a declared (non-synthesized) method by name.
func (t *StructType) MethodByName(name string) (*Function, bool) {
	for _, m := range t.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// ComputeLayout assigns byte offsets to every field in declaration order
// (after any base-class sub-objects), and sets SizeBytes/AlignBytes. This
// is the struct half of spec §3 invariant ii.
func (t *StructType) ComputeLayout() {
	offset := 0
	align := 1
	for i, base := range t.Bases {
		if base.Align() > align {
			align = base.Align()
		}
		offset = alignUp(offset, base.Align())
		_ = i
		offset += base.Size()
	}
	for i := range t.Fields {
		f := &t.Fields[i]
		fa := f.Type.Type.Align()
		if fa > align {
			align = fa
		}
		offset = alignUp(offset, fa)
		f.Offset = offset
		offset += f.Type.Type.Size()
	}
	t.AlignBytes = align
	t.SizeBytes = alignUp(offset, align)
}

func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}

// ProtocolType is a set of virtual method signatures with no storage,
// always carrying a VTable template (spec §3 invariant iii).
type ProtocolType struct {
	Entity
	Bases   []*ProtocolType
	Methods []*Function
	VTable  *VTable
}

func (*ProtocolType) Kind() ObjectTypeKind { return TypeProtocol }
func (*ProtocolType) Size() int            { return 0 } // never an object type by itself, only &dyn/*dyn
func (*ProtocolType) Align() int           { return 1 }
func (t *ProtocolType) String() string     { return t.Name }
func (t *ProtocolType) AsEntity() *Entity  { return &t.Entity }
