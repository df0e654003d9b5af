package sema

// LifetimeOpKind classifies one LifetimeOperation's synthesis status (spec
// §3 invariant i).
type LifetimeOpKind int

const (
	OpTrivial LifetimeOpKind = iota
	OpNontrivial
	OpNontrivialInline
	OpDeleted
)

// LifetimeOperation is one of the four default-ctor/copy-ctor/move-ctor/dtor
// slots a non-trivial ObjectType carries.
type LifetimeOperation struct {
	Kind     LifetimeOpKind
	Function *Function // set when Kind is Nontrivial or NontrivialInline
}

// LifetimeMetadata is the four-tuple from spec §3 "Lifetime metadata".
type LifetimeMetadata struct {
	DefaultConstructor LifetimeOperation
	CopyConstructor    LifetimeOperation
	MoveConstructor    LifetimeOperation
	Destructor         LifetimeOperation
}

// AnyNontrivial reports whether at least one operation needs codegen
// (§4.4 "For trivial objects nothing is emitted").
func (l *LifetimeMetadata) AnyNontrivial() bool {
	for _, op := range []LifetimeOperation{l.DefaultConstructor, l.CopyConstructor, l.MoveConstructor, l.Destructor} {
		if op.Kind != OpTrivial {
			return true
		}
	}
	return false
}

// SynthesizeLifetime computes the four LifetimeOperations for a newly
// declared struct type, following spec §4.3's rule exactly:
//
//	If the user defined a matching function, use it; else, if any
//	user-defined lifetime function disables synthesis (e.g. a user-defined
//	destructor suppresses copy), mark the operation Deleted; else if all
//	members have the operation non-deleted, synthesize it as Nontrivial;
//	otherwise mark it Trivial (only when all members are trivial).
//
// userDefined holds whichever of the four operations the analyzer found an
// explicit user function for (nil entries mean "not user-defined").
func SynthesizeLifetime(fields []Field, bases []*StructType, userDefined [4]*Function) *LifetimeMetadata {
	lm := &LifetimeMetadata{}
	ops := [4]*LifetimeOperation{&lm.DefaultConstructor, &lm.CopyConstructor, &lm.MoveConstructor, &lm.Destructor}

	// A user-defined destructor (but no user copy ctor) suppresses copy
	// synthesis, per spec §8 scenario 5; a user-defined move ctor also
	// suppresses copy synthesis. Move synthesis is suppressed by a
	// user-defined destructor unless a copy ctor is also user-defined.
	destructorUserDefined := userDefined[3] != nil
	copyUserDefined := userDefined[1] != nil
	moveUserDefined := userDefined[2] != nil

	for i, op := range ops {
		if fn := userDefined[i]; fn != nil {
			op.Kind = OpNontrivial
			op.Function = fn
			continue
		}

		disabledByUser := false
		switch i {
		case 1: // copy ctor
			disabledByUser = destructorUserDefined || moveUserDefined
		case 2: // move ctor
			disabledByUser = destructorUserDefined && !copyUserDefined
		case 3: // destructor
			disabledByUser = false
		}
		if disabledByUser {
			op.Kind = OpDeleted
			continue
		}

		allTrivial := true
		anyDeleted := false
		for _, base := range bases {
			memberOp := lifetimeOpOf(base.Lifetime, i)
			if memberOp == OpDeleted {
				anyDeleted = true
			}
			if memberOp != OpTrivial {
				allTrivial = false
			}
		}
		for _, f := range fields {
			st, ok := f.Type.Type.(*StructType)
			if !ok {
				continue
			}
			memberOp := lifetimeOpOf(st.Lifetime, i)
			if memberOp == OpDeleted {
				anyDeleted = true
			}
			if memberOp != OpTrivial {
				allTrivial = false
			}
		}

		switch {
		case anyDeleted:
			op.Kind = OpDeleted
		case allTrivial:
			op.Kind = OpTrivial
		default:
			op.Kind = OpNontrivial
		}
	}

	if !lm.AnyNontrivial() {
		return nil // trivial lifetime: spec §3 invariant i "every ObjectType has either trivial lifetime or..."
	}
	return lm
}

func lifetimeOpOf(lm *LifetimeMetadata, index int) LifetimeOpKind {
	if lm == nil {
		return OpTrivial
	}
	switch index {
	case 0:
		return lm.DefaultConstructor.Kind
	case 1:
		return lm.CopyConstructor.Kind
	case 2:
		return lm.MoveConstructor.Kind
	default:
		return lm.Destructor.Kind
	}
}
