package sema

// ConstructResult classifies which of the reserved construction ConvKinds an
// object-construction request resolved to.
type ConstructResult struct {
	Kind  ConvKind
	Ctor  *Function // the selected user constructor, if Kind is Nontriv*Construct
	Valid bool
}

// ResolveConstruction implements the "Object construction" rule: given a
// target type and an argument list (already analyzed, each carrying a
// QualType), select exactly one construction kind or report failure.
//
//   - zero arguments: default-construct, trivial unless the type's
//     lifetime metadata says otherwise.
//   - one argument of the same type, lvalue: copy-construct.
//   - arguments matching a declared constructor (by the struct's lifetime
//     functions or other declared Functions named after the type): that
//     constructor.
//   - otherwise: aggregate construction for struct/array targets with a
//     per-field/per-element argument count match, or dynamic-array
//     construction for a dynamic ArrayType target; else failure.
func ResolveConstruction(target ObjectType, args []QualType, argsLValue []bool) ConstructResult {
	st, isStruct := target.(*StructType)

	if len(args) == 0 {
		if isStruct && st.Lifetime != nil {
			switch st.Lifetime.DefaultConstructor.Kind {
			case OpDeleted:
				return ConstructResult{}
			case OpNontrivial:
				return ConstructResult{Kind: ConvNontrivConstruct, Ctor: st.Lifetime.DefaultConstructor.Function, Valid: true}
			case OpNontrivialInline:
				return ConstructResult{Kind: ConvNontrivInlineConstruct, Ctor: st.Lifetime.DefaultConstructor.Function, Valid: true}
			}
		}
		return ConstructResult{Kind: ConvTrivDefConstruct, Valid: true}
	}

	if len(args) == 1 && args[0].Type == target && argsLValue[0] {
		if isStruct && st.Lifetime != nil {
			switch st.Lifetime.CopyConstructor.Kind {
			case OpDeleted:
				return ConstructResult{}
			case OpNontrivial:
				return ConstructResult{Kind: ConvNontrivConstruct, Ctor: st.Lifetime.CopyConstructor.Function, Valid: true}
			case OpNontrivialInline:
				return ConstructResult{Kind: ConvNontrivInlineConstruct, Ctor: st.Lifetime.CopyConstructor.Function, Valid: true}
			}
		}
		return ConstructResult{Kind: ConvTrivCopyConstruct, Valid: true}
	}

	if isStruct {
		for _, m := range st.Methods {
			if m.Name != "new" || len(m.Params) != len(args) {
				continue
			}
			match := true
			for i, p := range m.Params {
				if !p.Type.Equal(args[i]) {
					match = false
					break
				}
			}
			if match {
				kind := ConvNontrivConstruct
				if m.Lifetime == OpNontrivialInline {
					kind = ConvNontrivInlineConstruct
				}
				return ConstructResult{Kind: kind, Ctor: m, Valid: true}
			}
		}
		if len(args) == len(st.Fields) {
			ok := true
			for i, f := range st.Fields {
				if !f.Type.Equal(args[i]) {
					ok = false
					break
				}
			}
			if ok {
				if st.IsTrivial() {
					return ConstructResult{Kind: ConvTrivAggrConstruct, Valid: true}
				}
				return ConstructResult{Kind: ConvNontrivAggrConstruct, Valid: true}
			}
		}
		return ConstructResult{}
	}

	if at, ok := target.(*ArrayType); ok && at.Count == Dynamic {
		for _, a := range args {
			if ae, ok := a.Type.(*ArrayType); ok && ae.Elem.Equal(at.Elem) {
				continue
			}
			if a.Type != at.Elem.Type {
				return ConstructResult{}
			}
		}
		return ConstructResult{Kind: ConvDynArrayConstruct, Valid: true}
	}

	return ConstructResult{}
}
