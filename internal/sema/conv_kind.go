package sema

// ConvKind enumerates every object-type conversion step the engine can
// chain together. Construction kinds live in the same enum because both
// participate in the same conversion-chain representation, even though
// construction kinds never combine with the scalar steps.
type ConvKind int

const (
	ConvNone ConvKind = iota

	ConvSignedToUnsigned
	ConvIntTruncTo8
	ConvIntTruncTo16
	ConvIntTruncTo32
	ConvSignedWidenTo16
	ConvSignedWidenTo32
	ConvSignedWidenTo64
	ConvUnsignedWidenTo16
	ConvUnsignedWidenTo32
	ConvUnsignedWidenTo64
	ConvFloatTruncTo32
	ConvFloatWidenTo64
	ConvSignedToFloat32
	ConvSignedToFloat64
	ConvUnsignedToFloat32
	ConvUnsignedToFloat64
	ConvFloatToSigned8
	ConvFloatToSigned16
	ConvFloatToSigned32
	ConvFloatToSigned64
	ConvFloatToUnsigned8
	ConvFloatToUnsigned16
	ConvFloatToUnsigned32
	ConvFloatToUnsigned64
	ConvIntToByte
	ConvByteToSigned
	ConvByteToUnsigned

	ConvReinterpretValue
	ConvReinterpretValueRef
	ConvReinterpretValueRefToByteArray
	ConvReinterpretValueRefFromByteArray
	ConvReinterpretArrayRefToByte
	ConvReinterpretArrayRefFromByte
	ConvReinterpretDynArrayRefToByte
	ConvReinterpretDynArrayRefFromByte

	ConvArrayRefFixedToDynamic
	ConvArrayPtrFixedToDynamic
	ConvNullptrToRawPtr
	ConvNullptrToUniquePtr
	ConvUniqueToRawPtr

	// Construction kinds (see construct.go).
	ConvTrivDefConstruct
	ConvTrivCopyConstruct
	ConvTrivAggrConstruct
	ConvNontrivConstruct
	ConvNontrivInlineConstruct
	ConvNontrivAggrConstruct
	ConvDynArrayConstruct
)

// ValueCatConv classifies the value-category half of a conversion.
type ValueCatConv int

const (
	VCatNone ValueCatConv = iota
	VCatLValueToRValue
	VCatMaterializeTemporary
)

// MutConv classifies the mutability half. MutConvNone is a no-op;
// MutConvToConst is the only recorded direction (Mut -> Const).
type MutConv int

const (
	MutConvNone MutConv = iota
	MutConvToConst
)

// Conversion is the full decomposition of one source-to-target conversion:
// the mutability step, the value-category step, and an ordered object-type
// chain (almost always length 0 or 1; chains longer than 1 arise only for
// multi-hop implicit widenings the analyzer requests in one call, e.g.
// int8 rvalue -> int64 rvalue via a single SignedWidenTo64 step, so in
// practice this engine never needs to emit more than one object-type step,
// but the field stays a slice to match the fixed enumeration's chain model).
type Conversion struct {
	Mut      MutConv
	ValueCat ValueCatConv
	Chain    []ConvKind
}

// Rank is the sum of the value-category rank, the mutability rank, and the
// maximum rank across the object-type chain (spec's "Overload ranking").
func (c Conversion) Rank() int {
	r := valueCatRank[c.ValueCat] + mutRank[c.Mut]
	max := 0
	for _, k := range c.Chain {
		if rk := convRank[k]; rk > max {
			max = rk
		}
	}
	return r + max
}

var valueCatRank = map[ValueCatConv]int{
	VCatNone:                 0,
	VCatLValueToRValue:       1,
	VCatMaterializeTemporary: 1,
}

var mutRank = map[MutConv]int{
	MutConvNone:    0,
	MutConvToConst: 1,
}
