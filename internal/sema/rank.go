package sema

// convRank assigns each object-type conversion step its overload-resolution
// rank. A no-op chain has rank 0 ("Rank monotonicity" invariant). Widening
// conversions that can never lose information rank lowest; sign changes,
// int/float crossings, narrowing, and reinterpretation rank progressively
// higher so that, all else equal, overload resolution prefers the least
// lossy candidate.
var convRank = map[ConvKind]int{
	ConvNone: 0,

	// Widening, no sign change: cheapest non-identity conversions.
	ConvSignedWidenTo16:   1,
	ConvSignedWidenTo32:   1,
	ConvSignedWidenTo64:   1,
	ConvUnsignedWidenTo16: 1,
	ConvUnsignedWidenTo32: 1,
	ConvUnsignedWidenTo64: 1,
	ConvFloatWidenTo64:    1,

	// Sign change without narrowing.
	ConvSignedToUnsigned: 2,

	// Int <-> float, same "direction of information": widening-ish but a
	// representation change.
	ConvSignedToFloat32:   3,
	ConvSignedToFloat64:   3,
	ConvUnsignedToFloat32: 3,
	ConvUnsignedToFloat64: 3,

	ConvIntToByte:     3,
	ConvByteToSigned:  3,
	ConvByteToUnsigned: 3,

	// Narrowing: always potentially lossy.
	ConvIntTruncTo8:      5,
	ConvIntTruncTo16:     5,
	ConvIntTruncTo32:     5,
	ConvFloatTruncTo32:   5,
	ConvFloatToSigned8:   6,
	ConvFloatToSigned16:  6,
	ConvFloatToSigned32:  6,
	ConvFloatToSigned64:  6,
	ConvFloatToUnsigned8:  6,
	ConvFloatToUnsigned16: 6,
	ConvFloatToUnsigned32: 6,
	ConvFloatToUnsigned64: 6,

	// Pointer/array shape conversions: cheap, exact, no bit reinterpretation.
	ConvArrayRefFixedToDynamic: 1,
	ConvArrayPtrFixedToDynamic: 1,
	ConvNullptrToRawPtr:        1,
	ConvNullptrToUniquePtr:     1,
	ConvUniqueToRawPtr:         2,

	// Reinterpretation: bitwise aliasing, never picked over any of the above
	// when another candidate exists.
	ConvReinterpretValue:                 8,
	ConvReinterpretValueRef:              8,
	ConvReinterpretValueRefToByteArray:    8,
	ConvReinterpretValueRefFromByteArray:  8,
	ConvReinterpretArrayRefToByte:         8,
	ConvReinterpretArrayRefFromByte:       8,
	ConvReinterpretDynArrayRefToByte:      8,
	ConvReinterpretDynArrayRefFromByte:    8,

	// Construction kinds are never compared against scalar conversions in
	// the same overload-resolution round (a constructed argument always
	// starts from ConvNone plus a construction step appended separately),
	// but still need a rank so Conversion.Rank's max-reduction is
	// well-defined; trivial constructions are free, non-trivial ones cost
	// one rank step so a non-explicit converting constructor loses to an
	// exact-match overload.
	ConvTrivDefConstruct:      0,
	ConvTrivCopyConstruct:     0,
	ConvTrivAggrConstruct:     0,
	ConvNontrivConstruct:      4,
	ConvNontrivInlineConstruct: 4,
	ConvNontrivAggrConstruct:  4,
	ConvDynArrayConstruct:     4,
}
