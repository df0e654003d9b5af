package sema

import "github.com/scatha-lang/scatha/internal/ast"

// convertOrPoison requests a conversion of expr (already analyzed to
// srcType) to dstType under mode; on success it records dstType and the
// resulting value category on expr's Decoration (callers that need the
// Conversion for IR lowering should call sema.ConvertTo directly instead).
// On failure it poisons expr's Decoration and returns (Conversion{}, false)
// without reporting — the caller reports with context-specific wording.
func (a *Analyzer) convertOrPoison(expr ast.Expression, srcType, dstType QualType, mode ConvMode, node ast.Node) (Conversion, bool) {
	dec := expr.Decoration()
	conv, ok := ConvertTo(srcType, dec.ValueCat, dstType, mode, constantOf(dec))
	if !ok {
		dec.Poisoned = true
		return Conversion{}, false
	}
	dec.Type = dstType
	if conv.ValueCat != VCatNone {
		dec.ValueCat = ast.RValue
	}
	return conv, true
}

func constantOf(dec *ast.Decoration) *ConstantValue {
	if cv, ok := dec.Const.(*ConstantValue); ok {
		return cv
	}
	return nil
}
