package libformat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scatha-lang/scatha/internal/sema"
	"github.com/scatha-lang/scatha/internal/sema/libformat"
)

func TestRoundTripPreservesStructShape(t *testing.T) {
	entries := []sema.PublicEntityDesc{
		{
			Name: "Point",
			Kind: sema.KindType,
			Fields: []sema.FieldDesc{
				{Name: "x", Type: sema.QualTypeDesc{TypeName: "int32"}, Offset: 0},
				{Name: "y", Type: sema.QualTypeDesc{TypeName: "int32"}, Offset: 4},
			},
			Methods: []sema.FunctionDesc{
				{
					Name:       "length",
					ReturnType: sema.QualTypeDesc{TypeName: "float64"},
					IsMethod:   true,
				},
			},
			Lifetime: &sema.LifetimeDesc{
				DefaultConstructor: sema.LifetimeOpDesc{Kind: sema.OpTrivial},
				CopyConstructor:    sema.LifetimeOpDesc{Kind: sema.OpTrivial},
				MoveConstructor:    sema.LifetimeOpDesc{Kind: sema.OpTrivial},
				Destructor:         sema.LifetimeOpDesc{Kind: sema.OpTrivial},
			},
		},
		{
			Name: "makePoint",
			Kind: sema.KindFunction,
			Functions: []sema.FunctionDesc{
				{
					Name:       "makePoint",
					Params:     []sema.ParamDesc{{Name: "x", Type: sema.QualTypeDesc{TypeName: "int32"}}},
					ReturnType: sema.QualTypeDesc{TypeName: "Point"},
				},
			},
		},
	}

	doc, err := libformat.Serialize("geometry", entries)
	require.NoError(t, err)
	require.Contains(t, string(doc), "geometry")

	got, library, err := libformat.Deserialize(doc)
	require.NoError(t, err)
	assert.Equal(t, "geometry", library)
	require.Len(t, got, 2)

	assert.Equal(t, "Point", got[0].Name)
	require.Len(t, got[0].Fields, 2)
	assert.Equal(t, "x", got[0].Fields[0].Name)
	assert.Equal(t, 4, got[0].Fields[1].Offset)
	require.Len(t, got[0].Methods, 1)
	assert.Equal(t, "length", got[0].Methods[0].Name)
	require.NotNil(t, got[0].Lifetime)
	assert.Equal(t, sema.OpTrivial, got[0].Lifetime.Destructor.Kind)

	assert.Equal(t, "makePoint", got[1].Name)
	require.Len(t, got[1].Functions, 1)
	assert.Equal(t, "Point", got[1].Functions[0].ReturnType.TypeName)
}

func TestRoundTripNestedScopeAndPointerType(t *testing.T) {
	entries := []sema.PublicEntityDesc{
		{
			Name: "buffer",
			Kind: sema.KindVariable,
			VarType: sema.QualTypeDesc{
				Ctor: "ptr",
				Elem: &sema.QualTypeDesc{TypeName: "byte"},
				Mut:  sema.Mut,
			},
			Nested: []sema.PublicEntityDesc{
				{Name: "inner", Kind: sema.KindVariable, VarType: sema.QualTypeDesc{TypeName: "bool"}},
			},
		},
	}

	doc, err := libformat.Serialize("io", entries)
	require.NoError(t, err)

	got, _, err := libformat.Deserialize(doc)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ptr", got[0].VarType.Ctor)
	assert.Equal(t, "byte", got[0].VarType.Elem.TypeName)
	require.Len(t, got[0].Nested, 1)
	assert.Equal(t, "inner", got[0].Nested[0].Name)
}
