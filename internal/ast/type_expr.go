package ast

import "github.com/scatha-lang/scatha/internal/token"

// TypeExpr is the syntax-level spelling of a type, per the textual grammar
// in spec §6: `T`, `&T`, `&mut T`, `*T`, `*unique mut T`, `[T]`, `[T, N]`,
// `(A, B) -> R`. internal/sema resolves a TypeExpr to a concrete QualType.
type TypeExpr interface {
	Node
	typeExprNode()
}

// NamedTypeExpr spells a plain named type: int, byte, MyStruct, ...
type NamedTypeExpr struct {
	Token token.Token
	Name  string
}

func (n *NamedTypeExpr) typeExprNode()          {}
func (n *NamedTypeExpr) TokenLiteral() string   { return n.Token.Literal }
func (n *NamedTypeExpr) Pos() token.Position    { return n.Token.Pos }

// ReferenceTypeExpr spells `&T` or `&mut T`.
type ReferenceTypeExpr struct {
	Token token.Token
	Mut   bool
	Elem  TypeExpr
	Dyn   bool // &dyn T
}

func (n *ReferenceTypeExpr) typeExprNode()        {}
func (n *ReferenceTypeExpr) TokenLiteral() string { return n.Token.Literal }
func (n *ReferenceTypeExpr) Pos() token.Position  { return n.Token.Pos }

// PointerTypeExpr spells `*T`, `*mut T`, or `*unique mut T`.
type PointerTypeExpr struct {
	Token  token.Token
	Mut    bool
	Unique bool
	Elem   TypeExpr
}

func (n *PointerTypeExpr) typeExprNode()        {}
func (n *PointerTypeExpr) TokenLiteral() string { return n.Token.Literal }
func (n *PointerTypeExpr) Pos() token.Position  { return n.Token.Pos }

// ArrayTypeExpr spells `[T]` (dynamic) or `[T, N]` (fixed count N).
type ArrayTypeExpr struct {
	Token   token.Token
	Elem    TypeExpr
	Count   Expression // nil => dynamic
}

func (n *ArrayTypeExpr) typeExprNode()        {}
func (n *ArrayTypeExpr) TokenLiteral() string { return n.Token.Literal }
func (n *ArrayTypeExpr) Pos() token.Position  { return n.Token.Pos }

// FunctionTypeExpr spells `(A, B) -> R`.
type FunctionTypeExpr struct {
	Token  token.Token
	Params []TypeExpr
	Ret    TypeExpr
}

func (n *FunctionTypeExpr) typeExprNode()        {}
func (n *FunctionTypeExpr) TokenLiteral() string { return n.Token.Literal }
func (n *FunctionTypeExpr) Pos() token.Position  { return n.Token.Pos }
