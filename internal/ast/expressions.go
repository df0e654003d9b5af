package ast

import "github.com/scatha-lang/scatha/internal/token"

// exprBase factors the Decoration every Expression embeds.
type exprBase struct {
	Decoration
}

func (*exprBase) exprNode() {}

// Identifier names a variable, function, type, or other entity.
type Identifier struct {
	exprBase
	Token token.Token
	Name  string
}

func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) Pos() token.Position  { return i.Token.Pos }

// IntLiteral is an integer literal.
type IntLiteral struct {
	exprBase
	Token token.Token
	Value int64
}

func (l *IntLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *IntLiteral) Pos() token.Position  { return l.Token.Pos }

// FloatLiteral is a floating-point literal.
type FloatLiteral struct {
	exprBase
	Token token.Token
	Value float64
}

func (l *FloatLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *FloatLiteral) Pos() token.Position  { return l.Token.Pos }

// BoolLiteral is `true` or `false`.
type BoolLiteral struct {
	exprBase
	Token token.Token
	Value bool
}

func (l *BoolLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *BoolLiteral) Pos() token.Position  { return l.Token.Pos }

// StringLiteral is a string literal, which decays to `[byte]` in Scatha.
type StringLiteral struct {
	exprBase
	Token token.Token
	Value string
}

func (l *StringLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *StringLiteral) Pos() token.Position  { return l.Token.Pos }

// NullptrLiteral is the `null` literal (NullPtrType).
type NullptrLiteral struct {
	exprBase
	Token token.Token
}

func (l *NullptrLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *NullptrLiteral) Pos() token.Position  { return l.Token.Pos }

// ListExpression is an aggregate/array literal `[a, b, c]`.
type ListExpression struct {
	exprBase
	Token    token.Token
	Elements []Expression
}

func (l *ListExpression) TokenLiteral() string { return l.Token.Literal }
func (l *ListExpression) Pos() token.Position  { return l.Token.Pos }

// BinaryExpression is `left OP right`.
type BinaryExpression struct {
	exprBase
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (b *BinaryExpression) TokenLiteral() string { return b.Token.Literal }
func (b *BinaryExpression) Pos() token.Position  { return b.Token.Pos }

// UnaryExpression is `OP operand` (prefix) such as `-x`, `!x`, `*p`, `&x`.
type UnaryExpression struct {
	exprBase
	Token    token.Token
	Operator string
	Operand  Expression
}

func (u *UnaryExpression) TokenLiteral() string { return u.Token.Literal }
func (u *UnaryExpression) Pos() token.Position  { return u.Token.Pos }

// AssignExpression is `target OP= value` for OP in {"", +, -, *, /}.
type AssignExpression struct {
	exprBase
	Token    token.Token
	Target   Expression
	Operator string
	Value    Expression
}

func (a *AssignExpression) TokenLiteral() string { return a.Token.Literal }
func (a *AssignExpression) Pos() token.Position  { return a.Token.Pos }

// CallExpression is `callee(args...)`.
type CallExpression struct {
	exprBase
	Token  token.Token
	Callee Expression
	Args   []Expression

	// Virtual filled by the analyzer when Callee resolves to a vtable slot
	// rather than a direct function (spec §4.3 "method dispatch through a
	// vtable").
	Virtual bool
}

func (c *CallExpression) TokenLiteral() string { return c.Token.Literal }
func (c *CallExpression) Pos() token.Position  { return c.Token.Pos }

// MemberExpression is `object.member`.
type MemberExpression struct {
	exprBase
	Token  token.Token
	Object Expression
	Member string
}

func (m *MemberExpression) TokenLiteral() string { return m.Token.Literal }
func (m *MemberExpression) Pos() token.Position  { return m.Token.Pos }

// IndexExpression is `array[index]`.
type IndexExpression struct {
	exprBase
	Token token.Token
	Array Expression
	Index Expression
}

func (x *IndexExpression) TokenLiteral() string { return x.Token.Literal }
func (x *IndexExpression) Pos() token.Position  { return x.Token.Pos }

// SliceExpression is `array[lo:hi]`.
type SliceExpression struct {
	exprBase
	Token token.Token
	Array Expression
	Lo    Expression // nil => 0
	Hi    Expression // nil => array.count
}

func (x *SliceExpression) TokenLiteral() string { return x.Token.Literal }
func (x *SliceExpression) Pos() token.Position  { return x.Token.Pos }

// ThisExpression is the implicit receiver inside a method body.
type ThisExpression struct {
	exprBase
	Token token.Token
}

func (t *ThisExpression) TokenLiteral() string { return t.Token.Literal }
func (t *ThisExpression) Pos() token.Position  { return t.Token.Pos }

// UniqueExpression is `unique T(args...)` or `unique T[n]` (spec §4.4,
// SPEC_FULL §C.6): heap-allocates, initializes, and wraps the result in a
// UniquePtrType with a destructor that calls `dealloc`.
type UniqueExpression struct {
	exprBase
	Token   token.Token
	Type    TypeExpr
	Args    []Expression
	IsArray bool
	Count   Expression // set when IsArray
}

func (u *UniqueExpression) TokenLiteral() string { return u.Token.Literal }
func (u *UniqueExpression) Pos() token.Position  { return u.Token.Pos }

// MoveExpression is `move x`: requests a move conversion instead of a copy
// at the use site (spec §9 open question (a): `move` is always a keyword).
type MoveExpression struct {
	exprBase
	Token   token.Token
	Operand Expression
}

func (m *MoveExpression) TokenLiteral() string { return m.Token.Literal }
func (m *MoveExpression) Pos() token.Position  { return m.Token.Pos }

// CastExpression is an explicit conversion `operand as T`.
type CastExpression struct {
	exprBase
	Token   token.Token
	Operand Expression
	Type    TypeExpr

	// Reinterpret marks `operand reinterpret_as T` rather than `as`
	// (spec §4.2 "Reinterpret").
	Reinterpret bool
}

func (c *CastExpression) TokenLiteral() string { return c.Token.Literal }
func (c *CastExpression) Pos() token.Position  { return c.Token.Pos }
