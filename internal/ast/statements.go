package ast

import "github.com/scatha-lang/scatha/internal/token"

// stmtBase factors the CleanupStack every Statement embeds (spec §3).
type stmtBase struct {
	CleanupStack
}

func (*stmtBase) stmtNode() {}

// BlockStatement is `{ stmts... }`.
type BlockStatement struct {
	stmtBase
	Token token.Token
	Stmts []Statement
}

func (b *BlockStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BlockStatement) Pos() token.Position  { return b.Token.Pos }

// ExpressionStatement wraps an expression evaluated for effect.
type ExpressionStatement struct {
	stmtBase
	Token token.Token
	Expr  Expression
}

func (e *ExpressionStatement) TokenLiteral() string { return e.Token.Literal }
func (e *ExpressionStatement) Pos() token.Position  { return e.Token.Pos }

// VarStatement is a `let` (immutable) or `var` (mutable) local declaration.
type VarStatement struct {
	stmtBase
	declBase
	Token token.Token
	Name  string
	Mut   bool
	Type  TypeExpr   // nil => inferred from Value
	Value Expression // nil => default-construct
}

func (v *VarStatement) TokenLiteral() string { return v.Token.Literal }
func (v *VarStatement) Pos() token.Position  { return v.Token.Pos }
func (v *VarStatement) declNode()            {}

// ReturnStatement is `return expr;` or `return;`.
type ReturnStatement struct {
	stmtBase
	Token token.Token
	Value Expression // nil for void functions
}

func (r *ReturnStatement) TokenLiteral() string { return r.Token.Literal }
func (r *ReturnStatement) Pos() token.Position  { return r.Token.Pos }

// IfStatement is `if cond { then } else { else }`.
type IfStatement struct {
	stmtBase
	Token token.Token
	Cond  Expression
	Then  *BlockStatement
	Else  Statement // *BlockStatement or *IfStatement, nil if absent
}

func (i *IfStatement) TokenLiteral() string { return i.Token.Literal }
func (i *IfStatement) Pos() token.Position  { return i.Token.Pos }

// WhileStatement is `while cond { body }`.
type WhileStatement struct {
	stmtBase
	Token token.Token
	Cond  Expression
	Body  *BlockStatement
}

func (w *WhileStatement) TokenLiteral() string { return w.Token.Literal }
func (w *WhileStatement) Pos() token.Position  { return w.Token.Pos }

// DoWhileStatement is `do { body } while cond;`.
type DoWhileStatement struct {
	stmtBase
	Token token.Token
	Body  *BlockStatement
	Cond  Expression
}

func (d *DoWhileStatement) TokenLiteral() string { return d.Token.Literal }
func (d *DoWhileStatement) Pos() token.Position  { return d.Token.Pos }

// ForStatement is `for init; cond; inc { body }`.
type ForStatement struct {
	stmtBase
	Token token.Token
	Init  Statement // *VarStatement or *ExpressionStatement, nil
	Cond  Expression
	Inc   Expression
	Body  *BlockStatement
}

func (f *ForStatement) TokenLiteral() string { return f.Token.Literal }
func (f *ForStatement) Pos() token.Position  { return f.Token.Pos }

// BreakStatement is `break;`.
type BreakStatement struct {
	stmtBase
	Token token.Token
}

func (b *BreakStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BreakStatement) Pos() token.Position  { return b.Token.Pos }

// ContinueStatement is `continue;`.
type ContinueStatement struct {
	stmtBase
	Token token.Token
}

func (c *ContinueStatement) TokenLiteral() string { return c.Token.Literal }
func (c *ContinueStatement) Pos() token.Position  { return c.Token.Pos }

// DeleteStatement is `delete p;`: invokes the destructor of the unique
// pointer's pointee and frees its heap slot ahead of its natural scope exit.
type DeleteStatement struct {
	stmtBase
	Token  token.Token
	Target Expression
}

func (d *DeleteStatement) TokenLiteral() string { return d.Token.Literal }
func (d *DeleteStatement) Pos() token.Position  { return d.Token.Pos }
