package ast

import "github.com/scatha-lang/scatha/internal/token"

// Access mirrors the entity access-control enumeration from spec §3.
type Access int

const (
	AccessDefault Access = iota
	AccessPublic
	AccessPrivate
)

// ParamDecl is one function parameter.
type ParamDecl struct {
	declBase
	Token token.Token
	Name  string
	Type  TypeExpr
}

func (p *ParamDecl) TokenLiteral() string { return p.Token.Literal }
func (p *ParamDecl) Pos() token.Position  { return p.Token.Pos }
func (p *ParamDecl) declNode()            {}

// FunctionDecl is `[public] fn name(params...) -> RetType { body }`, or an
// `extern` declaration with no body (spec §6 foreign libraries).
type FunctionDecl struct {
	declBase
	Token   token.Token
	Access  Access
	Name    string
	Params  []*ParamDecl
	RetType TypeExpr // nil => void
	Body    *BlockStatement // nil for extern/forward declarations
	Extern  bool
	Variadic bool

	// Receiver is non-nil for a method: the owning struct/protocol name.
	Receiver     string
	ReceiverDyn  bool // `&dyn Self` receiver: virtual method
	ReceiverMut  bool
}

func (f *FunctionDecl) TokenLiteral() string { return f.Token.Literal }
func (f *FunctionDecl) Pos() token.Position  { return f.Token.Pos }
func (f *FunctionDecl) declNode()            {}

// FieldDecl is one struct member variable.
type FieldDecl struct {
	declBase
	Token token.Token
	Name  string
	Type  TypeExpr
}

func (m *FieldDecl) TokenLiteral() string { return m.Token.Literal }
func (m *FieldDecl) Pos() token.Position  { return m.Token.Pos }
func (m *FieldDecl) declNode()            {}

// StructDecl is `[public] struct Name : Base1, Base2 { fields; methods; }`.
// Bases may name either structs (inheritance) or protocols (conformance);
// the analyzer disambiguates (spec §4.3 vtable construction).
type StructDecl struct {
	declBase
	Token   token.Token
	Access  Access
	Name    string
	Bases   []string
	Fields  []*FieldDecl
	Methods []*FunctionDecl
}

func (s *StructDecl) TokenLiteral() string { return s.Token.Literal }
func (s *StructDecl) Pos() token.Position  { return s.Token.Pos }
func (s *StructDecl) declNode()            {}

// ProtocolDecl is `protocol Name : Base { fn method(...) -> T; ... }`: a
// set of virtual method signatures with no storage (spec §3 ProtocolType).
type ProtocolDecl struct {
	declBase
	Token   token.Token
	Name    string
	Bases   []string
	Methods []*FunctionDecl // bodies always nil here
}

func (p *ProtocolDecl) TokenLiteral() string { return p.Token.Literal }
func (p *ProtocolDecl) Pos() token.Position  { return p.Token.Pos }
func (p *ProtocolDecl) declNode()            {}

// GlobalVarDecl is a file-scope `let`/`var` declaration.
type GlobalVarDecl struct {
	declBase
	Token  token.Token
	Access Access
	Name   string
	Mut    bool
	Type   TypeExpr
	Value  Expression
}

func (g *GlobalVarDecl) TokenLiteral() string { return g.Token.Literal }
func (g *GlobalVarDecl) Pos() token.Position  { return g.Token.Pos }
func (g *GlobalVarDecl) declNode()            {}

// ImportKind distinguishes a native library (bytecode + symbol descriptor)
// from a foreign one (host dynamic library, spec §4.1).
type ImportKind int

const (
	ImportNative ImportKind = iota
	ImportForeign
)

// ImportDecl is `import native "path";` or `import foreign "path";`.
type ImportDecl struct {
	declBase
	Token token.Token
	Kind  ImportKind
	Path  string
}

func (i *ImportDecl) TokenLiteral() string { return i.Token.Literal }
func (i *ImportDecl) Pos() token.Position  { return i.Token.Pos }
func (i *ImportDecl) declNode()            {}
