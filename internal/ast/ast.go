// Package ast defines the syntax tree node kinds produced by internal/parser
// and decorated in place by internal/sema.
//
// Per spec §3 "Syntax tree decoration", every expression node acquires a
// QualType, a value category, an optional resolved entity, and an optional
// constant value; every declaration acquires its resolved entity; every
// statement acquires a cleanup stack. Because internal/sema owns the types
// that fill those slots (QualType, Entity, ConstValue) and internal/ast must
// not import internal/sema, decoration fields are held as `any` and
// type-asserted by the analyzer and IR generator that populate them. This
// mirrors the teacher's internal/ast package (a plain Node/Expression/
// Statement interface split, §"Polymorphic node hierarchies" in spec §9)
// generalized so decoration isn't hard-wired to one concrete type system.
package ast

import "github.com/scatha-lang/scatha/internal/token"

// Node is the base interface implemented by every syntax tree node.
type Node interface {
	TokenLiteral() string
	Pos() token.Position
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	exprNode()
	Decoration() *Decoration
}

// Statement is any node that performs an action without itself being a
// value.
type Statement interface {
	Node
	stmtNode()
	Cleanup() *CleanupStack
}

// Declaration is any node that introduces a named entity.
type Declaration interface {
	Node
	declNode()
	SetEntity(e any)
	Entity() any
}

// ValueCategory classifies whether an expression denotes an addressable
// object (LValue) or a value with no fixed address (RValue) — spec §3.
type ValueCategory int

const (
	RValue ValueCategory = iota
	LValue
)

func (v ValueCategory) String() string {
	if v == LValue {
		return "lvalue"
	}
	return "rvalue"
}

// Decoration holds the fields the analyzer and conversion engine attach to
// every expression node: its QualType, value category, resolved entity (if
// the expression names one), and a constant value when it folds to one.
// Types are `any` to avoid an ast -> sema import cycle; internal/sema
// defines the concrete QualType/Entity/ConstValue types stored here.
type Decoration struct {
	Type     any // sema.QualType
	ValueCat ValueCategory
	Entity   any // sema.Entity, optional
	Const    any // sema.ConstValue, optional
	Poisoned bool
}

func (d *Decoration) Decoration() *Decoration { return d }

// CleanupStack is the ordered list of (object, lifetime-op) pairs a
// statement owes on every exit path (spec §3, §4.3, §4.4).
type CleanupStack struct {
	Entries []CleanupEntry
}

// CleanupEntry names one temporary or local and the lifetime operation that
// must run on it when the owning scope is left.
type CleanupEntry struct {
	Object any // sema.Entity (a Temporary or Variable)
	Op     any // sema.LifetimeOperation
}

func (c *CleanupStack) Cleanup() *CleanupStack { return c }

func (c *CleanupStack) Push(object, op any) {
	c.Entries = append(c.Entries, CleanupEntry{Object: object, Op: op})
}

// Program is the root of a parsed translation unit.
type Program struct {
	Decls []Declaration
}

func (p *Program) TokenLiteral() string { return "" }
func (p *Program) Pos() token.Position {
	if len(p.Decls) > 0 {
		return p.Decls[0].Pos()
	}
	return token.Position{Line: 1, Column: 1}
}

// declBase factors the Entity bookkeeping shared by every Declaration node.
type declBase struct {
	entity any
}

func (d *declBase) SetEntity(e any) { d.entity = e }
func (d *declBase) Entity() any     { return d.entity }
