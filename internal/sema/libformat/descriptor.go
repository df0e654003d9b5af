// Package libformat implements the JSON symbol-table descriptor codec used
// to publish and consume a native library's public interface (the fixed
// wire format named in §6 of the language description this compiler
// implements — the lexer/parser, optimizer, assembler, CLI drivers and
// this descriptor format are the compiler's external collaborators: their
// shape is fixed, their internals are not).
//
// A descriptor is a tree of entries, one per public entity, each carrying
// just enough information to reconstruct a sema.PublicEntityDesc without
// re-running analysis: name, kind, type spelling, and (for structs)
// fields/methods/lifetime/vtable shape.
package libformat

// Entry is the on-wire shape of one public entity. Field names match the
// JSON document exactly; gjson/sjson paths throughout this package are
// written against this shape.
type Entry struct {
	Name string `json:"name"`
	Kind string `json:"kind"` // "variable" | "property" | "function" | "struct" | "protocol"

	Type *QualTypeEntry `json:"type,omitempty"`

	Functions []FunctionEntry `json:"functions,omitempty"`

	Fields   []FieldEntry    `json:"fields,omitempty"`
	Bases    []string        `json:"bases,omitempty"`
	Methods  []FunctionEntry `json:"methods,omitempty"`
	Lifetime *LifetimeEntry  `json:"lifetime,omitempty"`

	Nested []Entry `json:"nested,omitempty"`
}

// QualTypeEntry is the wire spelling of a QualType: either a bare name
// ("int32", "MyStruct") or a constructor ("ptr"/"unique"/"ref"/"array")
// wrapping another QualTypeEntry.
type QualTypeEntry struct {
	Name  string         `json:"name,omitempty"`
	Ctor  string         `json:"ctor,omitempty"`
	Elem  *QualTypeEntry `json:"elem,omitempty"`
	Count int            `json:"count,omitempty"`
	Mut   bool           `json:"mut,omitempty"`
	Dyn   bool           `json:"dyn,omitempty"`
}

type FieldEntry struct {
	Name   string        `json:"name"`
	Type   QualTypeEntry `json:"type"`
	Offset int           `json:"offset"`
}

type ParamEntry struct {
	Name string        `json:"name"`
	Type QualTypeEntry `json:"type"`
}

type FunctionEntry struct {
	Name        string        `json:"name"`
	Params      []ParamEntry  `json:"params,omitempty"`
	ReturnType  QualTypeEntry `json:"returnType"`
	Extern      bool          `json:"extern,omitempty"`
	Variadic    bool          `json:"variadic,omitempty"`
	IsMethod    bool          `json:"isMethod,omitempty"`
	ReceiverDyn bool          `json:"receiverDyn,omitempty"`
}

type LifetimeOpEntry struct {
	Kind string `json:"kind"` // "trivial" | "nontrivial" | "nontrivial_inline" | "deleted"
}

type LifetimeEntry struct {
	DefaultConstructor LifetimeOpEntry `json:"defaultConstructor"`
	CopyConstructor    LifetimeOpEntry `json:"copyConstructor"`
	MoveConstructor    LifetimeOpEntry `json:"moveConstructor"`
	Destructor         LifetimeOpEntry `json:"destructor"`
}

// Document is the top-level descriptor: a library name plus its public
// entries, in declaration order.
type Document struct {
	Library string  `json:"library"`
	Entries []Entry `json:"entries"`
}
