package issue

import "github.com/scatha-lang/scatha/internal/token"

// Handler accumulates Issues without aborting the pass that raised them —
// spec §5 "the issue handler collects errors rather than aborting; callers
// check it after each phase", and §7 "analysis never throws... continues
// with poisoned placeholders."
type Handler struct {
	issues []*Issue
}

// NewHandler creates an empty Handler.
func NewHandler() *Handler { return &Handler{} }

// Report records an issue attached to pos/node and returns it, so a caller
// can chain straight into poisoning the originating expression.
func (h *Handler) Report(kind Kind, pos token.Position, node any, format string, args ...any) *Issue {
	iss := &Issue{Kind: kind, Pos: pos, Node: node, Message: sprintf(format, args...)}
	h.issues = append(h.issues, iss)
	return iss
}

// Issues returns every accumulated issue, in report order.
func (h *Handler) Issues() []*Issue { return h.issues }

// HasErrors reports whether any issue was recorded.
func (h *Handler) HasErrors() bool { return len(h.issues) > 0 }

// Reset clears the handler for reuse across compilation units.
func (h *Handler) Reset() { h.issues = nil }
