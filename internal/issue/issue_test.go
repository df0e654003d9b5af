package issue_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scatha-lang/scatha/internal/issue"
	"github.com/scatha-lang/scatha/internal/token"
)

func TestHandlerAccumulatesAndNeverAborts(t *testing.T) {
	h := issue.NewHandler()
	assert.False(t, h.HasErrors())

	h.Report(issue.Redefinition, token.Position{Line: 1, Column: 1}, nil, "x redefined")
	h.Report(issue.BadTypeConv, token.Position{Line: 2, Column: 3}, nil, "cannot convert %s to %s", "int", "byte")

	require.True(t, h.HasErrors())
	require.Len(t, h.Issues(), 2)
	assert.Equal(t, issue.Redefinition, h.Issues()[0].Kind)
	assert.Contains(t, h.Issues()[1].Message, "int")
}

func TestIssueFormatCaret(t *testing.T) {
	iss := &issue.Issue{Kind: issue.BadTypeConv, Pos: token.Position{Line: 1, Column: 5}, Message: "boom"}
	out := iss.Format("let b = x;", false)
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "^")
}
