package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
	"github.com/ShieldCI/laravel-sub000/internal/phpast"
)

func classify(t *testing.T, whitelist []string, clause *phpast.Node, inLoop bool) HandlerClassification {
	t.Helper()

	return NewHandlerClassifier(whitelist).Classify(clause, inLoop)
}

func TestClassify_EmptyBody(t *testing.T) {
	clause := catchNode(5, []string{"RuntimeException"}, "e", blockNode(5))

	c := classify(t, nil, clause, false)

	assert.False(t, c.Suppressed)
	assert.Equal(t, m.VerdictEmpty, c.Verdict)
	assert.False(t, c.CommentExempt)
}

func TestClassify_EmptyBodyCommentVocabulary(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		exempt  bool
	}{
		{"intentional", "// intentionally ignored: lock may already be gone", true},
		{"best effort", "// best effort cleanup", true},
		{"noop", "/* no-op: duplicate delivery */", true},
		{"expected", "// expected for guest sessions", true},
		{"vague ok", "// ok", false},
		{"vague fine", "// fine", false},
		{"unrelated", "// TODO revisit", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := blockNode(5, commentNode(tt.comment, 6))
			clause := catchNode(5, []string{"RuntimeException"}, "e", body)

			c := classify(t, nil, clause, false)

			assert.Equal(t, m.VerdictEmpty, c.Verdict)
			assert.Equal(t, tt.exempt, c.CommentExempt)
		})
	}
}

func TestClassify_LogsOrReports(t *testing.T) {
	tests := []struct {
		name string
		stmt *phpast.Node
	}{
		{"Log facade", exprStmt(staticCall(nameNode("Log", 6), "warning", 6, stringNode("failed", 6)))},
		{"report helper", exprStmt(functionCall("report", 6, variableNode("e", 6)))},
		{"error_log", exprStmt(functionCall("error_log", 6, stringNode("failed", 6)))},
		{"sentry capture", exprStmt(staticCall(nameNode(`Sentry\SentrySdk`, 6), "captureException", 6, variableNode("e", 6)))},
		{"sentry fully qualified", exprStmt(staticCall(nameNode(`\Sentry\SentrySdk`, 6), "captureException", 6, variableNode("e", 6)))},
		{"sentry facade", exprStmt(staticCall(nameNode("Sentry", 6), "captureMessage", 6, stringNode("failed", 6)))},
		{"bugsnag notify", exprStmt(staticCall(nameNode("Bugsnag", 6), "notifyException", 6, variableNode("e", 6)))},
		{"injected logger", exprStmt(methodCall(propertyNode(variableNode("this", 6), "logger", 6), "error", 6, stringNode("failed", 6)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause := catchNode(5, []string{"RuntimeException"}, "e", blockNode(5, tt.stmt))

			c := classify(t, nil, clause, false)

			assert.Equal(t, m.VerdictLogsOrReports, c.Verdict)
		})
	}
}

func TestClassify_LoggingInsideNestedConditional(t *testing.T) {
	nested := nodeAt(phpast.If, 6,
		variableNode("debug", 6),
		blockNode(6, exprStmt(staticCall(nameNode("Log", 7), "debug", 7, variableNode("e", 7)))),
	)
	clause := catchNode(5, []string{"RuntimeException"}, "e", blockNode(5, nested))

	c := classify(t, nil, clause, false)

	assert.Equal(t, m.VerdictLogsOrReports, c.Verdict)
}

func TestClassify_Rethrows(t *testing.T) {
	t.Run("plain rethrow", func(t *testing.T) {
		body := blockNode(5, throwNode(6, variableNode("e", 6)))
		clause := catchNode(5, []string{"RuntimeException"}, "e", body)

		c := classify(t, nil, clause, false)

		assert.Equal(t, m.VerdictRethrows, c.Verdict)
	})

	t.Run("wrap throw", func(t *testing.T) {
		wrapper := nodeAt(phpast.New, 6, nameNode("DomainException", 6), stringNode("sync failed", 6), variableNode("e", 6))
		body := blockNode(5, throwNode(6, wrapper))
		clause := catchNode(5, []string{"RuntimeException"}, "e", body)

		c := classify(t, nil, clause, false)

		assert.Equal(t, m.VerdictRethrows, c.Verdict)
	})

	t.Run("replacement throw without the caught value is not a rethrow", func(t *testing.T) {
		replacement := nodeAt(phpast.New, 6, nameNode("DomainException", 6), stringNode("sync failed", 6))
		body := blockNode(5, throwNode(6, replacement))
		clause := catchNode(5, []string{"RuntimeException"}, "e", body)

		c := classify(t, nil, clause, false)

		assert.NotEqual(t, m.VerdictRethrows, c.Verdict)
	})
}

func TestClassify_LoopControlExit(t *testing.T) {
	body := blockNode(5,
		assignNode(6, variableNode("failures", 6), nodeAt(phpast.IntLit, 6)),
		nodeAt(phpast.Continue, 7),
	)
	clause := catchNode(5, []string{"RuntimeException"}, "e", body)

	inLoop := classify(t, nil, clause, true)
	assert.Equal(t, m.VerdictLoopControlExit, inLoop.Verdict)

	// The same body outside a loop is not the retry/skip idiom.
	outside := classify(t, nil, clause, false)
	assert.NotEqual(t, m.VerdictLoopControlExit, outside.Verdict)
}

func TestClassify_DelegatesToHandler(t *testing.T) {
	call := methodCall(variableNode("this", 6), "handleFailure", 6, variableNode("e", 6))
	clause := catchNode(5, []string{"RuntimeException"}, "e", blockNode(5, exprStmt(call)))

	c := classify(t, nil, clause, false)

	assert.Equal(t, m.VerdictDelegatesToHandler, c.Verdict)
}

func TestClassify_TrivialSelfCallIsNotDelegation(t *testing.T) {
	call := methodCall(variableNode("this", 6), "reset", 6)
	clause := catchNode(5, []string{"RuntimeException"}, "e", blockNode(5, exprStmt(call)))

	c := classify(t, nil, clause, false)

	assert.Equal(t, m.VerdictSideEffectOnly, c.Verdict)
}

func TestClassify_SemanticFallback(t *testing.T) {
	tests := []struct {
		name string
		stmt *phpast.Node
	}{
		{
			"cache read with default",
			exprStmt(assignNode(6, variableNode("value", 6),
				staticCall(nameNode("Cache", 6), "get", 6, stringNode("rates", 6), nodeAt(phpast.ArrayLit, 6)))),
		},
		{
			"null coalescing with call alternative",
			exprStmt(assignNode(6, variableNode("value", 6),
				func() *phpast.Node {
					n := nodeAt(phpast.Binary, 6, variableNode("cached", 6), methodCall(variableNode("this", 6), "defaults", 6))
					n.Name = "??"
					return n
				}())),
		},
		{
			"new object construction",
			exprStmt(assignNode(6, variableNode("value", 6),
				nodeAt(phpast.New, 6, nameNode("Collection", 6)))),
		},
		{
			"fallback-named assignment",
			exprStmt(assignNode(6, variableNode("fallbackRates", 6), nodeAt(phpast.ArrayLit, 6))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause := catchNode(5, []string{"RuntimeException"}, "e", blockNode(5, tt.stmt))

			c := classify(t, nil, clause, false)

			assert.Equal(t, m.VerdictSemanticFallback, c.Verdict)
		})
	}
}

func TestClassify_SideEffectOnly(t *testing.T) {
	tests := []struct {
		name string
		stmt *phpast.Node
	}{
		{"bare scalar assignment", exprStmt(assignNode(6, variableNode("result", 6), nodeAt(phpast.NullLit, 6)))},
		{"array assignment", exprStmt(assignNode(6, variableNode("rows", 6), nodeAt(phpast.ArrayLit, 6)))},
		{"event dispatch", exprStmt(staticCall(nameNode("SyncFailed", 6), "dispatch", 6, variableNode("id", 6)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause := catchNode(5, []string{"RuntimeException"}, "e", blockNode(5, tt.stmt))

			c := classify(t, nil, clause, false)

			assert.Equal(t, m.VerdictSideEffectOnly, c.Verdict)
		})
	}
}

func TestClassify_UnionWhitelisting(t *testing.T) {
	whitelist := []string{"ValidationException", "AuthorizationException"}

	t.Run("every member whitelisted suppresses entirely", func(t *testing.T) {
		clause := catchNode(5, []string{"ValidationException", `Illuminate\Auth\Access\AuthorizationException`}, "e", blockNode(5))

		c := classify(t, whitelist, clause, false)

		assert.True(t, c.Suppressed)
	})

	t.Run("one unlisted member keeps the clause in play", func(t *testing.T) {
		clause := catchNode(5, []string{"ValidationException", "RuntimeException"}, "e", blockNode(5))

		c := classify(t, whitelist, clause, false)

		assert.False(t, c.Suppressed)
		assert.Equal(t, m.VerdictEmpty, c.Verdict)

		// Only the unlisted member is carried for the finding message.
		require.Len(t, c.Unlisted, 1)
		assert.Equal(t, "RuntimeException", c.Unlisted[0].SimpleName)
	})
}

func TestClassify_BroadMembers(t *testing.T) {
	t.Run("broad member named in source order", func(t *testing.T) {
		clause := catchNode(5, []string{"ModelNotFoundException", "Throwable", "Exception"}, "e",
			blockNode(5, exprStmt(staticCall(nameNode("Log", 6), "error", 6, variableNode("e", 6)))))

		c := classify(t, []string{"ModelNotFoundException"}, clause, false)

		require.Len(t, c.BroadMembers, 2)
		assert.Equal(t, "Throwable", c.BroadMembers[0].SimpleName)
		assert.Equal(t, "Exception", c.BroadMembers[1].SimpleName)
		require.Len(t, c.Unlisted, 2)
		assert.Equal(t, "Throwable", c.Unlisted[0].SimpleName)
		assert.Equal(t, "Exception", c.Unlisted[1].SimpleName)
		assert.Equal(t, m.VerdictLogsOrReports, c.Verdict)
	})

	t.Run("unlisted keeps non-broad members in source order", func(t *testing.T) {
		clause := catchNode(5, []string{"ValidationException", "RuntimeException", "Exception"}, "e", blockNode(5))

		c := classify(t, []string{"ValidationException"}, clause, false)

		require.Len(t, c.BroadMembers, 1)
		require.Len(t, c.Unlisted, 2)
		assert.Equal(t, "RuntimeException", c.Unlisted[0].SimpleName)
		assert.Equal(t, "Exception", c.Unlisted[1].SimpleName)
	})

	t.Run("whitelisting a broad builtin does not suppress it", func(t *testing.T) {
		clause := catchNode(5, []string{"Exception"}, "e", blockNode(5))

		c := classify(t, []string{"Exception"}, clause, false)

		assert.False(t, c.Suppressed)
		require.Len(t, c.Members, 1)
		assert.True(t, c.Members[0].BroadBuiltin)
		require.Len(t, c.BroadMembers, 1)
		require.Len(t, c.Unlisted, 1)
		assert.Equal(t, "Exception", c.Unlisted[0].SimpleName)
	})
}

func TestClassify_SuppressionInsideHandler(t *testing.T) {
	body := blockNode(5,
		exprStmt(suppressNode(6, functionCall("unlink", 6, variableNode("path", 6)))),
		exprStmt(staticCall(nameNode("Log", 7), "error", 7, variableNode("e", 7))),
	)
	clause := catchNode(5, []string{"RuntimeException"}, "e", body)

	c := classify(t, nil, clause, false)

	assert.Equal(t, m.VerdictLogsOrReports, c.Verdict)
	assert.Equal(t, []int{6}, c.SuppressLines)
}
