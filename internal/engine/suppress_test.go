package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
	"github.com/ShieldCI/laravel-sub000/internal/phpast"
)

func TestMatch_FreeFunction(t *testing.T) {
	sm := NewSuppressionMatcher([]string{"unlink", "fopen"})

	t.Run("whitelisted", func(t *testing.T) {
		suppress := suppressNode(3, functionCall("unlink", 3, variableNode("path", 3)))

		match := sm.Match(suppress, m.SeverityMedium)

		assert.Equal(t, CalleeFreeFunction, match.Kind)
		assert.True(t, match.Whitelisted)
		assert.Equal(t, "unlink()", match.Display)
	})

	t.Run("namespace-qualified spelling matches the same rule", func(t *testing.T) {
		for _, name := range []string{`\unlink`, `App\Support\unlink`} {
			suppress := suppressNode(3, functionCall(name, 3))

			match := sm.Match(suppress, m.SeverityMedium)

			assert.True(t, match.Whitelisted, "%s should match the unlink rule", name)
		}
	})

	t.Run("non-whitelisted keeps the base severity", func(t *testing.T) {
		suppress := suppressNode(3, functionCall("file_get_contents", 3))

		match := sm.Match(suppress, m.SeverityMedium)

		assert.False(t, match.Whitelisted)
		assert.Equal(t, m.SeverityMedium, match.Severity)
	})
}

func TestMatch_StaticProxy(t *testing.T) {
	sm := NewSuppressionMatcher([]string{"Storage::delete", "File::*"})

	t.Run("exact pair", func(t *testing.T) {
		suppress := suppressNode(3, staticCall(nameNode("Storage", 3), "delete", 3))

		match := sm.Match(suppress, m.SeverityMedium)

		assert.Equal(t, CalleeStaticMethod, match.Kind)
		assert.True(t, match.Whitelisted)
	})

	t.Run("type wildcard", func(t *testing.T) {
		suppress := suppressNode(3, staticCall(nameNode("File", 3), "makeDirectory", 3))

		match := sm.Match(suppress, m.SeverityMedium)

		assert.True(t, match.Whitelisted)
	})

	t.Run("non-whitelisted static call is medium", func(t *testing.T) {
		suppress := suppressNode(3, staticCall(nameNode("Storage", 3), "put", 3))

		match := sm.Match(suppress, m.SeverityLow)

		assert.False(t, match.Whitelisted)
		assert.Equal(t, m.SeverityMedium, match.Severity)
	})
}

func TestMatch_InstanceMethod(t *testing.T) {
	sm := NewSuppressionMatcher([]string{"close", "release*"})

	t.Run("exact name", func(t *testing.T) {
		suppress := suppressNode(3, methodCall(variableNode("handle", 3), "close", 3))

		match := sm.Match(suppress, m.SeverityMedium)

		assert.Equal(t, CalleeInstanceMethod, match.Kind)
		assert.True(t, match.Whitelisted)
	})

	t.Run("prefix wildcard", func(t *testing.T) {
		suppress := suppressNode(3, methodCall(variableNode("lock", 3), "releaseAfter", 3))

		match := sm.Match(suppress, m.SeverityMedium)

		assert.True(t, match.Whitelisted)
	})

	t.Run("non-whitelisted is medium", func(t *testing.T) {
		suppress := suppressNode(3, methodCall(variableNode("client", 3), "send", 3))

		match := sm.Match(suppress, m.SeverityLow)

		assert.False(t, match.Whitelisted)
		assert.Equal(t, m.SeverityMedium, match.Severity)
	})
}

func TestMatch_DynamicCalleeAlwaysHigh(t *testing.T) {
	// Whitelist entries that spell the runtime names must not help.
	sm := NewSuppressionMatcher([]string{"unlink", "close", "Storage::delete"})

	t.Run("variable as function", func(t *testing.T) {
		dynamic := nodeAt(phpast.FunctionCall, 3)
		dynamic.Receiver = variableNode("fn", 3)
		dynamic.Children = []*phpast.Node{dynamic.Receiver}

		match := sm.Match(suppressNode(3, dynamic), m.SeverityLow)

		assert.Equal(t, CalleeDynamic, match.Kind)
		assert.False(t, match.Whitelisted)
		assert.Equal(t, m.SeverityHigh, match.Severity)
	})

	t.Run("dynamic method name", func(t *testing.T) {
		call := methodCall(variableNode("task", 3), "", 3)

		match := sm.Match(suppressNode(3, call), m.SeverityLow)

		assert.Equal(t, CalleeDynamic, match.Kind)
		assert.Equal(t, m.SeverityHigh, match.Severity)
	})

	t.Run("dynamic static scope", func(t *testing.T) {
		call := staticCall(variableNode("class", 3), "delete", 3)

		match := sm.Match(suppressNode(3, call), m.SeverityLow)

		assert.Equal(t, CalleeDynamic, match.Kind)
		assert.Equal(t, m.SeverityHigh, match.Severity)
	})
}

func TestMatch_SuppressedNonCallExpression(t *testing.T) {
	sm := NewSuppressionMatcher(nil)

	suppress := suppressNode(3, nodeAt(phpast.Subscript, 3, variableNode("row", 3), stringNode("key", 3)))

	match := sm.Match(suppress, m.SeverityLow)

	assert.Equal(t, CalleeExpression, match.Kind)
	assert.Equal(t, m.SeverityLow, match.Severity)
}
