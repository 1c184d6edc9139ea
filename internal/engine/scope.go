package engine

import (
	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

// ScopeHandle identifies a frame pushed on the tracker so exits can be
// verified against enters.
type ScopeHandle int

// ScopeTracker maintains the stack of enclosing declaration scopes during one
// file traversal. Frames live in an arena slice and stay addressable by index
// after they are popped, so whitelist evaluation does not depend on when it
// runs relative to traversal.
type ScopeTracker struct {
	arena []m.Scope
	stack []int
}

// NewScopeTracker returns a tracker primed with the file frame.
func NewScopeTracker(endLine int) *ScopeTracker {
	t := &ScopeTracker{}

	t.arena = append(t.arena, m.Scope{
		Kind:      m.ScopeFile,
		Parent:    -1,
		StartLine: 1,
		EndLine:   endLine,
	})
	t.stack = append(t.stack, 0)

	return t
}

// Enter pushes a frame and returns its handle.
func (t *ScopeTracker) Enter(kind m.ScopeKind, name string, startLine, endLine int) ScopeHandle {
	parent := t.stack[len(t.stack)-1]

	t.arena = append(t.arena, m.Scope{
		Kind:      kind,
		Name:      name,
		Parent:    parent,
		StartLine: startLine,
		EndLine:   endLine,
	})

	index := len(t.arena) - 1
	t.stack = append(t.stack, index)

	return ScopeHandle(index)
}

// Exit pops frames down to and including the handled one. Popping a frame
// that is not on the stack is a no-op.
func (t *ScopeTracker) Exit(handle ScopeHandle) {
	for i := len(t.stack) - 1; i > 0; i-- {
		if t.stack[i] == int(handle) {
			t.stack = t.stack[:i]
			return
		}
	}
}

// Current returns the innermost frame.
func (t *ScopeTracker) Current() m.Scope {
	return t.arena[t.stack[len(t.stack)-1]]
}

// Depth returns the number of frames on the stack, the file frame included.
func (t *ScopeTracker) Depth() int {
	return len(t.stack)
}

// EnclosingDeclaration returns the innermost named declaration frame, false
// when the current position sits directly in the file frame.
func (t *ScopeTracker) EnclosingDeclaration() (m.Scope, bool) {
	for i := t.stack[len(t.stack)-1]; i >= 0; i = t.arena[i].Parent {
		if t.arena[i].Kind == m.ScopeDeclaration {
			return t.arena[i], true
		}
	}

	return m.Scope{}, false
}

// EnclosingMethod returns the innermost method or function frame.
func (t *ScopeTracker) EnclosingMethod() (m.Scope, bool) {
	for i := t.stack[len(t.stack)-1]; i >= 0; i = t.arena[i].Parent {
		if t.arena[i].Kind == m.ScopeMethod {
			return t.arena[i], true
		}
	}

	return m.Scope{}, false
}

// InsideExemptDeclaration reports whether the current position is covered by
// a declaration whitelist rule. The walk follows the parent chain outward and
// stops at the first anonymous frame: an anonymous declaration is evaluated
// on its own identity, so a whitelisted outer declaration never exempts logic
// nested inside a closure or anonymous class defined within it.
func (t *ScopeTracker) InsideExemptDeclaration(rules []m.WhitelistRule) bool {
	if len(rules) == 0 {
		return false
	}

	for i := t.stack[len(t.stack)-1]; i >= 0; i = t.arena[i].Parent {
		frame := t.arena[i]

		if frame.Kind == m.ScopeAnonymousDeclaration {
			return false
		}

		if frame.Named() && ExcludedDeclaration(frame.Name, rules) {
			return true
		}
	}

	return false
}
