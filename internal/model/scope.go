package model

// ScopeKind distinguishes the lexical frames tracked during traversal.
type ScopeKind string

const (
	// ScopeFile is the implicit outermost frame of every source file.
	ScopeFile ScopeKind = "file"
	// ScopeDeclaration is a named class, interface, trait or enum.
	ScopeDeclaration ScopeKind = "declaration"
	// ScopeAnonymousDeclaration is a closure, arrow function or anonymous class.
	ScopeAnonymousDeclaration ScopeKind = "anonymous"
	// ScopeMethod is a named function or method body.
	ScopeMethod ScopeKind = "method"
)

// Scope is one lexical frame. Scopes live in an arena owned by the tracker;
// Parent is an arena index, -1 for the file frame.
type Scope struct {
	Kind      ScopeKind
	Name      string // empty for file and anonymous frames
	Parent    int
	StartLine int
	EndLine   int
}

// Named reports whether the frame carries an identifier usable for exemptions.
func (s Scope) Named() bool {
	return s.Name != "" && (s.Kind == ScopeDeclaration || s.Kind == ScopeMethod)
}
