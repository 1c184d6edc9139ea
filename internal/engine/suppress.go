package engine

import (
	"strings"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
	"github.com/ShieldCI/laravel-sub000/internal/phpast"
)

// CalleeKind tags what the @ operator silenced.
type CalleeKind string

const (
	// CalleeFreeFunction is a plain function call, qualified or not.
	CalleeFreeFunction CalleeKind = "function"
	// CalleeStaticMethod is a Type::method proxy call.
	CalleeStaticMethod CalleeKind = "static-method"
	// CalleeInstanceMethod is an $obj->method call.
	CalleeInstanceMethod CalleeKind = "instance-method"
	// CalleeDynamic is any variable-resolved function, class or method.
	CalleeDynamic CalleeKind = "dynamic"
	// CalleeExpression is a suppressed non-call expression.
	CalleeExpression CalleeKind = "expression"
)

// SuppressionMatch is the classification of one @ use.
type SuppressionMatch struct {
	Kind        CalleeKind
	Display     string
	Whitelisted bool
	Severity    m.Severity
	Line        int
}

// SuppressionMatcher classifies suppressed callees against the whitelist.
// Entry forms: a plain name whitelists free functions and instance methods
// of that name, `name*` is a prefix wildcard for instance methods,
// `Type::method` and `Type::*` cover static proxy calls. Dynamic callees are
// never whitelistable.
type SuppressionMatcher struct {
	names       map[string]struct{}
	prefixes    []string
	staticPairs map[string]struct{}
	staticAny   map[string]struct{}
}

// NewSuppressionMatcher compiles the whitelist entries.
func NewSuppressionMatcher(whitelist []string) *SuppressionMatcher {
	sm := &SuppressionMatcher{
		names:       make(map[string]struct{}),
		staticPairs: make(map[string]struct{}),
		staticAny:   make(map[string]struct{}),
	}

	for _, raw := range whitelist {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}

		if typ, method, ok := strings.Cut(entry, "::"); ok {
			if method == "*" {
				sm.staticAny[typ] = struct{}{}
			} else {
				sm.staticPairs[typ+"::"+method] = struct{}{}
			}

			continue
		}

		if strings.HasSuffix(entry, "*") {
			sm.prefixes = append(sm.prefixes, strings.TrimSuffix(entry, "*"))
			continue
		}

		sm.names[entry] = struct{}{}
	}

	return sm
}

// Match classifies the expression under a Suppress node. baseSeverity is the
// rule's severity for non-whitelisted free functions; static calls default
// to medium and dynamic callees are always high.
func (sm *SuppressionMatcher) Match(suppress *phpast.Node, baseSeverity m.Severity) SuppressionMatch {
	call := firstCall(suppress)
	if call == nil {
		return SuppressionMatch{
			Kind:     CalleeExpression,
			Display:  "expression",
			Severity: baseSeverity,
			Line:     suppress.Line(),
		}
	}

	match := SuppressionMatch{Line: call.Line()}

	switch call.Kind {
	case phpast.FunctionCall:
		if call.Name == "" {
			return sm.dynamic(match, "dynamic function call")
		}

		name := SimpleName(call.Name)
		match.Kind = CalleeFreeFunction
		match.Display = name + "()"
		_, match.Whitelisted = sm.names[name]
		match.Severity = baseSeverity

	case phpast.StaticCall:
		typ, ok := staticReceiverName(call)
		if !ok {
			return sm.dynamic(match, "dynamic static call")
		}

		if call.Name == "" {
			return sm.dynamic(match, typ+"::{dynamic}")
		}

		match.Kind = CalleeStaticMethod
		match.Display = typ + "::" + call.Name + "()"
		match.Whitelisted = sm.staticWhitelisted(typ, call.Name)
		match.Severity = m.SeverityMedium

	case phpast.MethodCall:
		if call.Name == "" {
			return sm.dynamic(match, "dynamic method call")
		}

		match.Kind = CalleeInstanceMethod
		match.Display = "->" + call.Name + "()"
		match.Whitelisted = sm.methodWhitelisted(call.Name)
		match.Severity = m.SeverityMedium

	default:
		match.Kind = CalleeExpression
		match.Display = "expression"
		match.Severity = baseSeverity
	}

	return match
}

// dynamic finalizes a variable-resolved callee: high severity, whitelist
// ignored even when an entry spells its runtime name.
func (sm *SuppressionMatcher) dynamic(match SuppressionMatch, display string) SuppressionMatch {
	match.Kind = CalleeDynamic
	match.Display = display
	match.Whitelisted = false
	match.Severity = m.SeverityHigh

	return match
}

func (sm *SuppressionMatcher) staticWhitelisted(typ, method string) bool {
	typ = SimpleName(typ)

	if _, ok := sm.staticAny[typ]; ok {
		return true
	}

	_, ok := sm.staticPairs[typ+"::"+method]

	return ok
}

func (sm *SuppressionMatcher) methodWhitelisted(method string) bool {
	if _, ok := sm.names[method]; ok {
		return true
	}

	for _, prefix := range sm.prefixes {
		if strings.HasPrefix(method, prefix) {
			return true
		}
	}

	return false
}

// staticReceiverName returns the literal scope of Type::method, false when
// the scope is a variable holding a class name.
func staticReceiverName(call *phpast.Node) (string, bool) {
	if call.Receiver == nil || call.Receiver.Kind != phpast.Name {
		return "", false
	}

	return SimpleName(call.Receiver.Name), true
}

// firstCall returns the outermost call expression under the suppress node.
func firstCall(suppress *phpast.Node) *phpast.Node {
	for _, child := range suppress.Children {
		if found := phpast.Find(child, func(n *phpast.Node) bool {
			return n.Call()
		}); found != nil {
			return found
		}
	}

	return nil
}
