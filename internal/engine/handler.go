package engine

import (
	"strings"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
	"github.com/ShieldCI/laravel-sub000/internal/phpast"
)

// broadBuiltins are the catch-all throwable bases; catching one hides every
// failure class behind it.
var broadBuiltins = map[string]struct{}{
	"Exception": {}, "Throwable": {}, "Error": {},
}

// suppressionVocabulary are the comment terms that make an empty handler an
// explicit decision instead of an accident.
var suppressionVocabulary = []string{
	"intentional", "intentionally", "ignore", "ignored",
	"expected", "best effort", "best-effort", "noop", "no-op",
}

// loggingFunctions record a failure when called free-standing.
var loggingFunctions = map[string]struct{}{
	"logger": {}, "report": {}, "error_log": {},
}

// loggingProxies are static receivers whose calls count as structured
// logging or error reporting.
var loggingProxies = map[string]struct{}{
	"Log": {}, "Sentry": {}, "Bugsnag": {},
}

// fallbackNames mark assignment targets that signal a deliberate default.
var fallbackNames = []string{"default", "fallback", "empty", "fresh"}

// HandlerClassification is the full verdict for one catch clause.
type HandlerClassification struct {
	// Suppressed is true when every caught member is whitelisted; no
	// findings of any kind apply then.
	Suppressed bool
	// Members is the caught type union in source order.
	Members []m.ExceptionType
	// Unlisted are the caught members the whitelist does not cover, in
	// source order. Broad builtins always count as unlisted.
	Unlisted []m.ExceptionType
	// BroadMembers are the caught broad builtins, source order.
	BroadMembers []m.ExceptionType
	// Verdict classifies the handler body.
	Verdict m.HandlerVerdict
	// CommentExempt is true for an empty body whose sole content is an
	// intentional-suppression comment.
	CommentExempt bool
	// SuppressLines are lines with an @ operator inside the handler body,
	// flagged as double silencing independent of the verdict.
	SuppressLines []int
}

// HandlerClassifier classifies catch clauses against the exception
// whitelist.
type HandlerClassifier struct {
	whitelist map[string]struct{}
}

// NewHandlerClassifier builds a classifier; whitelist entries are compared
// by simple name, namespace qualifiers stripped.
func NewHandlerClassifier(whitelist []string) *HandlerClassifier {
	set := make(map[string]struct{}, len(whitelist))

	for _, entry := range whitelist {
		name := SimpleName(strings.TrimSpace(entry))
		if name == "" {
			continue
		}

		set[name] = struct{}{}
	}

	return &HandlerClassifier{whitelist: set}
}

// Classify evaluates one catch clause. inLoop tells the classifier whether
// the clause sits inside a loop, which legitimizes the continue/break idiom.
func (h *HandlerClassifier) Classify(clause *phpast.Node, inLoop bool) HandlerClassification {
	var c HandlerClassification

	for _, raw := range clause.CatchTypes() {
		name := SimpleName(raw)

		_, broad := broadBuiltins[name]
		member := m.ExceptionType{SimpleName: name, BroadBuiltin: broad}
		c.Members = append(c.Members, member)

		if broad {
			// A broad builtin is never suppressible by whitelisting.
			c.BroadMembers = append(c.BroadMembers, member)
			c.Unlisted = append(c.Unlisted, member)

			continue
		}

		if _, listed := h.whitelist[name]; !listed {
			c.Unlisted = append(c.Unlisted, member)
		}
	}

	if h.allWhitelisted(c.Members) {
		c.Suppressed = true
		return c
	}

	body := clause.CatchBody()
	caught := clause.CatchVariable()

	c.Verdict, c.CommentExempt = h.classifyBody(body, caught, inLoop)
	c.SuppressLines = suppressionLines(body)

	return c
}

// allWhitelisted is true only when the union is non-empty and every member
// is listed. Broad builtins never count as listed.
func (h *HandlerClassifier) allWhitelisted(members []m.ExceptionType) bool {
	if len(members) == 0 {
		return false
	}

	for _, member := range members {
		if member.BroadBuiltin {
			return false
		}

		if _, listed := h.whitelist[member.SimpleName]; !listed {
			return false
		}
	}

	return true
}

// classifyBody applies the body rules in priority order; the first match
// wins.
func (h *HandlerClassifier) classifyBody(body *phpast.Node, caught string, inLoop bool) (m.HandlerVerdict, bool) {
	if body == nil {
		return m.VerdictEmpty, false
	}

	statements := body.Statements()

	if len(statements) == 0 {
		return m.VerdictEmpty, intentionalComment(body.Comments())
	}

	if phpast.Contains(body, loggingCall) {
		return m.VerdictLogsOrReports, false
	}

	if rethrows(body, caught) {
		return m.VerdictRethrows, false
	}

	if inLoop && loopControlExit(statements[len(statements)-1]) {
		return m.VerdictLoopControlExit, false
	}

	if delegatesToHandler(statements, caught) {
		return m.VerdictDelegatesToHandler, false
	}

	if semanticFallback(body) {
		return m.VerdictSemanticFallback, false
	}

	return m.VerdictSideEffectOnly, false
}

// intentionalComment checks the comment vocabulary: explicit suppression
// terms exempt, vague acknowledgements do not.
func intentionalComment(comments []*phpast.Node) bool {
	for _, comment := range comments {
		text := strings.ToLower(comment.Value)

		for _, term := range suppressionVocabulary {
			if strings.Contains(text, term) {
				return true
			}
		}
	}

	return false
}

// loggingCall recognizes the structured logging and error-reporting shapes
// anywhere in the body, nested statements included.
func loggingCall(node *phpast.Node) bool {
	switch node.Kind {
	case phpast.FunctionCall:
		_, ok := loggingFunctions[SimpleName(node.Name)]
		return ok
	case phpast.StaticCall:
		if node.Receiver == nil || node.Receiver.Kind != phpast.Name {
			return false
		}

		// SDK facades are recognized by their leading namespace segment
		// too, so \Sentry\SentrySdk::captureException counts.
		proxy := namespaceHead(node.Receiver.Name)
		if _, ok := loggingProxies[proxy]; !ok {
			proxy = SimpleName(node.Receiver.Name)
			if _, ok := loggingProxies[proxy]; !ok {
				return false
			}
		}

		if proxy == "Log" {
			return true
		}

		return strings.HasPrefix(node.Name, "capture") || strings.HasPrefix(node.Name, "notify")
	case phpast.MethodCall:
		// $this->logger->error(…) and $log->warning(…) style calls.
		if node.Receiver == nil {
			return false
		}

		recv := node.Receiver
		if recv.Kind == phpast.PropertyAccess || recv.Kind == phpast.Variable {
			name := recv.Name
			return name == "logger" || name == "log"
		}

		return false
	}

	return false
}

// namespaceHead returns the first namespace segment of a qualified name,
// the whole name when unqualified.
func namespaceHead(qualified string) string {
	trimmed := strings.TrimPrefix(qualified, `\`)

	if idx := strings.Index(trimmed, `\`); idx >= 0 {
		return trimmed[:idx]
	}

	return trimmed
}

// rethrows is true when the body throws the caught variable or constructs a
// new exception that receives it, anywhere including nested conditionals. A
// throw that never references the caught value replaces the failure instead
// of propagating it and does not count.
func rethrows(body *phpast.Node, caught string) bool {
	if caught == "" {
		return false
	}

	return phpast.Contains(body, func(node *phpast.Node) bool {
		if node.Kind != phpast.Throw {
			return false
		}

		return phpast.Contains(node, func(inner *phpast.Node) bool {
			return inner.Kind == phpast.Variable && inner.Name == caught
		})
	})
}

// loopControlExit recognizes the skip-this-iteration idiom: the final
// statement is continue, break, or a bare return.
func loopControlExit(last *phpast.Node) bool {
	switch last.Kind {
	case phpast.Continue, phpast.Break:
		return true
	case phpast.Return:
		return len(last.Children) == 0
	}

	return false
}

// delegatesToHandler looks for a top-level $this->method(…) statement that
// is non-trivial: it receives the caught variable or at least one argument.
// No deeper call-graph analysis is attempted.
func delegatesToHandler(statements []*phpast.Node, caught string) bool {
	for _, statement := range statements {
		call := statement
		if call.Kind == phpast.ExprStmt && len(call.Children) > 0 {
			call = call.Children[0]
		}

		if call.Kind != phpast.MethodCall || call.Receiver == nil {
			continue
		}

		if call.Receiver.Kind != phpast.Variable || call.Receiver.Name != "this" {
			continue
		}

		if len(call.Args) == 0 {
			continue
		}

		if caught == "" {
			return true
		}

		for _, arg := range call.Args {
			if phpast.Contains(arg, func(n *phpast.Node) bool {
				return n.Kind == phpast.Variable && n.Name == caught
			}) {
				return true
			}
		}

		// Arguments that ignore the caught value still count: the handler
		// receives context even if not the exception itself.
		return true
	}

	return false
}

// semanticFallback recognizes deliberate recovery: a cache read with a
// default, a ternary or null-coalescing alternative that calls something,
// new-object construction, or assignment to a fallback-named variable.
func semanticFallback(body *phpast.Node) bool {
	return phpast.Contains(body, func(node *phpast.Node) bool {
		switch node.Kind {
		case phpast.StaticCall:
			if node.Receiver != nil && node.Receiver.Kind == phpast.Name &&
				SimpleName(node.Receiver.Name) == "Cache" &&
				node.Name == "get" && len(node.Args) >= 2 {
				return true
			}
		case phpast.Ternary:
			return containsCall(node)
		case phpast.Binary:
			return node.Name == "??" && containsCall(node)
		case phpast.New:
			return true
		case phpast.Assign:
			if len(node.Children) == 0 {
				return false
			}

			return fallbackTarget(node.Children[0])
		}

		return false
	})
}

func containsCall(node *phpast.Node) bool {
	return phpast.Contains(node, func(n *phpast.Node) bool {
		return n.Call()
	})
}

func fallbackTarget(target *phpast.Node) bool {
	name := ""

	switch target.Kind {
	case phpast.Variable, phpast.PropertyAccess:
		name = strings.ToLower(target.Name)
	default:
		return false
	}

	for _, marker := range fallbackNames {
		if strings.Contains(name, marker) {
			return true
		}
	}

	return false
}

// suppressionLines collects the lines of @ operators inside the handler.
func suppressionLines(body *phpast.Node) []int {
	if body == nil {
		return nil
	}

	var lines []int

	phpast.Walk(body, func(node *phpast.Node) bool {
		if node.Kind == phpast.Suppress {
			lines = append(lines, node.Line())
		}

		return true
	})

	return lines
}
