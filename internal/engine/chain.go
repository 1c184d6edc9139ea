package engine

import (
	"strings"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
	"github.com/ShieldCI/laravel-sub000/internal/phpast"
)

// ambiguousSuffixes name builder-style types that only become interesting
// once the chain actually materializes records.
var ambiguousSuffixes = []string{"Builder", "Query", "Collection", "Manager"}

// nonPersistenceSuffixes name types that never denote a persistence entity,
// whatever their methods are called.
var nonPersistenceSuffixes = []string{
	"Service", "Client", "Repository", "Factory", "Controller",
	"Handler", "Job", "Middleware", "Request", "Resource", "Helper",
}

// terminalFull are retrieval segments that always materialize the full
// backing set.
var terminalFull = map[string]struct{}{
	"get": {}, "all": {}, "findMany": {},
}

// terminalPartial are retrieval segments that page, stream or project.
var terminalPartial = map[string]struct{}{
	"paginate": {}, "simplePaginate": {}, "cursorPaginate": {},
	"cursor": {}, "pluck": {},
}

// filterSegments run client-side over an already-loaded collection.
var filterSegments = map[string]struct{}{
	"filter": {}, "reject": {}, "whereIn": {}, "whereNotIn": {},
	"whereInstanceOf": {},
}

// transformSegments may sit between a terminal and a filter without breaking
// the chain.
var transformSegments = map[string]struct{}{
	"map": {}, "flatMap": {}, "mapWithKeys": {}, "values": {},
	"keys": {}, "unique": {}, "sortBy": {}, "sortByDesc": {},
}

// singleRecordSegments retrieve one record when called with a single scalar
// or variable argument; filtering their result is a different bug class.
var singleRecordSegments = map[string]struct{}{
	"find": {}, "first": {},
}

// collectionNouns are property names that denote a loaded relationship even
// though their plural form is irregular or absent.
var collectionNouns = map[string]struct{}{
	"children": {}, "items": {}, "entries": {}, "members": {},
	"tags": {}, "comments": {}, "attachments": {},
}

// ChainKind distinguishes what the resolver decided a chain loads.
type ChainKind string

const (
	// ChainFullLoad is a terminal that materializes every record.
	ChainFullLoad ChainKind = "full-load"
	// ChainPartialLoad is a paginating, streaming or projecting terminal.
	ChainPartialLoad ChainKind = "partial-load"
	// ChainRelationship is an already-loaded relationship collection.
	ChainRelationship ChainKind = "relationship"
)

// ChainFinding is one qualifying filter inside a resolved chain.
type ChainFinding struct {
	Kind     ChainKind
	Terminal string // empty for relationship chains
	Filter   string
	Line     int
	Receiver string
	Severity m.Severity
}

// ChainResolverConfig carries the tunables the resolver reads.
type ChainResolverConfig struct {
	// PersistenceNamespaces are namespace prefixes whose types are
	// persistence entities.
	PersistenceNamespaces []string
	// Imports maps simple type names to their namespaces, built from the
	// file's use declarations.
	Imports map[string]string
	// ReportEveryFilter switches from first-qualifying-filter-wins to one
	// finding per qualifying filter segment.
	ReportEveryFilter bool
}

// ExtractChain walks a fluent expression from its outermost call and returns
// the ordered chain, innermost segment first. Visited marks every call node
// consumed so a traversal can avoid re-extracting inner links. Nil when the
// node does not head a method chain.
func ExtractChain(node *phpast.Node, visited map[*phpast.Node]struct{}) *m.CallChain {
	if node == nil || !node.Call() || node.Kind == phpast.FunctionCall {
		return nil
	}

	if _, done := visited[node]; done {
		return nil
	}

	var segments []m.CallChainSegment

	current := node
	for current != nil && (current.Kind == phpast.MethodCall || current.Kind == phpast.StaticCall) {
		if visited != nil {
			visited[current] = struct{}{}
		}

		segments = append(segments, m.CallChainSegment{
			Method: current.Name,
			Static: current.Kind == phpast.StaticCall,
			Args:   argShape(current.Args),
			Line:   current.Line(),
		})

		if current.Receiver == nil {
			return nil
		}

		next := current.Receiver
		if next.Kind != phpast.MethodCall && next.Kind != phpast.StaticCall {
			chain := &m.CallChain{Receiver: receiverIdentity(next)}

			// Segments were collected outermost-first; store source order.
			for i := len(segments) - 1; i >= 0; i-- {
				chain.Segments = append(chain.Segments, segments[i])
			}

			return chain
		}

		current = next
	}

	return nil
}

// argShape buckets an argument list into the coarse shapes the resolver
// distinguishes.
func argShape(args []*phpast.Node) m.ArgShape {
	if len(args) == 0 {
		return m.ArgsNone
	}

	if len(args) > 1 {
		return m.ArgsOther
	}

	switch args[0].Kind {
	case phpast.StringLit, phpast.IntLit, phpast.FloatLit, phpast.BoolLit, phpast.NullLit:
		return m.ArgsScalar
	case phpast.ArrayLit:
		return m.ArgsArray
	case phpast.Variable:
		return m.ArgsVariable
	default:
		return m.ArgsOther
	}
}

// receiverIdentity classifies the chain base.
func receiverIdentity(node *phpast.Node) m.ReceiverIdentity {
	switch node.Kind {
	case phpast.Name:
		return m.ReceiverIdentity{
			Kind:      m.ReceiverLiteralType,
			Name:      SimpleName(node.Name),
			Namespace: NamespaceOf(node.Name),
		}
	case phpast.Variable:
		if node.Name == "" {
			return m.ReceiverIdentity{Kind: m.ReceiverUnknown}
		}

		return m.ReceiverIdentity{Kind: m.ReceiverVariable, Name: node.Name}
	case phpast.PropertyAccess:
		if node.Name == "" {
			return m.ReceiverIdentity{Kind: m.ReceiverUnknown}
		}

		return m.ReceiverIdentity{
			Kind:     m.ReceiverPropertyAccess,
			Owner:    renderReceiver(node.Receiver),
			Property: node.Name,
		}
	default:
		return m.ReceiverIdentity{Kind: m.ReceiverUnknown}
	}
}

// renderReceiver reconstructs a short textual form of simple owner
// expressions for messages.
func renderReceiver(node *phpast.Node) string {
	if node == nil {
		return ""
	}

	switch node.Kind {
	case phpast.Variable:
		return "$" + node.Name
	case phpast.PropertyAccess:
		return renderReceiver(node.Receiver) + "->" + node.Name
	case phpast.Name:
		return node.Name
	default:
		return "…"
	}
}

// ChainResolver classifies fluent chains against the persistence heuristics.
type ChainResolver struct {
	cfg ChainResolverConfig
}

// NewChainResolver builds a resolver over the given tunables.
func NewChainResolver(cfg ChainResolverConfig) *ChainResolver {
	return &ChainResolver{cfg: cfg}
}

// Resolve classifies one chain. The priority order of the receiver rules is
// fixed; the first applicable rule decides and later rules are never
// consulted. An empty slice means the chain is clean.
func (r *ChainResolver) Resolve(chain *m.CallChain) []ChainFinding {
	if chain == nil || len(chain.Segments) == 0 {
		return nil
	}

	switch chain.Receiver.Kind {
	case m.ReceiverLiteralType:
		return r.resolveLiteral(chain)
	case m.ReceiverPropertyAccess:
		return r.resolveRelationship(chain)
	case m.ReceiverVariable:
		return r.resolveVariable(chain)
	case m.ReceiverUnknown:
		return nil
	}

	return nil
}

func (r *ChainResolver) resolveLiteral(chain *m.CallChain) []ChainFinding {
	name := chain.Receiver.Name

	if hasAnySuffix(name, ambiguousSuffixes) && !hasTerminal(chain.Segments) {
		return nil
	}

	if hasAnySuffix(name, nonPersistenceSuffixes) {
		return nil
	}

	if !r.persistenceEntity(chain.Receiver) {
		return nil
	}

	return r.scanTerminalThenFilter(chain, "$"+strings.ToLower(name))
}

// persistenceEntity decides whether a literal type denotes a model: it sits
// in a configured persistence namespace (directly or through an import), or
// carries the Model suffix, or is a bare studly name with no recognized
// suffix.
func (r *ChainResolver) persistenceEntity(recv m.ReceiverIdentity) bool {
	ns := recv.Namespace
	if ns == "" {
		ns = r.cfg.Imports[recv.Name]
	}

	if ns != "" {
		for _, configured := range r.cfg.PersistenceNamespaces {
			if ns == configured || strings.HasPrefix(ns, configured+`\`) {
				return true
			}
		}

		return false
	}

	if hasAnySuffix(recv.Name, []string{"Model"}) {
		return true
	}

	return StudlyCase(recv.Name) && !Plural(recv.Name)
}

func (r *ChainResolver) resolveRelationship(chain *m.CallChain) []ChainFinding {
	property := chain.Receiver.Property

	if !relationshipName(property) {
		return nil
	}

	receiver := chain.Receiver.Owner + "->" + property

	var findings []ChainFinding

	for _, segment := range chain.Segments {
		if segment.Method == "" {
			break
		}

		if _, ok := filterSegments[segment.Method]; ok {
			findings = append(findings, ChainFinding{
				Kind:     ChainRelationship,
				Filter:   segment.Method,
				Line:     segment.Line,
				Receiver: receiver,
				Severity: m.SeverityHigh,
			})

			if !r.cfg.ReportEveryFilter {
				break
			}

			continue
		}

		if _, ok := transformSegments[segment.Method]; !ok {
			break
		}
	}

	return findings
}

func (r *ChainResolver) resolveVariable(chain *m.CallChain) []ChainFinding {
	// An unresolved variable is only suspicious when the chain itself shows
	// both the bulk fetch and the client-side filter.
	if !hasTerminal(chain.Segments) {
		return nil
	}

	return r.scanTerminalThenFilter(chain, "$"+chain.Receiver.Name)
}

// scanTerminalThenFilter finds the first terminal-retrieval segment and then
// scans downstream for filter segments, permitting transforms in between.
// Any other intervening segment ends the scan.
func (r *ChainResolver) scanTerminalThenFilter(chain *m.CallChain, receiver string) []ChainFinding {
	terminalAt := -1

	var (
		kind     ChainKind
		terminal string
	)

	for i, segment := range chain.Segments {
		if k, ok := terminalKind(segment); ok {
			terminalAt, kind, terminal = i, k, segment.Method
			break
		}

		// A single-record fetch never yields a flaggable collection.
		if singleRecord(segment) {
			return nil
		}
	}

	if terminalAt < 0 {
		return nil
	}

	severity := m.SeverityCritical
	if kind == ChainPartialLoad {
		severity = m.SeverityMedium
	}

	var findings []ChainFinding

	for _, segment := range chain.Segments[terminalAt+1:] {
		if segment.Method == "" {
			break
		}

		if _, ok := filterSegments[segment.Method]; ok {
			findings = append(findings, ChainFinding{
				Kind:     kind,
				Terminal: terminal,
				Filter:   segment.Method,
				Line:     segment.Line,
				Receiver: receiver,
				Severity: severity,
			})

			if !r.cfg.ReportEveryFilter {
				break
			}

			continue
		}

		if _, ok := transformSegments[segment.Method]; !ok {
			break
		}
	}

	return findings
}

// terminalKind classifies a segment as a retrieval terminal.
func terminalKind(segment m.CallChainSegment) (ChainKind, bool) {
	if _, ok := terminalFull[segment.Method]; ok {
		return ChainFullLoad, true
	}

	if segment.Method == "find" && segment.Args == m.ArgsArray {
		return ChainFullLoad, true
	}

	if _, ok := terminalPartial[segment.Method]; ok {
		return ChainPartialLoad, true
	}

	return "", false
}

// singleRecord reports whether the segment fetches exactly one record.
func singleRecord(segment m.CallChainSegment) bool {
	if _, ok := singleRecordSegments[segment.Method]; !ok {
		return false
	}

	return segment.Args == m.ArgsScalar || segment.Args == m.ArgsVariable
}

// relationshipName applies the lazy-relationship heuristic with the known
// collection-noun table on top of the plural rules.
func relationshipName(name string) bool {
	if _, ok := collectionNouns[strings.ToLower(name)]; ok {
		return len(name) > 3
	}

	return RelationshipProperty(name)
}

func hasTerminal(segments []m.CallChainSegment) bool {
	for _, segment := range segments {
		if _, ok := terminalKind(segment); ok {
			return true
		}
	}

	return false
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if HasSuffixWord(name, suffix) {
			return true
		}
	}

	return false
}
