package engine

import (
	"strings"

	"github.com/ShieldCI/laravel-sub000/internal/phpast"
)

// ignoreMarker introduces an inline suppression directive:
//
//	// shieldci:ignore                      silence every analyzer
//	// shieldci:ignore error-suppression    silence the listed analyzers
//
// A directive on its own line covers the next line; a trailing directive
// covers its own line. A directive above the first statement of the file
// covers the whole file.
const ignoreMarker = "shieldci:ignore"

type ignoreRule struct {
	all bool
	ids map[string]struct{}
}

func (r ignoreRule) ignores(analyzerID string) bool {
	if r.all {
		return true
	}

	if len(r.ids) == 0 {
		return false
	}

	_, ok := r.ids[strings.ToLower(analyzerID)]

	return ok
}

func mergeIgnoreRule(dst *ignoreRule, src ignoreRule) {
	if src.all {
		dst.all = true
		dst.ids = nil

		return
	}

	if dst.all || len(src.ids) == 0 {
		return
	}

	if dst.ids == nil {
		dst.ids = make(map[string]struct{}, len(src.ids))
	}

	for id := range src.ids {
		dst.ids[id] = struct{}{}
	}
}

func parseIgnoreDirective(commentText string) (ignoreRule, bool) {
	s := strings.TrimSpace(commentText)

	switch {
	case strings.HasPrefix(s, "//"):
		s = strings.TrimSpace(strings.TrimPrefix(s, "//"))
	case strings.HasPrefix(s, "#"):
		s = strings.TrimSpace(strings.TrimPrefix(s, "#"))
	case strings.HasPrefix(s, "/*"):
		s = strings.TrimSpace(strings.TrimPrefix(s, "/*"))
		s = strings.TrimSpace(strings.TrimSuffix(s, "*/"))
	}

	if !strings.HasPrefix(s, ignoreMarker) {
		return ignoreRule{}, false
	}

	rest := strings.TrimSpace(strings.TrimPrefix(s, ignoreMarker))
	if rest == "" {
		return ignoreRule{all: true}, true
	}

	parts := strings.Split(rest, ",")
	rule := ignoreRule{ids: make(map[string]struct{}, len(parts))}

	for _, part := range parts {
		id := strings.ToLower(strings.TrimSpace(part))
		if id == "" {
			continue
		}

		rule.ids[id] = struct{}{}
	}

	if len(rule.ids) == 0 {
		rule.all = true
		rule.ids = nil
	}

	return rule, true
}

// IgnoreIndex answers whether a finding at a line is silenced by an inline
// directive. Built once per file, read by every analyzer.
type IgnoreIndex struct {
	file ignoreRule
	line map[int]ignoreRule
}

// Ignored reports whether findings of analyzerID at line are suppressed.
func (idx *IgnoreIndex) Ignored(analyzerID string, line int) bool {
	if idx == nil {
		return false
	}

	if idx.file.ignores(analyzerID) {
		return true
	}

	return idx.line[line].ignores(analyzerID)
}

// BuildIgnoreIndex scans the file's comments for directives.
func BuildIgnoreIndex(file *phpast.ParsedFile) *IgnoreIndex {
	idx := &IgnoreIndex{line: make(map[int]ignoreRule)}

	if file == nil || file.Root == nil {
		return idx
	}

	firstCode := firstCodeLine(file.Root)

	phpast.Walk(file.Root, func(node *phpast.Node) bool {
		if node.Kind != phpast.Comment {
			return true
		}

		rule, ok := parseIgnoreDirective(node.Value)
		if !ok {
			return true
		}

		line := node.Line()

		if line < firstCode {
			mergeIgnoreRule(&idx.file, rule)
			return true
		}

		target := line
		if leadingComment(file.Source, node) {
			target = node.Pos.EndLine + 1
		}

		current := idx.line[target]
		mergeIgnoreRule(&current, rule)
		idx.line[target] = current

		return true
	})

	return idx
}

// firstCodeLine finds the first non-comment, non-HTML construct.
func firstCodeLine(root *phpast.Node) int {
	line := int(^uint(0) >> 1)

	for _, child := range root.Children {
		switch child.Kind {
		case phpast.Comment, phpast.InlineHTML:
			continue
		}

		if child.Line() < line {
			line = child.Line()
		}
	}

	return line
}

// leadingComment reports whether only whitespace precedes the comment on its
// line, meaning the directive targets the line below.
func leadingComment(src []byte, comment *phpast.Node) bool {
	start := comment.Pos.StartByte
	if start > len(src) {
		return false
	}

	for i := start - 1; i >= 0; i-- {
		b := src[i]
		if b == '\n' {
			return true
		}

		if b != ' ' && b != '\t' && b != '\r' {
			return false
		}
	}

	return true
}
