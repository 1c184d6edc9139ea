package adapter

import (
	"context"
	"sync"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
	"github.com/ShieldCI/laravel-sub000/internal/phpast"
)

// CachingParser memoizes parse results per path so analyzers running in
// parallel share one tree per file. Failed parses are cached too; a file that
// does not parse for one analyzer will not parse for the next.
type CachingParser struct {
	inner Parser

	mu       sync.Mutex
	trees    map[m.Path]*phpast.ParsedFile
	failures map[m.Path]error
}

// NewCachingParser wraps inner with a per-path memo.
func NewCachingParser(inner Parser) *CachingParser {
	return &CachingParser{
		inner:    inner,
		trees:    make(map[m.Path]*phpast.ParsedFile),
		failures: make(map[m.Path]error),
	}
}

// Parse returns the memoized tree for path, parsing on first use.
func (p *CachingParser) Parse(ctx context.Context, src []byte, path m.Path) (*phpast.ParsedFile, error) {
	p.mu.Lock()

	if tree, ok := p.trees[path]; ok {
		p.mu.Unlock()
		return tree, nil
	}

	if err, ok := p.failures[path]; ok {
		p.mu.Unlock()
		return nil, err
	}

	p.mu.Unlock()

	tree, err := p.inner.Parse(ctx, src, path)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.failures[path] = err
		return nil, err
	}

	p.trees[path] = tree

	return tree, nil
}
