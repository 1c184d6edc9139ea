package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
	"github.com/ShieldCI/laravel-sub000/internal/phpast"
)

type countingParser struct {
	calls int
	fail  map[m.Path]error
}

func (p *countingParser) Parse(_ context.Context, src []byte, path m.Path) (*phpast.ParsedFile, error) {
	p.calls++

	if err, ok := p.fail[path]; ok {
		return nil, err
	}

	return &phpast.ParsedFile{
		Path:   string(path),
		Root:   &phpast.Node{Kind: phpast.File},
		Source: src,
	}, nil
}

func TestCachingParser(t *testing.T) {
	inner := &countingParser{}
	parser := NewCachingParser(inner)

	ctx := context.Background()
	src := []byte("<?php\n")

	first, err := parser.Parse(ctx, src, "app/Kernel.php")
	require.NoError(t, err)

	second, err := parser.Parse(ctx, src, "app/Kernel.php")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, inner.calls)

	_, err = parser.Parse(ctx, src, "app/Other.php")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachingParser_FailureCached(t *testing.T) {
	parseErr := errors.New("syntax errors")
	inner := &countingParser{fail: map[m.Path]error{"app/Broken.php": parseErr}}
	parser := NewCachingParser(inner)

	ctx := context.Background()

	_, err := parser.Parse(ctx, nil, "app/Broken.php")
	require.ErrorIs(t, err, parseErr)

	_, err = parser.Parse(ctx, nil, "app/Broken.php")
	require.ErrorIs(t, err, parseErr)

	assert.Equal(t, 1, inner.calls)
}
