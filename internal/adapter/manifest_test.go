package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

func TestComposerReader(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "composer.json", `{
		"name": "acme/shop",
		"require": {
			"php": "^8.2",
			"laravel/framework": "^11.0"
		},
		"require-dev": {
			"phpunit/phpunit": "^11.0"
		}
	}`)

	manifest, err := NewComposerReader().Read(m.Path(base))
	require.NoError(t, err)

	assert.Equal(t, "^11.0", manifest.Require["laravel/framework"])
	assert.Equal(t, "^11.0", manifest.RequireDev["phpunit/phpunit"])
}

func TestComposerReader_Missing(t *testing.T) {
	_, err := NewComposerReader().Read(m.Path(t.TempDir()))
	assert.ErrorIs(t, err, ErrManifestMissing)
}

func TestComposerReader_Malformed(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "composer.json", `{"require": [broken`)

	_, err := NewComposerReader().Read(m.Path(base))
	assert.ErrorIs(t, err, ErrManifestMissing)
}
