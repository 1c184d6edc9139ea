package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

func writeFile(t *testing.T, base, rel, content string) {
	t.Helper()

	path := filepath.Join(base, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestNormalizeBase(t *testing.T) {
	fs := NewLocalSourceFS()

	abs, err := fs.NormalizeBase(".")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(string(abs)))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, m.Path(cwd), abs)

	empty, err := fs.NormalizeBase("")
	require.NoError(t, err)
	assert.Equal(t, abs, empty)
}

func TestNormalizeBase_Tilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	fs := NewLocalSourceFS()

	abs, err := fs.NormalizeBase("~/projects/shop")
	require.NoError(t, err)
	assert.Equal(t, m.Path(filepath.Join(home, "projects", "shop")), abs)
}

func TestFindProjectRoot(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "composer.json", `{}`)
	writeFile(t, base, "app/Services/Billing.php", "<?php\n")

	fs := NewLocalSourceFS()

	root, err := fs.FindProjectRoot(m.Path(filepath.Join(base, "app", "Services")))
	require.NoError(t, err)
	assert.Equal(t, m.Path(base), root)
}

func TestFindProjectRoot_NoManifest(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "src"), 0o750))

	fs := NewLocalSourceFS()

	start := m.Path(filepath.Join(base, "src"))

	root, err := fs.FindProjectRoot(start)
	require.NoError(t, err)
	assert.Equal(t, start, root)
}

func TestCollect(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "app/Models/Order.php", "<?php\n")
	writeFile(t, base, "app/Services/Billing.php", "<?php\n")
	writeFile(t, base, "resources/views/orders.blade.php", "<div></div>\n")
	writeFile(t, base, "public/app.js", "console.log(1);\n")
	writeFile(t, base, "vendor/lib/Noise.php", "<?php\n")

	fs := NewLocalSourceFS()

	sources, err := fs.Collect(m.Path(base), func(relative m.Path) bool {
		return relative == "vendor"
	})
	require.NoError(t, err)

	var relatives []m.Path
	for _, source := range sources {
		relatives = append(relatives, source.Relative)
	}

	assert.Equal(t, []m.Path{
		"app/Models/Order.php",
		"app/Services/Billing.php",
		"resources/views/orders.blade.php",
	}, relatives)
}

func TestCollect_DeterministicOrder(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "app/Zeta.php", "<?php\n")
	writeFile(t, base, "app/Alpha.php", "<?php\n")
	writeFile(t, base, "app/Middle.php", "<?php\n")

	fs := NewLocalSourceFS()

	first, err := fs.Collect(m.Path(base), nil)
	require.NoError(t, err)

	second, err := fs.Collect(m.Path(base), nil)
	require.NoError(t, err)

	require.Equal(t, first, second)
	assert.Equal(t, m.Path("app/Alpha.php"), first[0].Relative)
	assert.Equal(t, m.Path("app/Zeta.php"), first[2].Relative)
}

func TestResolve(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "app/Services/Billing.php", "<?php\n")

	fs := NewLocalSourceFS()

	sources, err := fs.Resolve(m.Path(base), []m.Path{
		"app/Services/Billing.php",
		m.Path(filepath.Join(base, "app", "Services", "Billing.php")),
		"app/Missing.php",
	})
	require.NoError(t, err)

	// The relative and absolute spellings collapse into one entry; the
	// missing path is dropped.
	require.Len(t, sources, 1)
	assert.Equal(t, m.Path("app/Services/Billing.php"), sources[0].Relative)
}

func TestReadFileAndFileInfo(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "app/Kernel.php", "<?php\n")

	fs := NewLocalSourceFS()

	raw, err := fs.ReadFile(m.Path(filepath.Join(base, "app", "Kernel.php")))
	require.NoError(t, err)
	assert.Equal(t, "<?php\n", string(raw))

	info, err := fs.FileInfo(m.Path(base))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = fs.FileInfo(m.Path(filepath.Join(base, "absent")))
	assert.Error(t, err)
}
