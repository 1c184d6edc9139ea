package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

func TestCompilePathRules_Kinds(t *testing.T) {
	rules, diags := CompilePathRules([]string{
		"vendor",
		"*.blade.php.bak",
		"database/migrations/**",
		"",
	})

	require.Empty(t, diags)
	require.Len(t, rules, 3)

	assert.Equal(t, m.MatchExact, rules[0].Kind)
	assert.Equal(t, m.MatchGlob, rules[1].Kind)
	assert.Equal(t, m.MatchRecursiveGlob, rules[2].Kind)
}

func TestCompilePathRules_Malformed(t *testing.T) {
	rules, diags := CompilePathRules([]string{"app/[bad"})

	assert.Empty(t, rules)
	require.Len(t, diags, 1)
	assert.Equal(t, CodeMalformedRule, diags[0].Code)
	assert.Equal(t, m.SeverityLow, diags[0].Severity)
}

func TestExcludedPath(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{"segment anywhere", []string{"vendor"}, "vendor/laravel/framework/src/helpers.php", true},
		{"nested segment", []string{"cache"}, "bootstrap/cache/config.php", true},
		{"filename stem", []string{"helpers"}, "app/Support/helpers.php", true},
		{"no substring", []string{"vendor"}, "app/vendored/file.php", false},
		{"single glob basename", []string{"*.bak.php"}, "app/Models/Order.bak.php", true},
		{"single glob does not cross dirs", []string{"database/*"}, "database/seeds/UserSeeder.php", false},
		{"single glob direct child", []string{"database/*"}, "database/factory.php", true},
		{"recursive glob crosses dirs", []string{"database/**"}, "database/seeds/UserSeeder.php", true},
		{"recursive glob with suffix", []string{"database/**/*.php"}, "database/migrations/2024/create_users.php", true},
		{"recursive glob non-match", []string{"database/**"}, "app/Http/Controller.php", false},
		{"empty path never matches", []string{"vendor"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, diags := CompilePathRules(tt.patterns)
			require.Empty(t, diags)

			assert.Equal(t, tt.want, ExcludedPath(m.Path(tt.path), rules))
		})
	}
}

func TestExcludedDeclaration_NoSubstringMatch(t *testing.T) {
	rules, diags := CompileDeclarationRules([]string{"User"})
	require.Empty(t, diags)

	assert.True(t, ExcludedDeclaration("User", rules))
	assert.False(t, ExcludedDeclaration("SuperUserService", rules), "substring containment must not match")
	assert.False(t, ExcludedDeclaration("UserService", rules))
	assert.False(t, ExcludedDeclaration("Users", rules))
}

func TestExcludedDeclaration_SuffixClass(t *testing.T) {
	rules, diags := CompileDeclarationRules([]string{"*Seeder"})
	require.Empty(t, diags)

	assert.True(t, ExcludedDeclaration("UserSeeder", rules))
	assert.False(t, ExcludedDeclaration("Seeder", rules), "suffix class needs a non-empty prefix")
	assert.False(t, ExcludedDeclaration("UserSeederFactory", rules))
}

func TestCompileDeclarationRules_Malformed(t *testing.T) {
	rules, diags := CompileDeclarationRules([]string{"*", "Order*", "Valid"})

	require.Len(t, rules, 1)
	assert.Equal(t, "Valid", rules[0].Pattern)
	assert.Len(t, diags, 2)
}

func TestExcludedPath_Pure(t *testing.T) {
	rules, _ := CompilePathRules([]string{"storage", "database/**"})

	// Same inputs, same answer, in any order.
	for i := 0; i < 3; i++ {
		assert.True(t, ExcludedPath("storage/logs/laravel.log", rules))
		assert.False(t, ExcludedPath("app/Jobs/SyncJob.php", rules))
		assert.True(t, ExcludedPath("database/seeds/UserSeeder.php", rules))
	}
}
