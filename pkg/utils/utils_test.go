package utils

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateTotalPages(t *testing.T) {
	tests := []struct {
		name    string
		total   int64
		perPage int
		want    int
	}{
		{"empty", 0, 10, 0},
		{"exact", 20, 10, 2},
		{"remainder", 21, 10, 3},
		{"zero per page", 5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateTotalPages(tt.total, tt.perPage))
		})
	}
}

func TestCalculateOffset(t *testing.T) {
	assert.Equal(t, 0, CalculateOffset(0, 10))
	assert.Equal(t, 0, CalculateOffset(1, 10))
	assert.Equal(t, 20, CalculateOffset(3, 10))
	assert.Equal(t, 0, CalculateOffset(3, 0))

	huge := CalculateOffset(math.MaxInt, MaxPerPage)
	assert.GreaterOrEqual(t, huge, 0)
	assert.Equal(t, 0, huge%MaxPerPage)
	assert.Equal(t, (math.MaxInt/MaxPerPage)*MaxPerPage, huge)
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 7, ParseInt("", 7))
	assert.Equal(t, 7, ParseInt("abc", 7))
	assert.Equal(t, 7, ParseInt("-2", 7))
	assert.Equal(t, 3, ParseInt("3", 7))
}

func TestValidateStruct(t *testing.T) {
	type signup struct {
		Username string `json:"username" validate:"required,max=150,username,notme"`
		Email    string `json:"email" validate:"required,email,max=254"`
		Slug     string `json:"slug" validate:"omitempty,slug"`
	}

	t.Run("valid", func(t *testing.T) {
		errs := ValidateStruct(signup{Username: "reader.one", Email: "r@example.com", Slug: "sci-fi"})
		assert.Empty(t, errs)
	})

	t.Run("reserved username", func(t *testing.T) {
		errs := ValidateStruct(signup{Username: "me", Email: "r@example.com"})
		require.Contains(t, errs, "username")
		assert.Equal(t, "Username 'me' is reserved", errs["username"])
	})

	t.Run("bad characters", func(t *testing.T) {
		errs := ValidateStruct(signup{Username: "bad name!", Email: "nope", Slug: "has space"})
		assert.Contains(t, errs, "username")
		assert.Contains(t, errs, "email")
		assert.Contains(t, errs, "slug")
	})
}

func TestFormatValidationErrorsIsSorted(t *testing.T) {
	got := FormatValidationErrors(map[string]string{"b": "two", "a": "one"})
	assert.Equal(t, "a: one; b: two", got)
}

func TestConfirmationCode(t *testing.T) {
	code, err := GenerateConfirmationCode(8)
	require.NoError(t, err)
	assert.Len(t, code, 8)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9')
	}

	hash, err := HashCode(code)
	require.NoError(t, err)
	assert.True(t, CheckCodeHash(code, hash))
	assert.False(t, CheckCodeHash("00000000x", hash))
}

func TestLoadConfigReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "PORT=9090\nDB_NAME=yamdb_test\nCORS_ORIGINS=http://a.test, http://b.test\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "yamdb_test", cfg.Database.Name)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, 6, cfg.Confirmation.Length)
}

func TestLoadConfigWithoutFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "8080", cfg.App.Port)
}
