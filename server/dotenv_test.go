// ABOUTME: Tests for the .env loader: plain and quoted values, comments, export prefix, and no-clobber.
package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// unsetForTest clears key for the duration of the test and restores it after.
func unsetForTest(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadDotEnv_SetsVariables(t *testing.T) {
	unsetForTest(t, "KANBAN_TEST_A")
	unsetForTest(t, "KANBAN_TEST_B")
	path := writeTempEnv(t, "KANBAN_TEST_A=hello\nexport KANBAN_TEST_B = world\n")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "hello", os.Getenv("KANBAN_TEST_A"))
	assert.Equal(t, "world", os.Getenv("KANBAN_TEST_B"))
}

func TestLoadDotEnv_QuotedValues(t *testing.T) {
	unsetForTest(t, "KANBAN_TEST_D")
	unsetForTest(t, "KANBAN_TEST_S")
	path := writeTempEnv(t, "KANBAN_TEST_D=\"double quoted\"\nKANBAN_TEST_S='single quoted'\n")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "double quoted", os.Getenv("KANBAN_TEST_D"))
	assert.Equal(t, "single quoted", os.Getenv("KANBAN_TEST_S"))
}

func TestLoadDotEnv_DoesNotOverrideExisting(t *testing.T) {
	t.Setenv("KANBAN_TEST_KEEP", "from-env")
	path := writeTempEnv(t, "KANBAN_TEST_KEEP=from-file\n")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-env", os.Getenv("KANBAN_TEST_KEEP"))
}

func TestLoadDotEnv_CommentsAndMalformedLines(t *testing.T) {
	unsetForTest(t, "KANBAN_TEST_C")
	path := writeTempEnv(t, "# comment\n\nnot a pair\n=novalue\nKANBAN_TEST_C=ok\n")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "ok", os.Getenv("KANBAN_TEST_C"))
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
}

func TestParseDotEnvLine(t *testing.T) {
	cases := []struct {
		line, key, value string
		ok               bool
	}{
		{"A=1", "A", "1", true},
		{"  A = 1  ", "A", "1", true},
		{"A=", "A", "", true},
		{`A="x=y"`, "A", "x=y", true},
		{`A="`, "A", `"`, true},
		{"# A=1", "", "", false},
		{"", "", "", false},
		{"novalue", "", "", false},
	}
	for _, tc := range cases {
		key, value, ok := parseDotEnvLine(tc.line)
		assert.Equal(t, tc.ok, ok, "line %q", tc.line)
		assert.Equal(t, tc.key, key, "line %q", tc.line)
		assert.Equal(t, tc.value, value, "line %q", tc.line)
	}
}
