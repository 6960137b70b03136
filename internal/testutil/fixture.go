package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleDump is a short pg_dump excerpt containing one line that
// PostgreSQL 9.6 rejects.
const SampleDump = `CREATE SEQUENCE public.users_id_seq
    AS integer
    START WITH 1
    INCREMENT BY 1;
`

// WriteFile writes content to name inside a fresh temp dir and returns the
// full path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// ReadFile returns the content of path, failing the test on error.
func ReadFile(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // test fixture path
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
