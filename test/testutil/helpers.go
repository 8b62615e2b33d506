// Package testutil provides test helper functions for unit and integration tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/shopspring/decimal"
)

// ProjectRoot returns the repository root, resolved from this file's location.
func ProjectRoot(t *testing.T) string {
	t.Helper()

	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// testutil is in test/testutil
	return filepath.Join(filepath.Dir(currentFile), "..", "..")
}

// MockPath returns the absolute path of a file in docs/response-mock.
func MockPath(t *testing.T, filename string) string {
	t.Helper()
	return filepath.Join(ProjectRoot(t), "docs", "response-mock", filename)
}

// LoadMockJSON loads a JSON file from the docs/response-mock directory.
func LoadMockJSON(t *testing.T, filename string) []byte {
	t.Helper()

	data, err := os.ReadFile(MockPath(t, filename))
	if err != nil {
		t.Fatalf("Failed to load mock file %s: %v", filename, err)
	}
	return data
}

// MustDecimal parses a decimal amount, failing the test on error.
func MustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("Failed to parse amount %s: %v", s, err)
	}
	return d
}
