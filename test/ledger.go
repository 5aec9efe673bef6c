package test

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

// LedgerFile returns a path for a SQLite ledger that is removed with the test.
//
// Every call returns a new path, so each test migrates its own ledger.
func LedgerFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "reckon-"+uuid.NewString()+".db")
}
