package store_test

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/acrelle/dataproc/internal/store"
	"github.com/stretchr/testify/assert"
)

// Compile-time checks that both halves of database/sql satisfy DBTX.
var (
	_ store.DBTX = (*sql.DB)(nil)
	_ store.DBTX = (*sql.Tx)(nil)
)

// TestErrorDefinitions ensures that the error definitions in the store
// package are defined as expected and can be used with errors.Is.
func TestErrorDefinitions(t *testing.T) {
	t.Parallel()

	// Create functions that return the standard errors
	// This simulates how store implementations might return these errors
	recordNotFoundFn := func() error {
		return store.ErrOperationRecordNotFound
	}

	recordIDExistsFn := func() error {
		return store.ErrRecordIDExists
	}

	t.Run("ErrOperationRecordNotFound", func(t *testing.T) {
		t.Parallel()

		err := recordNotFoundFn()

		// Verify it can be detected with errors.Is, both directly and
		// through its generic parent
		assert.True(t, errors.Is(err, store.ErrOperationRecordNotFound))
		assert.True(t, errors.Is(err, store.ErrNotFound))
		assert.False(t, errors.Is(err, store.ErrRecordIDExists))

		// Verify the error message
		assert.Equal(t, "entity not found: operation record", err.Error())
	})

	t.Run("ErrRecordIDExists", func(t *testing.T) {
		t.Parallel()

		err := recordIDExistsFn()

		assert.True(t, errors.Is(err, store.ErrRecordIDExists))
		assert.True(t, errors.Is(err, store.ErrDuplicate))
		assert.False(t, errors.Is(err, store.ErrOperationRecordNotFound))

		// Verify the error message
		assert.Equal(t, "entity already exists: record id", err.Error())
	})
}
