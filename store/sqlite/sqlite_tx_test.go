package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/plotdesk/commission-engine/commission"
	"github.com/plotdesk/commission-engine/store/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TRANSACTION BOUNDARIES - driven through sqlmock
// =============================================================================

func newMockStore(t *testing.T) (*sqlite.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlite.NewWithDB(db), mock
}

func TestStore_SaveRollsBackOnChildFailure(t *testing.T) {
	// GIVEN: The parent insert succeeds but a Sr. GM row is refused
	// WHEN: Saving
	// THEN: The transaction is rolled back and a StorageError is returned

	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO commissions ").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO commission_srgm_entries").WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	_, err := store.Save(context.Background(), commission.NewDraft(sale("42", entry("Ravi", "50")), "admin"))

	require.Error(t, err)
	assert.True(t, commission.IsStorage(err))
	var se *commission.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "save", se.Op)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_UpdateRollsBackOnChildFailure(t *testing.T) {
	// GIVEN: The parent update succeeds but clearing DGM rows fails
	// THEN: Nothing is committed

	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE commissions SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM commission_srgm_entries").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM commission_gm_entries").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM commission_dgm_entries").WillReturnError(errors.New("database is locked"))
	mock.ExpectRollback()

	err := store.Update(context.Background(), 1, commission.NewDraft(sale("42", entry("Ravi", "50")), "editor"))

	assert.True(t, commission.IsStorage(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_UpdateMissingRowWritesNothing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE commissions SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.Update(context.Background(), 7, commission.NewDraft(sale("42"), "editor"))

	assert.ErrorIs(t, err, commission.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_UpdateCommitsReplacement(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE commissions SET").WillReturnResult(sqlmock.NewResult(0, 1))
	for _, table := range []string{"srgm", "gm", "dgm", "agm"} {
		mock.ExpectExec("DELETE FROM commission_" + table + "_entries").
			WithArgs(int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec("INSERT INTO commission_srgm_entries").
		WithArgs(int64(3), "Ravi", "10000", "2500", "7500").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO commission_gm_entries").
		WithArgs(int64(3), "Meena", "6000", "1500", "4500").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err := store.Update(context.Background(), 3, commission.NewDraft(sale("42", entry("Ravi", "50")), "editor"))

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
