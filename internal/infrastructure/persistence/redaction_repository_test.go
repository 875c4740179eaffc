package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopassist/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockRedactionRepository creates a GormRedactionRepository with a mocked SQL connection
func newMockRedactionRepository(t *testing.T) (*GormRedactionRepository, sqlmock.Sqlmock, *sql.DB) {
	mdb := testutil.NewMockDB(t)
	return NewGormRedactionRepository(&Database{DB: mdb.DB}), mdb.Mock, mdb.SqlDB
}

func TestGormRedactionRepository_DeleteCustomerData(t *testing.T) {
	t.Run("cascades messages, sessions, then profiles in one transaction", func(t *testing.T) {
		repo, mock, mockDB := newMockRedactionRepository(t)
		defer mockDB.Close()

		profileID := uuid.New()
		sessionA := uuid.New()
		sessionB := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT "id" FROM "user_profiles" WHERE shop = \$1 AND customer_id = \$2`).
			WithArgs("demo.example", "42").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(profileID))
		mock.ExpectQuery(`SELECT "id" FROM "chat_sessions" WHERE user_profile_id IN \(\$1\)`).
			WithArgs(profileID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(sessionA).AddRow(sessionB))
		mock.ExpectExec(`DELETE FROM "chat_messages" WHERE session_id IN \(\$1,\$2\)`).
			WithArgs(sessionA, sessionB).
			WillReturnResult(sqlmock.NewResult(0, 7))
		mock.ExpectExec(`DELETE FROM "chat_sessions" WHERE id IN \(\$1,\$2\)`).
			WithArgs(sessionA, sessionB).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM "user_profiles" WHERE id IN \(\$1\)`).
			WithArgs(profileID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		result, err := repo.DeleteCustomerData(context.Background(), "demo.example", "42")

		require.NoError(t, err)
		assert.Equal(t, int64(1), result.ProfilesDeleted)
		assert.Equal(t, int64(2), result.SessionsDeleted)
		assert.Equal(t, int64(7), result.MessagesDeleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero matching profiles succeeds with zero deletions", func(t *testing.T) {
		repo, mock, mockDB := newMockRedactionRepository(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT "id" FROM "user_profiles" WHERE shop = \$1 AND customer_id = \$2`).
			WithArgs("demo.example", "42").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectCommit()

		result, err := repo.DeleteCustomerData(context.Background(), "demo.example", "42")

		require.NoError(t, err)
		assert.Equal(t, int64(0), result.ProfilesDeleted)
		assert.Equal(t, int64(0), result.SessionsDeleted)
		assert.Equal(t, int64(0), result.MessagesDeleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back everything when the message delete fails", func(t *testing.T) {
		repo, mock, mockDB := newMockRedactionRepository(t)
		defer mockDB.Close()

		profileID := uuid.New()
		sessionID := uuid.New()
		boom := errors.New("deadlock detected")

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT "id" FROM "user_profiles" WHERE shop = \$1 AND customer_id = \$2`).
			WithArgs("demo.example", "42").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(profileID))
		mock.ExpectQuery(`SELECT "id" FROM "chat_sessions" WHERE user_profile_id IN \(\$1\)`).
			WithArgs(profileID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(sessionID))
		mock.ExpectExec(`DELETE FROM "chat_messages" WHERE session_id IN \(\$1\)`).
			WithArgs(sessionID).
			WillReturnError(boom)
		mock.ExpectRollback()

		result, err := repo.DeleteCustomerData(context.Background(), "demo.example", "42")

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, int64(0), result.ProfilesDeleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back sessions and profiles when the session delete fails", func(t *testing.T) {
		repo, mock, mockDB := newMockRedactionRepository(t)
		defer mockDB.Close()

		profileID := uuid.New()
		sessionID := uuid.New()
		boom := errors.New("connection reset")

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT "id" FROM "user_profiles" WHERE shop = \$1 AND customer_id = \$2`).
			WithArgs("demo.example", "42").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(profileID))
		mock.ExpectQuery(`SELECT "id" FROM "chat_sessions" WHERE user_profile_id IN \(\$1\)`).
			WithArgs(profileID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(sessionID))
		mock.ExpectExec(`DELETE FROM "chat_messages" WHERE session_id IN \(\$1\)`).
			WithArgs(sessionID).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(`DELETE FROM "chat_sessions" WHERE id IN \(\$1\)`).
			WithArgs(sessionID).
			WillReturnError(boom)
		mock.ExpectRollback()

		_, err := repo.DeleteCustomerData(context.Background(), "demo.example", "42")

		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormRedactionRepository_DeleteShopData(t *testing.T) {
	t.Run("cascades every profile for the shop", func(t *testing.T) {
		repo, mock, mockDB := newMockRedactionRepository(t)
		defer mockDB.Close()

		profileA := uuid.New()
		profileB := uuid.New()
		sessionID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT "id" FROM "user_profiles" WHERE shop = \$1`).
			WithArgs("demo.example").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(profileA).AddRow(profileB))
		mock.ExpectQuery(`SELECT "id" FROM "chat_sessions" WHERE user_profile_id IN \(\$1,\$2\)`).
			WithArgs(profileA, profileB).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(sessionID))
		mock.ExpectExec(`DELETE FROM "chat_messages" WHERE session_id IN \(\$1\)`).
			WithArgs(sessionID).
			WillReturnResult(sqlmock.NewResult(0, 4))
		mock.ExpectExec(`DELETE FROM "chat_sessions" WHERE id IN \(\$1\)`).
			WithArgs(sessionID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "user_profiles" WHERE id IN \(\$1,\$2\)`).
			WithArgs(profileA, profileB).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		result, err := repo.DeleteShopData(context.Background(), "demo.example")

		require.NoError(t, err)
		assert.Equal(t, int64(2), result.ProfilesDeleted)
		assert.Equal(t, int64(1), result.SessionsDeleted)
		assert.Equal(t, int64(4), result.MessagesDeleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
