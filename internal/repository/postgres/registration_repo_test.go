package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"eventmgt/internal/domain"
)

var registrationColumnNames = []string{
	"id", "event_id", "main_registration_id", "firstname", "lastname", "email", "company",
	"address", "zip", "city", "country", "phone", "gender", "date_of_birth", "accept_tc", "notes",
	"confirmed", "paid", "waitlist", "hidden", "amount_of_registrations", "confirmation_until",
	"created_at", "updated_at",
}

func registrationRowValues(id int64, mainID any, confirmed bool) []driver.Value {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return []driver.Value{
		id, int64(1), mainID, "Ada", "Lovelace", "ada@example.com", "",
		"", "", "", "", "", "", nil, true, "",
		confirmed, false, false, false, int64(1), created.Add(time.Hour),
		created, created,
	}
}

func TestRegistrationRepository_CreateWithDependents(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	newReg := func() *domain.Registration {
		reg := domain.NewRegistration(1, "Ada", "Lovelace", "ada@example.com", created, created)
		reg.AmountOfRegistrations = 2
		reg.Confirmed = true
		return reg
	}
	mainArgs := func(waitlist bool) []driver.Value {
		return []driver.Value{int64(1), nil, "Ada", "Lovelace", "ada@example.com", "",
			"", "", "", "", "", "", nil, false, "",
			true, false, waitlist, false, 2, nil,
			created, created}
	}
	depArgs := []driver.Value{int64(1), int64(5), "Ada", "Lovelace", "ada@example.com", "",
		"", "", "", "", "", "", nil, false, "",
		true, false, true, false, 1, nil,
		created, created}

	expectLockAndCount := func(mock sqlmock.Sqlmock, active int) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM events WHERE id = \$1 FOR UPDATE`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectQuery(`SELECT COUNT\(\*\)\s+FROM registrations\s+WHERE event_id = \$1 AND waitlist = false AND hidden = false`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(active))
	}

	t.Run("commits main, field values and dependents", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		expectLockAndCount(mock, 9)
		mock.ExpectQuery(`INSERT INTO registrations \(event_id, main_registration_id`).
			WithArgs(mainArgs(true)...).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
		mock.ExpectQuery(`INSERT INTO registration_field_values`).
			WithArgs(int64(5), int64(1), "yes", "string").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(100)))
		mock.ExpectQuery(`INSERT INTO registration_field_values`).
			WithArgs(int64(5), int64(2), `["a","b"]`, "array").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(101)))
		mock.ExpectQuery(`INSERT INTO registrations \(event_id, main_registration_id`).
			WithArgs(depArgs...).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(6)))
		mock.ExpectCommit()

		reg := newReg()
		values := []*domain.FieldValue{
			{FieldID: 1, Value: "yes", ValueType: domain.FieldValueTypeString},
			{FieldID: 2, Value: `["a","b"]`, ValueType: domain.FieldValueTypeArray},
		}
		var seen int
		err = NewRegistrationRepository(db).CreateWithDependents(context.Background(), reg, values, func(active int) error {
			seen = active
			reg.Waitlist = true
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 9, seen)
		require.Equal(t, int64(5), reg.ID)
		require.Equal(t, int64(100), values[0].ID)
		require.Equal(t, int64(5), values[1].RegistrationID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed dependent insert rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		expectLockAndCount(mock, 0)
		mock.ExpectQuery(`INSERT INTO registrations \(event_id, main_registration_id`).
			WithArgs(mainArgs(false)...).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
		mock.ExpectQuery(`INSERT INTO registrations \(event_id, main_registration_id`).
			WillReturnError(errors.New("db down"))
		mock.ExpectRollback()

		err = NewRegistrationRepository(db).CreateWithDependents(context.Background(), newReg(), nil, nil)
		require.ErrorContains(t, err, "insert dependent registration: db down")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejected by admit writes nothing", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		expectLockAndCount(mock, 3)
		mock.ExpectRollback()

		rejected := &domain.RegistrationRejectedError{Result: domain.RegistrationResultMaxParticipants}
		err = NewRegistrationRepository(db).CreateWithDependents(context.Background(), newReg(), nil, func(int) error {
			return rejected
		})
		require.ErrorIs(t, err, rejected)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown event", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err = NewRegistrationRepository(db).CreateWithDependents(context.Background(), newReg(), nil, nil)
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRegistrationRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM registrations\s+WHERE id = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(registrationColumnNames).AddRow(registrationRowValues(2, int64(1), true)...))

	got, err := NewRegistrationRepository(db).GetByID(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, "Ada Lovelace", got.FullName())
	require.NotNil(t, got.MainRegistrationID)
	require.Equal(t, int64(1), *got.MainRegistrationID)
	require.Nil(t, got.DateOfBirth)
	require.NotNil(t, got.ConfirmationUntil)
	require.True(t, got.Confirmed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_Delete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "removes dependents", affected: 3},
		{name: "not found", affected: 0, wantErr: domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectExec(`DELETE FROM registrations WHERE id = \$1 OR main_registration_id = \$1`).
				WithArgs(int64(9)).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err = NewRegistrationRepository(db).Delete(context.Background(), 9)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegistrationRepository_CountActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\)\s+FROM registrations\s+WHERE event_id = \$1 AND waitlist = false AND hidden = false`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := NewRegistrationRepository(db).CountActive(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_ListExpiredUnconfirmed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`confirmation_until < \$1`).
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows(registrationColumnNames).
			AddRow(registrationRowValues(1, nil, false)...).
			AddRow(registrationRowValues(3, nil, false)...))

	got, err := NewRegistrationRepository(db).ListExpiredUnconfirmed(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Nil(t, got[0].MainRegistrationID)
	require.NoError(t, mock.ExpectationsWereMet())
}
