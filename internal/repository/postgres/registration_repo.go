package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eventmgt/internal/domain"
)

const registrationColumns = `id, event_id, main_registration_id, firstname, lastname, email, company,
		       address, zip, city, country, phone, gender, date_of_birth, accept_tc, notes,
		       confirmed, paid, waitlist, hidden, amount_of_registrations, confirmation_until,
		       created_at, updated_at`

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

func scanRegistration(s rowScanner) (*domain.Registration, error) {
	reg := &domain.Registration{}
	var mainID sql.NullInt64
	var dateOfBirth, confirmationUntil sql.NullTime
	err := s.Scan(
		&reg.ID, &reg.EventID, &mainID, &reg.Firstname, &reg.Lastname, &reg.Email, &reg.Company,
		&reg.Address, &reg.Zip, &reg.City, &reg.Country, &reg.Phone, &reg.Gender, &dateOfBirth, &reg.AcceptTC, &reg.Notes,
		&reg.Confirmed, &reg.Paid, &reg.Waitlist, &reg.Hidden, &reg.AmountOfRegistrations, &confirmationUntil,
		&reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	reg.MainRegistrationID = int64Ptr(mainID)
	reg.DateOfBirth = timePtr(dateOfBirth)
	reg.ConfirmationUntil = timePtr(confirmationUntil)
	return reg, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertRegistration(ctx context.Context, q queryRower, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (event_id, main_registration_id, firstname, lastname, email, company,
			address, zip, city, country, phone, gender, date_of_birth, accept_tc, notes,
			confirmed, paid, waitlist, hidden, amount_of_registrations, confirmation_until,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING id
	`
	err := q.QueryRowContext(ctx, query,
		reg.EventID, reg.MainRegistrationID, reg.Firstname, reg.Lastname, reg.Email, reg.Company,
		reg.Address, reg.Zip, reg.City, reg.Country, reg.Phone, reg.Gender, reg.DateOfBirth, reg.AcceptTC, reg.Notes,
		reg.Confirmed, reg.Paid, reg.Waitlist, reg.Hidden, reg.AmountOfRegistrations, reg.ConfirmationUntil,
		reg.CreatedAt, reg.UpdatedAt,
	).Scan(&reg.ID)
	return mapForeignKeyError(err)
}

// CreateWithDependents locks the event row, hands the active count to admit
// and, if admit accepts, stores reg with its field values and one dependent
// registration per additional seat. Nothing is written when any step fails.
func (r *registrationRepository) CreateWithDependents(ctx context.Context, reg *domain.Registration, values []*domain.FieldValue, admit func(active int) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var locked int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, reg.EventID).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	active, err := countActive(ctx, tx, reg.EventID)
	if err != nil {
		return err
	}
	if admit != nil {
		if err := admit(active); err != nil {
			return err
		}
	}

	if err := insertRegistration(ctx, tx, reg); err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	valueQuery := `
		INSERT INTO registration_field_values (registration_id, field_id, value, value_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	for _, v := range values {
		v.RegistrationID = reg.ID
		if err := tx.QueryRowContext(ctx, valueQuery, reg.ID, v.FieldID, v.Value, v.ValueType).Scan(&v.ID); err != nil {
			return fmt.Errorf("insert field value %d: %w", v.FieldID, mapForeignKeyError(err))
		}
	}
	for i := 1; i < reg.AmountOfRegistrations; i++ {
		dep := *reg
		dep.ID = 0
		dep.MainRegistrationID = &reg.ID
		dep.AmountOfRegistrations = 1
		dep.FieldValues = nil
		if err := insertRegistration(ctx, tx, &dep); err != nil {
			return fmt.Errorf("insert dependent registration: %w", err)
		}
	}
	return tx.Commit()
}

func (r *registrationRepository) Update(ctx context.Context, reg *domain.Registration) error {
	query := `
		UPDATE registrations SET firstname = $1, lastname = $2, email = $3, company = $4,
			address = $5, zip = $6, city = $7, country = $8, phone = $9, gender = $10, date_of_birth = $11,
			accept_tc = $12, notes = $13, confirmed = $14, paid = $15, waitlist = $16, hidden = $17,
			amount_of_registrations = $18, confirmation_until = $19, updated_at = $20
		WHERE id = $21
	`
	res, err := r.DB.ExecContext(ctx, query,
		reg.Firstname, reg.Lastname, reg.Email, reg.Company,
		reg.Address, reg.Zip, reg.City, reg.Country, reg.Phone, reg.Gender, reg.DateOfBirth,
		reg.AcceptTC, reg.Notes, reg.Confirmed, reg.Paid, reg.Waitlist, reg.Hidden,
		reg.AmountOfRegistrations, reg.ConfirmationUntil, reg.UpdatedAt, reg.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *registrationRepository) GetByID(ctx context.Context, id int64) (*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE id = $1
	`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

// Delete removes the registration, its dependent registrations and, through
// cascading foreign keys, their field values.
func (r *registrationRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1 OR main_registration_id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *registrationRepository) ListByEventID(ctx context.Context, eventID int64) ([]*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE event_id = $1
		ORDER BY created_at, id
	`
	return r.list(ctx, query, eventID)
}

func (r *registrationRepository) ListDependent(ctx context.Context, mainID int64) ([]*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE main_registration_id = $1
		ORDER BY id
	`
	return r.list(ctx, query, mainID)
}

func (r *registrationRepository) CountActive(ctx context.Context, eventID int64) (int, error) {
	return countActive(ctx, r.DB, eventID)
}

func countActive(ctx context.Context, q queryRower, eventID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM registrations
		WHERE event_id = $1 AND waitlist = false AND hidden = false
	`
	var n int
	err := q.QueryRowContext(ctx, query, eventID).Scan(&n)
	return n, err
}

func (r *registrationRepository) CountByEmail(ctx context.Context, eventID int64, email string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM registrations
		WHERE event_id = $1 AND LOWER(email) = LOWER($2) AND hidden = false
	`
	var n int
	err := r.DB.QueryRowContext(ctx, query, eventID, email).Scan(&n)
	return n, err
}

func (r *registrationRepository) ListWaitlist(ctx context.Context, eventID int64) ([]*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE event_id = $1 AND waitlist = true AND hidden = false AND main_registration_id IS NULL
		ORDER BY created_at, id
	`
	return r.list(ctx, query, eventID)
}

func (r *registrationRepository) ListExpiredUnconfirmed(ctx context.Context, now time.Time) ([]*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE confirmed = false AND hidden = false AND main_registration_id IS NULL
		  AND confirmation_until IS NOT NULL AND confirmation_until < $1
		ORDER BY id
	`
	return r.list(ctx, query, now)
}

func (r *registrationRepository) ListFieldValues(ctx context.Context, registrationID int64) ([]*domain.FieldValue, error) {
	query := `
		SELECT id, registration_id, field_id, value, value_type
		FROM registration_field_values
		WHERE registration_id = $1
		ORDER BY field_id
	`
	rows, err := r.DB.QueryContext(ctx, query, registrationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	values := make([]*domain.FieldValue, 0)
	for rows.Next() {
		v := &domain.FieldValue{}
		if err := rows.Scan(&v.ID, &v.RegistrationID, &v.FieldID, &v.Value, &v.ValueType); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (r *registrationRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Registration, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}
