package postgres

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"eventmgt/internal/domain"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

func timePtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func isPQCode(err error, code string) bool {
	var perr *pq.Error
	return errors.As(err, &perr) && string(perr.Code) == code
}

// mapForeignKeyError reports references to missing rows as invalid input.
func mapForeignKeyError(err error) error {
	if isPQCode(err, pqForeignKeyViolation) {
		return &domain.ValidationError{Messages: []string{"referenced record does not exist"}}
	}
	return err
}

// requireAffected returns domain.ErrNotFound when res affected no rows.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
