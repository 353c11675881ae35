package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"eventmgt/internal/domain"
)

const eventColumns = `e.id, e.pid, e.title, e.teaser, e.description, e.program, e.link, e.top_event,
		       e.startdate, e.enddate, e.hidden, e.starttime, e.endtime,
		       e.enable_registration, e.registration_deadline, e.max_participants, e.max_registrations_per_user,
		       e.enable_waitlist, e.enable_waitlist_moveup, e.enable_cancel, e.cancel_deadline, e.enable_autoconfirm,
		       e.unique_email_check, e.notify_admin, e.notify_organisator, e.price, e.currency,
		       e.location_id, e.organisator_id, e.created_at, e.updated_at`

type eventRepository struct {
	DB         *sql.DB
	categories domain.CategoryExpander
}

// NewEventRepository returns an event repository. categories expands category
// constraints with subcategories; when nil, demanded categories are used as given.
func NewEventRepository(db *sql.DB, categories domain.CategoryExpander) domain.EventRepository {
	return &eventRepository{
		DB:         db,
		categories: categories,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(s rowScanner) (*domain.Event, error) {
	e := &domain.Event{CategoryIDs: []int64{}, SpeakerIDs: []int64{}}
	var endDate, startTime, endTime, regDeadline, cancelDeadline sql.NullTime
	var locationID, organisatorID sql.NullInt64
	err := s.Scan(
		&e.ID, &e.StoragePage, &e.Title, &e.Teaser, &e.Description, &e.Program, &e.Link, &e.TopEvent,
		&e.StartDate, &endDate, &e.Hidden, &startTime, &endTime,
		&e.EnableRegistration, &regDeadline, &e.MaxParticipants, &e.MaxRegistrationsPerUser,
		&e.EnableWaitlist, &e.EnableWaitlistMoveUp, &e.EnableCancel, &cancelDeadline, &e.EnableAutoconfirm,
		&e.UniqueEmailCheck, &e.NotifyAdmin, &e.NotifyOrganisator, &e.Price, &e.Currency,
		&locationID, &organisatorID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.EndDate = timePtr(endDate)
	e.StartTime = timePtr(startTime)
	e.EndTime = timePtr(endTime)
	e.RegistrationDeadline = timePtr(regDeadline)
	e.CancelDeadline = timePtr(cancelDeadline)
	e.LocationID = int64Ptr(locationID)
	e.OrganisatorID = int64Ptr(organisatorID)
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO events (pid, title, teaser, description, program, link, top_event,
			startdate, enddate, hidden, starttime, endtime,
			enable_registration, registration_deadline, max_participants, max_registrations_per_user,
			enable_waitlist, enable_waitlist_moveup, enable_cancel, cancel_deadline, enable_autoconfirm,
			unique_email_check, notify_admin, notify_organisator, price, currency,
			location_id, organisator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query,
		e.StoragePage, e.Title, e.Teaser, e.Description, e.Program, e.Link, e.TopEvent,
		e.StartDate, e.EndDate, e.Hidden, e.StartTime, e.EndTime,
		e.EnableRegistration, e.RegistrationDeadline, e.MaxParticipants, e.MaxRegistrationsPerUser,
		e.EnableWaitlist, e.EnableWaitlistMoveUp, e.EnableCancel, e.CancelDeadline, e.EnableAutoconfirm,
		e.UniqueEmailCheck, e.NotifyAdmin, e.NotifyOrganisator, e.Price, e.Currency,
		e.LocationID, e.OrganisatorID, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		return mapForeignKeyError(err)
	}
	if err := replaceEventLinks(ctx, tx, e); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		UPDATE events SET pid = $1, title = $2, teaser = $3, description = $4, program = $5, link = $6, top_event = $7,
			startdate = $8, enddate = $9, hidden = $10, starttime = $11, endtime = $12,
			enable_registration = $13, registration_deadline = $14, max_participants = $15, max_registrations_per_user = $16,
			enable_waitlist = $17, enable_waitlist_moveup = $18, enable_cancel = $19, cancel_deadline = $20, enable_autoconfirm = $21,
			unique_email_check = $22, notify_admin = $23, notify_organisator = $24, price = $25, currency = $26,
			location_id = $27, organisator_id = $28, updated_at = $29
		WHERE id = $30
	`
	res, err := tx.ExecContext(ctx, query,
		e.StoragePage, e.Title, e.Teaser, e.Description, e.Program, e.Link, e.TopEvent,
		e.StartDate, e.EndDate, e.Hidden, e.StartTime, e.EndTime,
		e.EnableRegistration, e.RegistrationDeadline, e.MaxParticipants, e.MaxRegistrationsPerUser,
		e.EnableWaitlist, e.EnableWaitlistMoveUp, e.EnableCancel, e.CancelDeadline, e.EnableAutoconfirm,
		e.UniqueEmailCheck, e.NotifyAdmin, e.NotifyOrganisator, e.Price, e.Currency,
		e.LocationID, e.OrganisatorID, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return mapForeignKeyError(err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	if err := replaceEventLinks(ctx, tx, e); err != nil {
		return err
	}
	return tx.Commit()
}

// replaceEventLinks rewrites the category and speaker links of e.
func replaceEventLinks(ctx context.Context, tx *sql.Tx, e *domain.Event) error {
	links := []struct {
		table, column string
		ids           []int64
	}{
		{"event_categories", "category_id", e.CategoryIDs},
		{"event_speakers", "speaker_id", e.SpeakerIDs},
	}
	for _, l := range links {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+l.table+" WHERE event_id = $1", e.ID); err != nil {
			return fmt.Errorf("clear %s: %w", l.table, err)
		}
		if len(l.ids) == 0 {
			continue
		}
		query := "INSERT INTO " + l.table + " (event_id, " + l.column + ") SELECT $1, UNNEST($2::bigint[]) ON CONFLICT DO NOTHING"
		if _, err := tx.ExecContext(ctx, query, e.ID, pq.Array(l.ids)); err != nil {
			return fmt.Errorf("link %s: %w", l.table, mapForeignKeyError(err))
		}
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		WHERE e.id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadLinks(ctx, []*domain.Event{e}); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) FindDemanded(ctx context.Context, d *domain.EventDemand) ([]*domain.Event, error) {
	q, err := buildDemandQuery(ctx, d, r.categories)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT ` + eventColumns + eventFrom + q.whereClause() + `
		ORDER BY ` + q.orderBy
	if d.QueryLimit > 0 {
		query += "\n\t\tLIMIT " + q.arg(d.QueryLimit)
	}
	if d.Offset > 0 {
		query += "\n\t\tOFFSET " + q.arg(d.Offset)
	}

	rows, err := r.DB.QueryContext(ctx, query, q.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadLinks(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) CountDemanded(ctx context.Context, d *domain.EventDemand) (int, error) {
	q, err := buildDemandQuery(ctx, d, r.categories)
	if err != nil {
		return 0, err
	}
	query := `
		SELECT COUNT(*)` + eventFrom + q.whereClause()
	var n int
	if err := r.DB.QueryRowContext(ctx, query, q.args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// loadLinks fills CategoryIDs and SpeakerIDs of events with two batched queries.
func (r *eventRepository) loadLinks(ctx context.Context, events []*domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	byID := make(map[int64]*domain.Event, len(events))
	ids := make([]int64, 0, len(events))
	for _, e := range events {
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT event_id, category_id FROM event_categories
		WHERE event_id = ANY($1)
		ORDER BY event_id, category_id
	`, pq.Array(ids))
	if err != nil {
		return err
	}
	err = scanLinks(rows, func(eventID, id int64) {
		byID[eventID].CategoryIDs = append(byID[eventID].CategoryIDs, id)
	})
	if err != nil {
		return err
	}

	rows, err = r.DB.QueryContext(ctx, `
		SELECT event_id, speaker_id FROM event_speakers
		WHERE event_id = ANY($1)
		ORDER BY event_id, speaker_id
	`, pq.Array(ids))
	if err != nil {
		return err
	}
	return scanLinks(rows, func(eventID, id int64) {
		byID[eventID].SpeakerIDs = append(byID[eventID].SpeakerIDs, id)
	})
}

func scanLinks(rows *sql.Rows, add func(eventID, id int64)) error {
	defer rows.Close()
	for rows.Next() {
		var eventID, id int64
		if err := rows.Scan(&eventID, &id); err != nil {
			return err
		}
		add(eventID, id)
	}
	return rows.Err()
}
