package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"atsumeru/internal/model"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrResponseNotFound = errors.New("response not found")
)

type Repository interface {
	CreateEvent(ctx context.Context, e *model.Event) error
	GetEventByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	UpdateEventSettings(ctx context.Context, id uuid.UUID, s model.EventSettings) (*model.Event, error)
	GetEventsByOwnerTokens(ctx context.Context, tokens []string) ([]model.Event, error)
	CreateResponse(ctx context.Context, r *model.Response) error
	GetResponse(ctx context.Context, eventID, id uuid.UUID) (*model.Response, error)
	GetResponsesByEventID(ctx context.Context, eventID uuid.UUID) ([]model.Response, error)
	UpdateResponse(ctx context.Context, eventID, id uuid.UUID, p model.ResponsePatch) (*model.Response, error)
	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
}

// Querier is satisfied by *dbpg.DB and *sql.DB.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type repository struct {
	db  Querier
	log *zerolog.Logger
}

func NewRepository(db Querier, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	return &repository{db: db, log: log}, nil
}

func (r *repository) MigrateUp(migrationsDir string) error {
	return r.runMigrations(migrationsDir, "*.up.sql", false)
}

func (r *repository) MigrateDown(migrationsDir string) error {
	return r.runMigrations(migrationsDir, "*.down.sql", true)
}

func (r *repository) runMigrations(migrationsDir, pattern string, reverse bool) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, pattern))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}
	sort.Strings(files)
	if reverse {
		sort.Sort(sort.Reverse(sort.StringSlice(files)))
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	r.log.Info().Int("files", len(files)).Msgf("Migrations %s applied from %s", pattern, migrationsDir)
	return nil
}

const eventColumns = `id, title, date, place, note, collecting, amount, pay_url, notify_email, owner_token, created_at`

const responseColumns = `id, event_id, name, rsvp, paid, paid_at, edit_token, created_at, updated_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row scanner) (*model.Event, error) {
	var e model.Event
	if err := row.Scan(
		&e.ID, &e.Title, &e.Date, &e.Place, &e.Note, &e.Collecting,
		&e.Amount, &e.PayURL, &e.NotifyEmail, &e.OwnerToken, &e.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

func scanResponse(row scanner) (*model.Response, error) {
	var resp model.Response
	if err := row.Scan(
		&resp.ID, &resp.EventID, &resp.Name, &resp.RSVP, &resp.Paid,
		&resp.PaidAt, &resp.EditToken, &resp.CreatedAt, &resp.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *repository) CreateEvent(ctx context.Context, e *model.Event) error {
	query := `
		INSERT INTO events (id, title, date, place, note, collecting, amount, pay_url, notify_email, owner_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	if _, err := r.db.ExecContext(ctx, query,
		e.ID, e.Title, e.Date, e.Place, e.Note, e.Collecting, e.Amount, e.PayURL, e.NotifyEmail, e.OwnerToken, e.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

func (r *repository) GetEventByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

func (r *repository) UpdateEventSettings(ctx context.Context, id uuid.UUID, s model.EventSettings) (*model.Event, error) {
	query := `
		UPDATE events
		SET collecting = $1, amount = $2, pay_url = $3
		WHERE id = $4
		RETURNING ` + eventColumns

	e, err := scanEvent(r.db.QueryRowContext(ctx, query, s.Collecting, s.Amount, s.PayURL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to update event settings: %w", err)
	}
	return e, nil
}

func (r *repository) GetEventsByOwnerTokens(ctx context.Context, tokens []string) ([]model.Event, error) {
	if len(tokens) == 0 {
		return []model.Event{}, nil
	}

	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE owner_token = ANY($1)
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(tokens))
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	events := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}

func (r *repository) CreateResponse(ctx context.Context, resp *model.Response) error {
	query := `
		INSERT INTO responses (id, event_id, name, rsvp, paid, paid_at, edit_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if _, err := r.db.ExecContext(ctx, query,
		resp.ID, resp.EventID, resp.Name, resp.RSVP, resp.Paid, resp.PaidAt, resp.EditToken, resp.CreatedAt, resp.UpdatedAt,
	); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to insert response: %w", err)
	}
	return nil
}

func (r *repository) GetResponse(ctx context.Context, eventID, id uuid.UUID) (*model.Response, error) {
	query := `SELECT ` + responseColumns + ` FROM responses WHERE id = $1 AND event_id = $2`

	resp, err := scanResponse(r.db.QueryRowContext(ctx, query, id, eventID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResponseNotFound
		}
		return nil, fmt.Errorf("failed to get response: %w", err)
	}
	return resp, nil
}

func (r *repository) GetResponsesByEventID(ctx context.Context, eventID uuid.UUID) ([]model.Response, error) {
	query := `
		SELECT ` + responseColumns + `
		FROM responses
		WHERE event_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get responses: %w", err)
	}
	defer rows.Close()

	responses := make([]model.Response, 0)
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		responses = append(responses, *resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate responses: %w", err)
	}

	return responses, nil
}

// UpdateResponse applies the patch in a single statement, so concurrent writers
// resolve as last-write-wins without a read-modify-write window. The paid rule
// is evaluated against the row's rsvp inside the same statement.
func (r *repository) UpdateResponse(ctx context.Context, eventID, id uuid.UUID, p model.ResponsePatch) (*model.Response, error) {
	var rsvp *string
	if p.RSVP != nil {
		s := string(*p.RSVP)
		rsvp = &s
	}
	var paidAt *time.Time
	if p.Paid != nil && *p.Paid {
		paidAt = &p.At
	}

	query := `
		UPDATE responses
		SET rsvp = COALESCE($1, rsvp),
		    paid = CASE
		        WHEN $7::boolean AND COALESCE($1, rsvp) <> 'yes' THEN FALSE
		        ELSE COALESCE($2, paid)
		    END,
		    paid_at = CASE
		        WHEN $7::boolean AND COALESCE($1, rsvp) <> 'yes' THEN NULL
		        WHEN $2::boolean IS NULL THEN paid_at
		        ELSE $3
		    END,
		    updated_at = $4
		WHERE id = $5 AND event_id = $6
		RETURNING ` + responseColumns

	resp, err := scanResponse(r.db.QueryRowContext(ctx, query, rsvp, p.Paid, paidAt, p.At, id, eventID, p.PaidRequiresYes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResponseNotFound
		}
		return nil, fmt.Errorf("failed to update response: %w", err)
	}
	return resp, nil
}
