// Package planstore persists generated travel plans to PostgreSQL. It is the
// storage collaborator of the AI pipeline: the pipeline produces TravelInput
// and GeneratedPlan values and hands them here; nothing in the pipeline ever
// reads them back.
package planstore

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver

	"github.com/voiceplan/gateway/internal/models"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// ErrNotFound is returned when no plan exists for the given id.
var ErrNotFound = errors.New("travel plan not found")

// Record is a stored travel plan: the request that produced it plus the
// generated plan document.
type Record struct {
	ID                string               `json:"id"`
	Title             string               `json:"title"`
	Destination       string               `json:"destination"`
	Days              int                  `json:"days"`
	Budget            float64              `json:"budget"`
	PeopleCount       int                  `json:"peopleCount"`
	StartDate         string               `json:"startDate"`
	Preferences       []string             `json:"preferences"`
	OtherRequirements string               `json:"otherRequirements,omitempty"`
	Status            string               `json:"status"`
	Plan              models.GeneratedPlan `json:"plan"`
	CreatedAt         time.Time            `json:"createdAt"`
	UpdatedAt         time.Time            `json:"updatedAt"`
}

// Store persists travel plans to PostgreSQL.
type Store struct {
	db *sql.DB
}

// Open connects to the plan database at connStr and applies migrations.
func Open(connStr string) (*Store, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("planstore open: %w", err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("planstore ping: %w", err)
	}
	if err = migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("planstore migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	for _, e := range entries {
		data, readErr := migrationFS.ReadFile("migrations/" + e.Name())
		if readErr != nil {
			return fmt.Errorf("read migration %s: %w", e.Name(), readErr)
		}
		if _, execErr := db.Exec(string(data)); execErr != nil {
			return fmt.Errorf("migration %s: %w", e.Name(), execErr)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create stores a new plan and returns the full record.
func (s *Store) Create(ctx context.Context, input models.TravelInput, plan models.GeneratedPlan) (*Record, error) {
	now := time.Now().UTC()
	rec := &Record{
		ID:                uuid.NewString(),
		Title:             plan.Title,
		Destination:       plan.Destination,
		Days:              input.Days,
		Budget:            input.Budget,
		PeopleCount:       input.PeopleCount,
		StartDate:         input.StartDate,
		Preferences:       input.Preferences,
		OtherRequirements: input.OtherRequirements,
		Status:            "draft",
		Plan:              plan,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if rec.Preferences == nil {
		rec.Preferences = []string{}
	}

	prefs, err := json.Marshal(rec.Preferences)
	if err != nil {
		return nil, fmt.Errorf("marshal preferences: %w", err)
	}
	planDoc, err := json.Marshal(rec.Plan)
	if err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO travel_plans
		   (id, title, destination, days, budget, people_count, start_date,
		    preferences, other_requirements, status, plan, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		rec.ID, rec.Title, rec.Destination, rec.Days, rec.Budget, rec.PeopleCount,
		rec.StartDate, prefs, rec.OtherRequirements, rec.Status, planDoc,
		rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert travel plan: %w", err)
	}
	return rec, nil
}

// Get returns one plan by id.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, destination, days, budget, people_count,
		        to_char(start_date, 'YYYY-MM-DD'), preferences,
		        other_requirements, status, plan, created_at, updated_at
		   FROM travel_plans WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get travel plan: %w", err)
	}
	return rec, nil
}

// List returns plans newest-first with the total count.
func (s *Store) List(ctx context.Context, limit, offset int) ([]*Record, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM travel_plans`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count travel plans: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, destination, days, budget, people_count,
		        to_char(start_date, 'YYYY-MM-DD'), preferences,
		        other_requirements, status, plan, created_at, updated_at
		   FROM travel_plans
		  ORDER BY created_at DESC
		  LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list travel plans: %w", err)
	}
	defer rows.Close()

	recs := make([]*Record, 0, limit)
	for rows.Next() {
		rec, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, 0, fmt.Errorf("scan travel plan: %w", scanErr)
		}
		recs = append(recs, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list travel plans: %w", err)
	}
	return recs, total, nil
}

// Delete removes one plan by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM travel_plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete travel plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var rec Record
	var prefs, planDoc []byte
	err := row.Scan(&rec.ID, &rec.Title, &rec.Destination, &rec.Days, &rec.Budget,
		&rec.PeopleCount, &rec.StartDate, &prefs, &rec.OtherRequirements,
		&rec.Status, &planDoc, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(prefs, &rec.Preferences); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	if err = json.Unmarshal(planDoc, &rec.Plan); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	return &rec, nil
}
