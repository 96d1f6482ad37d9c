package assessment

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/kidcare/afterhours/internal/shared/errors"
	"github.com/kidcare/afterhours/internal/shared/types"
)

// SQLiteRepository stores assessments in an embedded SQLite database
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates an assessment repository over an opened database
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, a *Assessment) error {
	row, err := encodeAssessment(a)
	if err != nil {
		return errors.Wrap(err, "failed to encode assessment")
	}

	var completion sql.NullInt64
	if a.CompletionTimeSeconds != nil {
		completion = sql.NullInt64{Int64: int64(*a.CompletionTimeSeconds), Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO assessments (
			id, age_group, symptoms, responses, recommendation, urgency_level, reasoning,
			session_id, user_agent, ip_address, completion_time_seconds, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID.String(), string(a.AgeGroup), string(row.symptoms), string(row.responses),
		string(a.Recommendation), string(a.UrgencyLevel), string(row.reasoning),
		nullString(a.SessionID), nullString(a.UserAgent), nullString(a.IPAddress), completion,
		a.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return errors.Conflict("assessment already exists")
		}
		return errors.Wrap(err, "failed to create assessment")
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id types.ID) (*Assessment, error) {
	var (
		a                 Assessment
		symptoms          string
		responses         string
		reasoning         string
		sessionID, ua, ip sql.NullString
		completion        sql.NullInt64
		createdAt         string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, age_group, symptoms, responses, recommendation, urgency_level, reasoning,
			session_id, user_agent, ip_address, completion_time_seconds, created_at
		FROM assessments
		WHERE id = ?`, id.String()).Scan(
		&a.ID, &a.AgeGroup, &symptoms, &responses, &a.Recommendation, &a.UrgencyLevel, &reasoning,
		&sessionID, &ua, &ip, &completion, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("assessment", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get assessment")
	}

	row := encodedAssessment{symptoms: []byte(symptoms), responses: []byte(responses), reasoning: []byte(reasoning)}
	if err := row.decodeInto(&a); err != nil {
		return nil, errors.Wrap(err, "failed to decode assessment")
	}
	if a.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, errors.Wrap(err, "failed to parse created_at")
	}
	a.SessionID, a.UserAgent, a.IPAddress = sessionID.String, ua.String, ip.String
	if completion.Valid {
		v := int(completion.Int64)
		a.CompletionTimeSeconds = &v
	}
	return &a, nil
}

var (
	_ Repository = (*MemoryRepository)(nil)
	_ Repository = (*PostgresRepository)(nil)
	_ Repository = (*SQLiteRepository)(nil)
)
