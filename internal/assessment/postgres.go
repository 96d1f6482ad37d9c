package assessment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kidcare/afterhours/internal/shared/errors"
	"github.com/kidcare/afterhours/internal/shared/metrics"
	"github.com/kidcare/afterhours/internal/shared/types"
)

// PostgresRepository stores assessments in triage.assessments
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new assessment repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, a *Assessment) error {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("assessment_create", time.Since(start)) }()

	row, err := encodeAssessment(a)
	if err != nil {
		return errors.Wrap(err, "failed to encode assessment")
	}

	query := `
		INSERT INTO triage.assessments (
			id, age_group, symptoms, responses, recommendation, urgency_level, reasoning,
			session_id, user_agent, ip_address, completion_time_seconds, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12
		)`

	_, err = r.pool.Exec(ctx, query,
		a.ID, string(a.AgeGroup), row.symptoms, row.responses, string(a.Recommendation), string(a.UrgencyLevel), row.reasoning,
		nullString(a.SessionID), nullString(a.UserAgent), nullString(a.IPAddress), a.CompletionTimeSeconds, a.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.Conflict("assessment already exists")
		}
		return errors.Wrap(err, "failed to create assessment")
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id types.ID) (*Assessment, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("assessment_get", time.Since(start)) }()

	query := `
		SELECT id, age_group, symptoms, responses, recommendation, urgency_level, reasoning,
			session_id, user_agent, ip_address, completion_time_seconds, created_at
		FROM triage.assessments
		WHERE id = $1`

	var (
		a                 Assessment
		row               encodedAssessment
		sessionID, ua, ip *string
		completion        *int32
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.AgeGroup, &row.symptoms, &row.responses, &a.Recommendation, &a.UrgencyLevel, &row.reasoning,
		&sessionID, &ua, &ip, &completion, &a.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("assessment", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get assessment")
	}

	if err := row.decodeInto(&a); err != nil {
		return nil, errors.Wrap(err, "failed to decode assessment")
	}
	a.SessionID, a.UserAgent, a.IPAddress = deref(sessionID), deref(ua), deref(ip)
	if completion != nil {
		v := int(*completion)
		a.CompletionTimeSeconds = &v
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return &a, nil
}

// encodedAssessment holds the JSON columns of an assessment row
type encodedAssessment struct {
	symptoms, responses, reasoning []byte
}

func encodeAssessment(a *Assessment) (encodedAssessment, error) {
	var (
		row encodedAssessment
		err error
	)
	if row.symptoms, err = json.Marshal(a.Symptoms); err != nil {
		return row, err
	}
	if row.responses, err = json.Marshal(a.Responses); err != nil {
		return row, err
	}
	if row.reasoning, err = json.Marshal(a.Reasoning); err != nil {
		return row, err
	}
	return row, nil
}

func (row encodedAssessment) decodeInto(a *Assessment) error {
	if err := json.Unmarshal(row.symptoms, &a.Symptoms); err != nil {
		return fmt.Errorf("symptoms: %w", err)
	}
	if err := json.Unmarshal(row.responses, &a.Responses); err != nil {
		return fmt.Errorf("responses: %w", err)
	}
	if err := json.Unmarshal(row.reasoning, &a.Reasoning); err != nil {
		return fmt.Errorf("reasoning: %w", err)
	}
	return nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
