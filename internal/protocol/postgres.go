package protocol

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kidcare/afterhours/internal/shared/errors"
	"github.com/kidcare/afterhours/internal/triage"
)

// PostgresRepository stores protocols in triage.protocols
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new protocol repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Get(ctx context.Context, symptom triage.Symptom, ageGroup triage.AgeGroup) (triage.Protocol, bool, error) {
	query := `
		SELECT symptom, age_group, questions, guidelines
		FROM triage.protocols
		WHERE symptom = $1 AND age_group = $2`

	p, err := scanProtocol(r.pool.QueryRow(ctx, query, string(symptom), string(ageGroup)))
	if err == pgx.ErrNoRows {
		return triage.Protocol{}, false, nil
	}
	if err != nil {
		return triage.Protocol{}, false, errors.Wrap(err, "failed to get protocol")
	}
	return p, true, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]triage.Protocol, error) {
	query := `
		SELECT symptom, age_group, questions, guidelines
		FROM triage.protocols
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list protocols")
	}
	defer rows.Close()

	var protocols []triage.Protocol
	for rows.Next() {
		p, err := scanProtocol(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan protocol")
		}
		protocols = append(protocols, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to list protocols")
	}
	return protocols, nil
}

func (r *PostgresRepository) Register(ctx context.Context, p triage.Protocol) error {
	if err := p.Validate(); err != nil {
		return errors.Validation(err.Error(), nil)
	}

	questions, guidelines, err := encodeProtocol(p)
	if err != nil {
		return errors.Wrap(err, "failed to encode protocol")
	}

	query := `
		INSERT INTO triage.protocols (symptom, age_group, questions, guidelines)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (symptom, age_group) DO UPDATE SET
			questions = EXCLUDED.questions,
			guidelines = EXCLUDED.guidelines,
			updated_at = NOW()`

	_, err = r.pool.Exec(ctx, query, string(p.Symptom), string(p.AgeGroup), string(questions), string(guidelines))
	if err != nil {
		return errors.Wrap(err, "failed to register protocol")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProtocol(row rowScanner) (triage.Protocol, error) {
	var (
		p                    triage.Protocol
		questions, guideline []byte
	)
	if err := row.Scan(&p.Symptom, &p.AgeGroup, &questions, &guideline); err != nil {
		return triage.Protocol{}, err
	}
	if err := json.Unmarshal(questions, &p.Questions); err != nil {
		return triage.Protocol{}, fmt.Errorf("decode questions for %s: %w", p.Key(), err)
	}
	if err := json.Unmarshal(guideline, &p.Guidelines); err != nil {
		return triage.Protocol{}, fmt.Errorf("decode guidelines for %s: %w", p.Key(), err)
	}
	return p, nil
}

func encodeProtocol(p triage.Protocol) (questions, guidelines []byte, err error) {
	questions, err = json.Marshal(p.Questions)
	if err != nil {
		return nil, nil, err
	}
	guidelines, err = json.Marshal(p.Guidelines)
	if err != nil {
		return nil, nil, err
	}
	return questions, guidelines, nil
}
