package protocol

import (
	"context"
	"database/sql"

	"github.com/kidcare/afterhours/internal/shared/errors"
	"github.com/kidcare/afterhours/internal/triage"
)

// SQLiteRepository stores protocols in an embedded SQLite database
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a protocol repository over an opened database
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, symptom triage.Symptom, ageGroup triage.AgeGroup) (triage.Protocol, bool, error) {
	query := `
		SELECT symptom, age_group, questions, guidelines
		FROM protocols
		WHERE symptom = ? AND age_group = ?`

	p, err := scanProtocol(r.db.QueryRowContext(ctx, query, string(symptom), string(ageGroup)))
	if err == sql.ErrNoRows {
		return triage.Protocol{}, false, nil
	}
	if err != nil {
		return triage.Protocol{}, false, errors.Wrap(err, "failed to get protocol")
	}
	return p, true, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]triage.Protocol, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT symptom, age_group, questions, guidelines
		FROM protocols
		ORDER BY id`)
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

func (r *SQLiteRepository) Register(ctx context.Context, p triage.Protocol) error {
	if err := p.Validate(); err != nil {
		return errors.Validation(err.Error(), nil)
	}

	questions, guidelines, err := encodeProtocol(p)
	if err != nil {
		return errors.Wrap(err, "failed to encode protocol")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO protocols (symptom, age_group, questions, guidelines)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (symptom, age_group) DO UPDATE SET
			questions = excluded.questions,
			guidelines = excluded.guidelines,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`,
		string(p.Symptom), string(p.AgeGroup), string(questions), string(guidelines))
	if err != nil {
		return errors.Wrap(err, "failed to register protocol")
	}
	return nil
}

var (
	_ Repository = (*MemoryRepository)(nil)
	_ Repository = (*PostgresRepository)(nil)
	_ Repository = (*SQLiteRepository)(nil)
)
