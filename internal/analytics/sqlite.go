package analytics

import (
	"context"
	"database/sql"

	"github.com/kidcare/afterhours/internal/shared/errors"
)

// SQLiteRepository stores counters in an embedded SQLite database
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Increment(ctx context.Context, d Delta) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin analytics transaction")
	}
	defer tx.Rollback()

	emergency, callDoctor, homeCare, completionTotal, completionCount := d.columns()

	statements := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO daily_usage (
				date, total_assessments, emergency_recommendations, call_doctor_recommendations,
				home_care_recommendations, completion_time_total, completion_time_count
			) VALUES (?, 1, ?, ?, ?, ?, ?)
			ON CONFLICT (date) DO UPDATE SET
				total_assessments = total_assessments + 1,
				emergency_recommendations = emergency_recommendations + excluded.emergency_recommendations,
				call_doctor_recommendations = call_doctor_recommendations + excluded.call_doctor_recommendations,
				home_care_recommendations = home_care_recommendations + excluded.home_care_recommendations,
				completion_time_total = completion_time_total + excluded.completion_time_total,
				completion_time_count = completion_time_count + excluded.completion_time_count`,
			[]any{d.Date, emergency, callDoctor, homeCare, completionTotal, completionCount}},
		{`INSERT INTO daily_symptoms (date, symptom, count) VALUES (?, ?, 1)
			ON CONFLICT (date, symptom) DO UPDATE SET count = count + 1`,
			[]any{d.Date, d.Symptom}},
		{`INSERT INTO daily_age_groups (date, age_group, count) VALUES (?, ?, 1)
			ON CONFLICT (date, age_group) DO UPDATE SET count = count + 1`,
			[]any{d.Date, d.AgeGroup}},
		{`INSERT INTO monthly_call_reduction (
				month, total_assessments, estimated_calls_avoided, potential_emergencies_identified
			) VALUES (?, 1, ?, ?)
			ON CONFLICT (month) DO UPDATE SET
				total_assessments = total_assessments + 1,
				estimated_calls_avoided = estimated_calls_avoided + excluded.estimated_calls_avoided,
				potential_emergencies_identified = potential_emergencies_identified + excluded.potential_emergencies_identified`,
			[]any{d.Month, homeCare, emergency}},
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
			return errors.Wrap(err, "failed to update analytics counters")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit analytics update")
	}
	return nil
}

func (r *SQLiteRepository) DailyRange(ctx context.Context, start, end string) ([]DailyUsage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, total_assessments, emergency_recommendations,
			call_doctor_recommendations, home_care_recommendations,
			completion_time_total, completion_time_count
		FROM daily_usage
		WHERE date BETWEEN ? AND ?
		ORDER BY date`, start, end)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query daily usage")
	}
	days, err := scanDays(rows)
	rows.Close()
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan daily usage")
	}
	if len(days) == 0 {
		return days, nil
	}

	for query, pick := range map[string]func(*DailyUsage) map[string]int{
		`SELECT date, symptom, count FROM daily_symptoms WHERE date BETWEEN ? AND ?`:     symptomsOf,
		`SELECT date, age_group, count FROM daily_age_groups WHERE date BETWEEN ? AND ?`: ageGroupsOf,
	} {
		rows, err := r.db.QueryContext(ctx, query, start, end)
		if err != nil {
			return nil, errors.Wrap(err, "failed to query daily breakdown")
		}
		err = scanHistogram(rows, days, pick)
		rows.Close()
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan daily breakdown")
		}
	}
	return days, nil
}

func (r *SQLiteRepository) MonthlyRange(ctx context.Context, start, end string) ([]MonthlyCallReduction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT month, total_assessments, estimated_calls_avoided, potential_emergencies_identified
		FROM monthly_call_reduction
		WHERE month BETWEEN ? AND ?
		ORDER BY month`, start, end)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query monthly metrics")
	}
	defer rows.Close()

	months, err := scanMonths(rows)
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan monthly metrics")
	}
	return months, nil
}

var _ Repository = (*SQLiteRepository)(nil)
