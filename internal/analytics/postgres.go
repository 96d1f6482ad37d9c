package analytics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kidcare/afterhours/internal/shared/errors"
	"github.com/kidcare/afterhours/internal/shared/metrics"
)

// PostgresRepository stores counters in the analytics schema
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Increment(ctx context.Context, d Delta) error {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("analytics_increment", time.Since(start)) }()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin analytics transaction")
	}
	defer tx.Rollback(ctx)

	emergency, callDoctor, homeCare, completionTotal, completionCount := d.columns()

	if _, err := tx.Exec(ctx, `
		INSERT INTO analytics.daily_usage AS u (
			date, total_assessments, emergency_recommendations, call_doctor_recommendations,
			home_care_recommendations, completion_time_total, completion_time_count
		) VALUES ($1::date, 1, $2, $3, $4, $5, $6)
		ON CONFLICT (date) DO UPDATE SET
			total_assessments = u.total_assessments + 1,
			emergency_recommendations = u.emergency_recommendations + EXCLUDED.emergency_recommendations,
			call_doctor_recommendations = u.call_doctor_recommendations + EXCLUDED.call_doctor_recommendations,
			home_care_recommendations = u.home_care_recommendations + EXCLUDED.home_care_recommendations,
			completion_time_total = u.completion_time_total + EXCLUDED.completion_time_total,
			completion_time_count = u.completion_time_count + EXCLUDED.completion_time_count`,
		d.Date, emergency, callDoctor, homeCare, completionTotal, completionCount,
	); err != nil {
		return errors.Wrap(err, "failed to update daily usage")
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO analytics.daily_symptoms AS s (date, symptom, count)
		VALUES ($1::date, $2, 1)
		ON CONFLICT (date, symptom) DO UPDATE SET count = s.count + 1`,
		d.Date, d.Symptom,
	); err != nil {
		return errors.Wrap(err, "failed to update symptom counts")
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO analytics.daily_age_groups AS a (date, age_group, count)
		VALUES ($1::date, $2, 1)
		ON CONFLICT (date, age_group) DO UPDATE SET count = a.count + 1`,
		d.Date, d.AgeGroup,
	); err != nil {
		return errors.Wrap(err, "failed to update age group counts")
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO analytics.monthly_call_reduction AS m (
			month, total_assessments, estimated_calls_avoided, potential_emergencies_identified
		) VALUES ($1, 1, $2, $3)
		ON CONFLICT (month) DO UPDATE SET
			total_assessments = m.total_assessments + 1,
			estimated_calls_avoided = m.estimated_calls_avoided + EXCLUDED.estimated_calls_avoided,
			potential_emergencies_identified = m.potential_emergencies_identified + EXCLUDED.potential_emergencies_identified`,
		d.Month, homeCare, emergency,
	); err != nil {
		return errors.Wrap(err, "failed to update monthly metrics")
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit analytics update")
	}
	return nil
}

func (r *PostgresRepository) DailyRange(ctx context.Context, start, end string) ([]DailyUsage, error) {
	began := time.Now()
	defer func() { metrics.RecordDBQuery("analytics_daily_range", time.Since(began)) }()

	rows, err := r.pool.Query(ctx, `
		SELECT to_char(date, 'YYYY-MM-DD'), total_assessments, emergency_recommendations,
			call_doctor_recommendations, home_care_recommendations,
			completion_time_total, completion_time_count
		FROM analytics.daily_usage
		WHERE date BETWEEN $1::date AND $2::date
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

	histograms := []struct {
		query string
		pick  func(*DailyUsage) map[string]int
	}{
		{`SELECT to_char(date, 'YYYY-MM-DD'), symptom, count FROM analytics.daily_symptoms
			WHERE date BETWEEN $1::date AND $2::date`, symptomsOf},
		{`SELECT to_char(date, 'YYYY-MM-DD'), age_group, count FROM analytics.daily_age_groups
			WHERE date BETWEEN $1::date AND $2::date`, ageGroupsOf},
	}
	for _, h := range histograms {
		rows, err := r.pool.Query(ctx, h.query, start, end)
		if err != nil {
			return nil, errors.Wrap(err, "failed to query daily breakdown")
		}
		err = scanHistogram(rows, days, h.pick)
		rows.Close()
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan daily breakdown")
		}
	}
	return days, nil
}

func (r *PostgresRepository) MonthlyRange(ctx context.Context, start, end string) ([]MonthlyCallReduction, error) {
	began := time.Now()
	defer func() { metrics.RecordDBQuery("analytics_monthly_range", time.Since(began)) }()

	rows, err := r.pool.Query(ctx, `
		SELECT month, total_assessments, estimated_calls_avoided, potential_emergencies_identified
		FROM analytics.monthly_call_reduction
		WHERE month BETWEEN $1 AND $2
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

var _ Repository = (*PostgresRepository)(nil)
