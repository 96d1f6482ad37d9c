package assessment

import (
	"context"
	"testing"
	"time"

	"github.com/kidcare/afterhours/internal/shared/database"
	"github.com/kidcare/afterhours/internal/shared/errors"
	"github.com/kidcare/afterhours/internal/shared/types"
	"github.com/kidcare/afterhours/internal/triage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Repository {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]Repository{
		"memory": NewMemoryRepository(),
		"sqlite": NewSQLiteRepository(db),
	}
}

func sample() *Assessment {
	completion := 42
	return &Assessment{
		ID:       types.NewID(),
		AgeGroup: triage.AgeGroupInfant,
		Symptoms: []triage.Symptom{triage.SymptomFever},
		Responses: triage.Responses{
			{QuestionID: "fever_temp", Value: triage.Number(102.5)},
			{QuestionID: "behavior", Value: triage.Text("Normal")},
		},
		Recommendation:        triage.RecommendationEmergency,
		UrgencyLevel:          triage.UrgencyEmergency,
		Reasoning:             []string{triage.ReasonEmergency},
		CreatedAt:             time.Date(2024, 5, 1, 3, 4, 5, 123456789, time.UTC),
		SessionID:             "s-1",
		UserAgent:             "Mozilla/5.0",
		IPAddress:             "203.0.113.7",
		CompletionTimeSeconds: &completion,
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			a := sample()
			require.NoError(t, repo.Create(ctx, a))

			got, err := repo.Get(ctx, a.ID)
			require.NoError(t, err)
			assert.True(t, a.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", a.CreatedAt, got.CreatedAt)

			want := *a
			want.CreatedAt, got.CreatedAt = time.Time{}, time.Time{}
			assert.Equal(t, &want, got)
		})
	}
}

func TestRepositoryOptionalFields(t *testing.T) {
	ctx := context.Background()

	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			a := sample()
			a.SessionID, a.UserAgent, a.IPAddress, a.CompletionTimeSeconds = "", "", "", nil
			require.NoError(t, repo.Create(ctx, a))

			got, err := repo.Get(ctx, a.ID)
			require.NoError(t, err)
			assert.Empty(t, got.SessionID)
			assert.Nil(t, got.CompletionTimeSeconds)
		})
	}
}

func TestRepositoryNotFound(t *testing.T) {
	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repo.Get(context.Background(), types.NewID())
			assert.True(t, errors.Is(err, errors.ErrNotFound))
		})
	}
}

func TestRepositoryDuplicateID(t *testing.T) {
	ctx := context.Background()

	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			a := sample()
			require.NoError(t, repo.Create(ctx, a))
			err := repo.Create(ctx, a)
			assert.True(t, errors.Is(err, errors.ErrConflict))
		})
	}
}

func TestRepositoryIsolatesStoredRecord(t *testing.T) {
	ctx := context.Background()

	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			a := sample()
			require.NoError(t, repo.Create(ctx, a))

			a.Symptoms[0] = triage.SymptomRash
			a.Responses[0].Value = triage.Number(96)
			a.Reasoning[0] = "edited by caller"
			*a.CompletionTimeSeconds = 1

			got, err := repo.Get(ctx, a.ID)
			require.NoError(t, err)
			got.Reasoning[0] = "edited by reader"

			again, err := repo.Get(ctx, a.ID)
			require.NoError(t, err)
			assert.Equal(t, []triage.Symptom{triage.SymptomFever}, again.Symptoms)
			assert.True(t, again.Responses.Value("fever_temp").AtLeast(102.5))
			assert.Equal(t, []string{triage.ReasonEmergency}, again.Reasoning)
			require.NotNil(t, again.CompletionTimeSeconds)
			assert.Equal(t, 42, *again.CompletionTimeSeconds)
		})
	}
}
