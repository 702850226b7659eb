package draft

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitat/internal/models"
)

func samplePlanet() models.Planet {
	return models.Planet{
		ID:                 "p1",
		Name:               "Kepler-442b",
		StellarSystem:      "Kepler-442",
		SurfaceTemperature: 233,
		HasWater:           true,
		WaterCoverage:      40,
		Criteria: []models.PlanetCriteria{
			{ID: "e1", PlanetID: "p1", CriteriaID: "A", Value: 1, Score: 5, CriteriaName: "Temperature"},
			{ID: "e2", PlanetID: "p1", CriteriaID: "B", Value: 2, Score: 6, CriteriaName: "Gravity"},
		},
	}
}

func TestDraft_AddRejectsDuplicate(t *testing.T) {
	d := New(samplePlanet())
	assert.False(t, d.HasChanges)

	err := d.AddEvaluation(models.PlanetCriteria{CriteriaID: "A", Value: 9})
	assert.ErrorIs(t, err, ErrDuplicateEvaluation)
	assert.False(t, d.HasChanges)
	assert.Len(t, d.Working.Criteria, 2)

	require.NoError(t, d.AddEvaluation(models.PlanetCriteria{CriteriaID: "C", Value: 3}))
	assert.True(t, d.HasChanges)
	assert.Len(t, d.Working.Criteria, 3)
	assert.Equal(t, "p1", d.Working.Criteria[2].PlanetID)
	assert.Len(t, d.Snapshot.Criteria, 2, "snapshot untouched")
}

func TestDraft_EditAndDelete(t *testing.T) {
	d := New(samplePlanet())

	require.NoError(t, d.EditEvaluation("B", models.PlanetCriteriaInput{CriteriaID: "ignored", Value: 20, Score: 9, IsMet: true, Notes: "n"}))
	b := d.Working.Evaluation("B")
	require.NotNil(t, b)
	assert.Equal(t, "B", b.CriteriaID, "criteria id is immutable")
	assert.Equal(t, 20.0, b.Value)
	assert.Equal(t, 9.0, b.Score)
	assert.True(t, b.IsMet)
	assert.Equal(t, "Gravity", b.CriteriaName)
	assert.Equal(t, 2.0, d.Snapshot.Evaluation("B").Value)

	assert.ErrorIs(t, d.EditEvaluation("Z", models.PlanetCriteriaInput{}), ErrEvaluationNotFound)

	require.NoError(t, d.DeleteEvaluation("A"))
	assert.Nil(t, d.Working.Evaluation("A"))
	assert.NotNil(t, d.Snapshot.Evaluation("A"))
	assert.ErrorIs(t, d.DeleteEvaluation("A"), ErrEvaluationNotFound)
}

func TestDraft_PayloadIsTrimmed(t *testing.T) {
	d := New(samplePlanet())
	require.NoError(t, d.AddEvaluation(models.PlanetCriteria{
		CriteriaID: "C", Value: 75, Score: 8, IsMet: true, Notes: "liquid water",
		CriteriaName: "Water", MinimumThreshold: 50, MaximumThreshold: 100,
	}))

	payload := d.Payload()
	assert.Equal(t, "p1", payload.PlanetID)
	assert.Equal(t, "Kepler-442b", payload.Name)
	assert.Equal(t, 233.0, payload.SurfaceTemperature)
	require.Len(t, payload.PlanetCriteria, 3)

	data, err := json.Marshal(payload.PlanetCriteria[2])
	require.NoError(t, err)
	assert.JSONEq(t, `{"criteriaId":"C","value":75,"score":8,"isMet":true,"notes":"liquid water"}`, string(data))
}

func TestDraft_CommitAndDiscard(t *testing.T) {
	d := New(samplePlanet())
	require.NoError(t, d.DeleteEvaluation("A"))

	d.Discard()
	assert.False(t, d.HasChanges)
	assert.Len(t, d.Working.Criteria, 2)

	require.NoError(t, d.DeleteEvaluation("A"))
	saved := d.Working.Clone()
	saved.Name = "Kepler-442b (confirmed)"
	d.Commit(&saved)
	assert.False(t, d.HasChanges)
	assert.Equal(t, "Kepler-442b (confirmed)", d.Snapshot.Name)
	assert.Len(t, d.Snapshot.Criteria, 1)

	// an empty server response confirms what was sent
	require.NoError(t, d.AddEvaluation(models.PlanetCriteria{CriteriaID: "D"}))
	d.Commit(&models.Planet{})
	assert.False(t, d.HasChanges)
	assert.NotNil(t, d.Snapshot.Evaluation("D"))
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("tok", "p1"), Key("tok", "p1"))
	assert.NotEqual(t, Key("tok", "p1"), Key("other", "p1"))
	assert.NotEqual(t, Key("tok", "p1"), Key("tok", "p2"))
	assert.NotContains(t, Key("secret-token", "p1"), "secret-token")
}

func testStore(t *testing.T, s Store) {
	ctx := context.Background()
	key := Key("tok", "p1")

	_, err := s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	d := New(samplePlanet())
	require.NoError(t, d.AddEvaluation(models.PlanetCriteria{CriteriaID: "C"}))
	require.NoError(t, s.Put(ctx, key, d))

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, got.HasChanges)
	assert.Len(t, got.Working.Criteria, 3)
	assert.Len(t, got.Snapshot.Criteria, 2)

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore(time.Hour))
}

func TestMemoryStore_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Put(context.Background(), "k", New(samplePlanet())))
	now = now.Add(2 * time.Minute)

	_, err := s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_SweepDropsUnreadExpiredDrafts(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Put(ctx, "old-1", New(samplePlanet())))
	require.NoError(t, s.Put(ctx, "old-2", New(samplePlanet())))
	now = now.Add(50 * time.Second)
	require.NoError(t, s.Put(ctx, "fresh", New(samplePlanet())))
	now = now.Add(20 * time.Second)

	assert.Equal(t, 2, s.Sweep())
	assert.Equal(t, 1, s.Len())

	_, err := s.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestMemoryStore_RunStopsWithContext(t *testing.T) {
	s := NewMemoryStore(time.Nanosecond)
	require.NoError(t, s.Put(context.Background(), "k", New(samplePlanet())))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	testStore(t, NewRedisStore(client, time.Minute))
}
