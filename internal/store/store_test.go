package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LianelaSky/Project-Alyssa/pkg/affect"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(context.Background(), "sqlite3", ":memory:")
	require.NoError(t, err)

	s, err := NewStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testEngine(name string, start time.Time) *affect.Engine {
	now := start
	return affect.New(
		affect.WithCharacterName(name),
		affect.WithRand(affect.NewSeededRand(1)),
		affect.WithClock(func() time.Time { return now }),
	)
}

var base = time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

// ═══════════════════════════════════════════════════════════════════════════════
// SNAPSHOT TESTS
// ═══════════════════════════════════════════════════════════════════════════════

func TestSnapshotRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	eng := testEngine("alyssa", base)
	eng.ProcessInteraction("you failed everyone, a terrible, horrible disaster and your fault", affect.Context{RecentFailure: true})
	eng.UpdateFatigue(2, false)
	snap := eng.Snapshot()

	id, err := s.SaveSnapshot(ctx, snap)
	require.NoError(t, err)
	assert.Positive(t, id)

	loaded, err := s.LoadLatest(ctx, "alyssa")
	require.NoError(t, err)
	assert.Equal(t, snap.Version, loaded.Version)
	assert.True(t, snap.TakenAt.Equal(loaded.TakenAt))

	fresh := testEngine("alyssa", base)
	require.NoError(t, fresh.Restore(loaded))
	assert.Equal(t, eng.State().Internal, fresh.State().Internal)
	assert.Equal(t, eng.State().Memory.Len(), fresh.State().Memory.Len())
	assert.Equal(t, eng.State().Fatigue, fresh.State().Fatigue)
}

func TestLoadLatestNotFound(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.LoadLatest(context.Background(), "nobody")
	require.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestLoadLatestPicksNewestPerCharacter(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	a := testEngine("a", base)
	b := testEngine("b", base)
	_, err := s.SaveSnapshot(ctx, a.Snapshot())
	require.NoError(t, err)

	a.UpdateFatigue(3, false)
	_, err = s.SaveSnapshot(ctx, a.Snapshot())
	require.NoError(t, err)
	_, err = s.SaveSnapshot(ctx, b.Snapshot())
	require.NoError(t, err)

	got, err := s.LoadLatest(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, a.State().Fatigue, got.State.Fatigue)
	assert.Equal(t, "a", got.Character)
}

func TestPruneAndList(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	eng := testEngine("alyssa", base)
	for i := 0; i < 5; i++ {
		eng.UpdateFatigue(1, false)
		_, err := s.SaveSnapshot(ctx, eng.Snapshot())
		require.NoError(t, err)
	}
	other := testEngine("other", base)
	_, err := s.SaveSnapshot(ctx, other.Snapshot())
	require.NoError(t, err)

	removed, err := s.Prune(ctx, "alyssa", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	infos, err := s.ListSnapshots(ctx, "alyssa", 10)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Greater(t, infos[0].ID, infos[1].ID)
	assert.Equal(t, eng.State().Fatigue, infos[0].Fatigue)

	others, err := s.ListSnapshots(ctx, "other", 10)
	require.NoError(t, err)
	assert.Len(t, others, 1, "prune is scoped to one character")
}

// ═══════════════════════════════════════════════════════════════════════════════
// GUIDANCE LOG TESTS
// ═══════════════════════════════════════════════════════════════════════════════

func TestGuidanceLog(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	eng := testEngine("alyssa", base)
	messages := []string{"hello", "nobody loves me, I'm always alone", "I'm here for you"}
	for i, m := range messages {
		g := eng.ProcessInteraction(m, affect.Context{})
		require.NoError(t, s.AppendGuidance(ctx, "alyssa", base.Add(time.Duration(i)*time.Minute), m, g))
	}

	recs, err := s.RecentGuidance(ctx, "alyssa", 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "I'm here for you", recs[0].Message)
	assert.Equal(t, messages[1], recs[1].Message)
	assert.True(t, recs[0].TurnAt.Equal(base.Add(2*time.Minute)))
	assert.Len(t, recs[0].Guidance.NonverbalCues, 3)
	assert.Len(t, recs[0].Guidance.InternalEmotionsDetailed, affect.NumEmotions)

	none, err := s.RecentGuidance(ctx, "nobody", 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}

// ═══════════════════════════════════════════════════════════════════════════════
// DRIVER TESTS
// ═══════════════════════════════════════════════════════════════════════════════

func TestOpenPureGoDriverOnDisk(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "alyssa.db")

	db, err := Open(ctx, "sqlite", path)
	require.NoError(t, err)
	s, err := NewStore(db)
	require.NoError(t, err)

	eng := testEngine("alyssa", base)
	_, err = s.SaveSnapshot(ctx, eng.Snapshot())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	db, err = Open(ctx, "sqlite", path)
	require.NoError(t, err)
	s, err = NewStore(db)
	require.NoError(t, err, "migrations are idempotent")
	defer s.Close()

	_, err = s.LoadLatest(ctx, "alyssa")
	assert.NoError(t, err)
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "postgres", ":memory:")
	require.ErrorIs(t, err, ErrUnsupportedDriver)
}
