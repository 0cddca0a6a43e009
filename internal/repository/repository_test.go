package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/RallyGoGo/RallyGoGo-sub000/internal/interfaces"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/model"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/testutil"
)

func seedProfiles(t *testing.T, db *gorm.DB, ids ...string) {
	t.Helper()
	repo := NewProfileRepository(db)
	for _, id := range ids {
		require.NoError(t, repo.Insert(context.Background(), &model.Profile{ID: id, Name: id, Gender: model.GenderMale}))
	}
}

func enqueue(t *testing.T, db *gorm.DB, ids ...string) {
	t.Helper()
	repo := NewQueueRepository(db)
	for i, id := range ids {
		require.NoError(t, repo.Insert(context.Background(), &model.QueueEntry{
			PlayerID: id,
			JoinedAt: time.Now().Add(time.Duration(-len(ids)+i) * time.Minute),
		}))
	}
}

func draft(court string, players ...string) *model.Match {
	m := &model.Match{
		Status:        model.StatusDraft,
		MatchCategory: model.CategoryMenDoubles,
		MatchType:     model.MatchTypeRegular,
	}
	if court != "" {
		m.CourtName = testutil.Str(court)
	}
	slots := []**string{&m.Player1, &m.Player2, &m.Player3, &m.Player4}
	for i, p := range players {
		if p != "" {
			*slots[i] = testutil.Str(p)
		}
	}
	return m
}

func TestProfileRepository_ListSortsByCategory(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &model.Profile{ID: "a", Name: "a", RatingMixed: 1300}))
	require.NoError(t, repo.Insert(ctx, &model.Profile{ID: "b", Name: "b", RatingMixed: 1500, IsGuest: true}))
	require.NoError(t, repo.Insert(ctx, &model.Profile{ID: "c", Name: "c", RatingMixed: 1400}))

	list, err := repo.List(ctx, interfaces.ProfileFilter{SortBy: model.CategoryMixed})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{list[0].ID, list[1].ID, list[2].ID})

	guest := true
	list, err = repo.List(ctx, interfaces.ProfileFilter{Guest: &guest})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)

	err = repo.Insert(ctx, &model.Profile{ID: "a", Name: "dup"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestProfileRepository_DeleteGuests(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &model.Profile{ID: "member", Name: "member"}))
	require.NoError(t, repo.Insert(ctx, &model.Profile{ID: "guest", Name: "guest", IsGuest: true}))
	enqueue(t, db, "member", "guest")

	n, err := repo.DeleteGuests(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.Get(ctx, "guest")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	active, err := NewQueueRepository(db).ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "member", active[0].PlayerID)
	require.NotNil(t, active[0].Profile)
	assert.Equal(t, "member", active[0].Profile.Name)
}

func TestQueueRepository_OneActiveEntryPerPlayer(t *testing.T) {
	db := testutil.NewDB(t)
	seedProfiles(t, db, "p1")
	repo := NewQueueRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &model.QueueEntry{PlayerID: "p1", JoinedAt: time.Now()}))
	err := repo.Insert(ctx, &model.QueueEntry{PlayerID: "p1", JoinedAt: time.Now()})
	assert.ErrorIs(t, err, interfaces.ErrAlreadyQueued)

	e, err := repo.GetByPlayer(ctx, "p1")
	require.NoError(t, err)
	require.NoError(t, repo.UpdateScores(ctx, map[uint64]int{e.ID: 4200}))
	e, err = repo.GetByPlayer(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 4200, e.PriorityScore)

	n, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = repo.GetByPlayer(ctx, "p1")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestMatchRepository_CourtDoubleBooking(t *testing.T) {
	db := testutil.NewDB(t)
	seedProfiles(t, db, "a", "b", "c", "d", "e", "f", "g", "h")
	enqueue(t, db, "a", "b", "c", "d", "e", "f", "g", "h")
	repo := NewMatchRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateWithDequeue(ctx, draft("Court 1", "a", "b", "c", "d"), []string{"a", "b", "c", "d"}, true))

	err := repo.CreateWithDequeue(ctx, draft("Court 1", "e", "f", "g", "h"), []string{"e", "f", "g", "h"}, true)
	assert.ErrorIs(t, err, interfaces.ErrCourtOccupied)

	// the failed attempt left the second group queued
	active, err := NewQueueRepository(db).ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 4)

	require.NoError(t, repo.CreateWithDequeue(ctx, draft("Court 2", "e", "f", "g", "h"), []string{"e", "f", "g", "h"}, true))
	active, err = NewQueueRepository(db).ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestMatchRepository_StalePlayerRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	seedProfiles(t, db, "a", "b", "c", "d")
	enqueue(t, db, "a", "b", "c")
	repo := NewMatchRepository(db)
	ctx := context.Background()

	err := repo.CreateWithDequeue(ctx, draft("Court 1", "a", "b", "c", "d"), []string{"a", "b", "c", "d"}, true)
	assert.ErrorIs(t, err, interfaces.ErrPlayerNotQueued)

	list, err := repo.ListByStatus(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
	active, err := NewQueueRepository(db).ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 3)
}

func TestMatchRepository_UpdateIf(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewMatchRepository(db)
	ctx := context.Background()

	m := draft("Court 1", "a", "b", "c", "d")
	require.NoError(t, repo.InsertIfCourtFree(ctx, m))

	require.NoError(t, repo.UpdateIf(ctx, m.ID, model.StatusDraft, map[string]interface{}{"status": model.StatusPlaying}))
	err := repo.UpdateIf(ctx, m.ID, model.StatusDraft, map[string]interface{}{"status": model.StatusPlaying})
	assert.ErrorIs(t, err, interfaces.ErrStaleState)
	err = repo.UpdateIf(ctx, m.ID+100, model.StatusDraft, map[string]interface{}{"status": model.StatusPlaying})
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	live, err := repo.ListLiveByPlayer(ctx, "c")
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, m.ID, live[0].ID)

	// releasing the court lets a new match take it
	require.NoError(t, repo.Update(ctx, m.ID, map[string]interface{}{"court_name": nil, "status": model.StatusPending}))
	require.NoError(t, repo.InsertIfCourtFree(ctx, draft("Court 1", "e", "f", "g", "h")))
}

func TestTransactor_ApplyIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	seedProfiles(t, db, "a", "b")
	matches := NewMatchRepository(db)
	tx := NewTransactor(db)
	ctx := context.Background()

	m := draft("", "a", "", "b")
	m.Status = model.StatusPending
	require.NoError(t, matches.InsertIfCourtFree(ctx, m))

	batch := func() *interfaces.Batch {
		return &interfaces.Batch{
			RequestID:   "req-1",
			Action:      "confirm",
			ActorID:     "b",
			Result:      []byte(`[{"player_id":"a","delta":16}]`),
			MatchID:     m.ID,
			FromStatus:  model.StatusPending,
			MatchFields: map[string]interface{}{"status": model.StatusFinished},
			Category:    model.CategorySingles,
			ProfileUpdates: []interfaces.ProfileUpdate{
				{PlayerID: "a", RatingDelta: 16, GamesIncrement: 1},
				{PlayerID: "b", RatingDelta: -16, GamesIncrement: 1},
			},
			History: []*model.RatingHistory{
				{PlayerID: "a", MatchID: m.ID, Category: model.CategorySingles, Rating: 1216, Delta: 16},
				{PlayerID: "b", MatchID: m.ID, Category: model.CategorySingles, Rating: 1184, Delta: -16},
			},
			QueueInserts: []*model.QueueEntry{
				{PlayerID: "a", JoinedAt: time.Now()},
				{PlayerID: "b", JoinedAt: time.Now()},
			},
		}
	}

	require.NoError(t, tx.Apply(ctx, batch()))
	err := tx.Apply(ctx, batch())
	assert.ErrorIs(t, err, interfaces.ErrDuplicateRequest)

	a, err := NewProfileRepository(db).Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1216, a.RatingSingles)
	assert.Equal(t, 1, a.GamesPlayedToday)
	assert.Equal(t, 1, a.TotalGames)

	hist, err := NewRatingHistoryRepository(db).ListByPlayer(ctx, "a", 0)
	require.NoError(t, err)
	assert.Len(t, hist, 1)

	active, err := NewQueueRepository(db).ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	rec, err := tx.Confirmation(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, m.ID, rec.MatchID)
	assert.JSONEq(t, `[{"player_id":"a","delta":16}]`, string(rec.Result))

	_, err = tx.Confirmation(ctx, "missing")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestTransactor_ApplyRollsBackOnStaleStatus(t *testing.T) {
	db := testutil.NewDB(t)
	seedProfiles(t, db, "a", "b")
	matches := NewMatchRepository(db)
	tx := NewTransactor(db)
	ctx := context.Background()

	m := draft("Court 1", "a", "b")
	require.NoError(t, matches.InsertIfCourtFree(ctx, m))

	err := tx.Apply(ctx, &interfaces.Batch{
		RequestID:      "req-2",
		MatchID:        m.ID,
		FromStatus:     model.StatusPending,
		MatchFields:    map[string]interface{}{"status": model.StatusFinished},
		Category:       model.CategoryMenDoubles,
		ProfileUpdates: []interfaces.ProfileUpdate{{PlayerID: "a", RatingDelta: 10}},
	})
	assert.True(t, errors.Is(err, interfaces.ErrStaleState))

	_, err = tx.Confirmation(ctx, "req-2")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
	a, err := NewProfileRepository(db).Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultRating, a.RatingMenD)
}

func TestMatchRepository_PlayerInOneLiveMatch(t *testing.T) {
	db := testutil.NewDB(t)
	seedProfiles(t, db, "a", "b", "c", "d", "e", "g", "h")
	repo := NewMatchRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateWithDequeue(ctx, draft("Court 1", "a", "b", "c", "d"), []string{"a", "b", "c", "d"}, false))

	err := repo.CreateWithDequeue(ctx, draft("Court 2", "a", "e", "g", "h"), []string{"a", "e", "g", "h"}, false)
	assert.ErrorIs(t, err, interfaces.ErrPlayerInMatch)

	live, err := repo.ListLiveByPlayer(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, live, 1)

	// once the first match leaves the live states the player is free again
	require.NoError(t, repo.UpdateIf(ctx, live[0].ID, model.StatusDraft, map[string]interface{}{
		"status":     model.StatusPending,
		"court_name": nil,
	}))
	require.NoError(t, repo.CreateWithDequeue(ctx, draft("Court 2", "a", "e", "g", "h"), []string{"a", "e", "g", "h"}, false))
}

func TestTransactor_HistoryRecordsCommittedRating(t *testing.T) {
	db := testutil.NewDB(t)
	seedProfiles(t, db, "a", "b")
	profiles := NewProfileRepository(db)
	matches := NewMatchRepository(db)
	ctx := context.Background()

	m := draft("", "a", "", "b")
	m.Status = model.StatusPending
	require.NoError(t, matches.InsertIfCourtFree(ctx, m))

	// another write lands after the caller read its 1200 snapshot
	require.NoError(t, profiles.Update(ctx, "a", map[string]interface{}{"rating_singles": 1300}))

	require.NoError(t, NewTransactor(db).Apply(ctx, &interfaces.Batch{
		RequestID:   "req-3",
		MatchID:     m.ID,
		FromStatus:  model.StatusPending,
		MatchFields: map[string]interface{}{"status": model.StatusFinished},
		Category:    model.CategorySingles,
		ProfileUpdates: []interfaces.ProfileUpdate{
			{PlayerID: "a", RatingDelta: 16},
			{PlayerID: "b", RatingDelta: -16},
		},
		History: []*model.RatingHistory{
			{PlayerID: "a", MatchID: m.ID, Category: model.CategorySingles, Rating: 1216, Delta: 16},
			{PlayerID: "b", MatchID: m.ID, Category: model.CategorySingles, Rating: 1184, Delta: -16},
		},
	}))

	a, err := profiles.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1316, a.RatingSingles)

	hist, err := NewRatingHistoryRepository(db).ListByPlayer(ctx, "a", 0)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, 1316, hist[0].Rating)
	assert.Equal(t, 16, hist[0].Delta)

	hist, err = NewRatingHistoryRepository(db).ListByPlayer(ctx, "b", 0)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, 1184, hist[0].Rating)
}
