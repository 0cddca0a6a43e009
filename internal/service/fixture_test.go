package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/RallyGoGo/RallyGoGo-sub000/internal/apperr"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/config"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/interfaces"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/model"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/repository"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/testutil"
)

type fixture struct {
	ctx        context.Context
	db         *gorm.DB
	profiles   interfaces.ProfileStore
	queueStore interfaces.QueueStore
	matchStore interfaces.MatchStore
	history    interfaces.RatingHistoryStore
	queue      *QueueService
	matches    *MatchService
	players    *ProfileService
	now        time.Time
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithQueue(t, nil)
}

// newFixtureWithQueue lets a test wrap the queue store the services see.
func newFixtureWithQueue(t *testing.T, wrap func(interfaces.QueueStore) interfaces.QueueStore) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{
		ctx:        context.Background(),
		db:         db,
		profiles:   repository.NewProfileRepository(db),
		queueStore: repository.NewQueueRepository(db),
		matchStore: repository.NewMatchRepository(db),
		history:    repository.NewRatingHistoryRepository(db),
		now:        time.Date(2026, 10, 19, 19, 0, 0, 0, time.UTC),
	}
	qs := f.queueStore
	if wrap != nil {
		qs = wrap(qs)
	}
	cfg := &config.Config{
		Venue:      config.VenueConfig{Courts: []string{"Court 1", "Court 2"}, Timezone: "UTC"},
		Tournament: config.TournamentConfig{Code: "ace"},
	}
	logger := quietLogger()
	f.queue = NewQueueService(f.profiles, qs, f.matchStore, logger, time.UTC)
	f.queue.SetClock(func() time.Time { return f.now })
	f.matches = NewMatchService(f.profiles, f.matchStore, repository.NewTransactor(db), f.queue, cfg, logger)
	f.players = NewProfileService(f.profiles, f.history, logger)
	return f
}

func (f *fixture) addPlayer(t *testing.T, id string, gender model.Gender, rating int, mods ...func(*model.Profile)) *model.Profile {
	t.Helper()
	p := &model.Profile{
		ID:            id,
		Name:          id,
		Gender:        gender,
		RatingMenD:    rating,
		RatingWomenD:  rating,
		RatingMixed:   rating,
		RatingSingles: rating,
	}
	for _, mod := range mods {
		mod(p)
	}
	require.NoError(t, f.profiles.Insert(f.ctx, p))
	return p
}

func (f *fixture) addAdmin(t *testing.T) string {
	t.Helper()
	f.addPlayer(t, "boss", model.GenderFemale, 1200, func(p *model.Profile) { p.Role = model.RoleAdmin })
	return "boss"
}

func (f *fixture) join(t *testing.T, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := f.queue.Join(f.ctx, id, "")
		require.NoError(t, err)
	}
}

func (f *fixture) profile(t *testing.T, id string) *model.Profile {
	t.Helper()
	p, err := f.profiles.Get(f.ctx, id)
	require.NoError(t, err)
	return p
}

// scoring creates a manual match on Court 1 and walks it to SCORING.
func (f *fixture) scoring(t *testing.T, ids ...string) *model.Match {
	t.Helper()
	m, err := f.matches.ManualMatch(f.ctx, "Court 1", ids, "")
	require.NoError(t, err)
	_, err = f.matches.Start(f.ctx, m.ID)
	require.NoError(t, err)
	m, err = f.matches.End(f.ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusScoring, m.Status)
	return m
}

func (f *fixture) pending(t *testing.T, reporter string, s1, s2 int, ids ...string) *model.Match {
	t.Helper()
	m := f.scoring(t, ids...)
	m, err := f.matches.ReportScore(f.ctx, reporter, m.ID, &s1, &s2, "")
	require.NoError(t, err)
	return m
}

func assertKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperr.KindOf(err), err.Error())
}

func intp(v int) *int { return &v }
