package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RallyGoGo/RallyGoGo-sub000/internal/config"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/model"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/repository"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/service"
	"github.com/RallyGoGo/RallyGoGo-sub000/internal/testutil"
)

type testServer struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{Venue: config.VenueConfig{Courts: []string{"Court 1", "Court 2"}, Timezone: "UTC"}}
	profiles := repository.NewProfileRepository(db)
	matches := repository.NewMatchRepository(db)
	queueSvc := service.NewQueueService(profiles, repository.NewQueueRepository(db), matches, logger, time.UTC)
	matchSvc := service.NewMatchService(profiles, matches, repository.NewTransactor(db), queueSvc, cfg, logger)
	profileSvc := service.NewProfileService(profiles, repository.NewRatingHistoryRepository(db), logger)

	r := gin.New()
	RegisterRoutes(r,
		NewQueueHandler(queueSvc, logger),
		NewMatchHandler(matchSvc, logger),
		NewProfileHandler(profileSvc, queueSvc, logger),
	)
	return &testServer{t: t, engine: r}
}

func (s *testServer) do(method, path, actor string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if actor != "" {
		req.Header.Set(ActorHeader, actor)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *testServer) register(name string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/profiles", "", gin.H{"name": name, "gender": "M"})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[model.Profile](s.t, w).ID
}

func TestAPI_MatchFlow(t *testing.T) {
	s := newTestServer(t)
	var ids []string
	for i := 1; i <= 4; i++ {
		id := s.register(fmt.Sprintf("player-%d", i))
		ids = append(ids, id)
		w := s.do(http.MethodPost, "/api/queue", id, gin.H{"departure_time": "23:59"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	outsider := s.register("outsider")

	w := s.do(http.MethodGet, "/api/queue", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(4), decode[map[string]interface{}](t, w)["count"])

	w = s.do(http.MethodPost, "/api/courts/Court%201/auto-match", "", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	m := decode[model.Match](t, w)
	assert.Equal(t, model.StatusDraft, m.Status)
	path := fmt.Sprintf("/api/matches/%d", m.ID)

	for _, step := range []string{"start", "end"} {
		w = s.do(http.MethodPost, path+"/"+step, "", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = s.do(http.MethodPost, path+"/report", *m.Player1, gin.H{"score_1": 21, "score_2": 15})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	m = decode[model.Match](t, w)
	assert.Equal(t, model.StatusPending, m.Status)
	assert.Equal(t, model.WinnerTeam1, *m.WinnerTeam)
	assert.Nil(t, m.CourtName)

	w = s.do(http.MethodPost, path+"/confirm", outsider, nil, IdempotencyHeader, "req-out")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "not_participant", decode[map[string]interface{}](t, w)["code"])

	w = s.do(http.MethodPost, path+"/confirm", *m.Player3, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for i := 0; i < 2; i++ {
		w = s.do(http.MethodPost, path+"/confirm", *m.Player3, gin.H{"request_id": "req-1"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, model.StatusFinished, decode[model.Match](t, w).Status)
	}

	w = s.do(http.MethodGet, "/api/profiles/"+*m.Player1+"/history", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	hist := decode[map[string][]model.RatingHistory](t, w)["history"]
	require.Len(t, hist, 1)
	assert.Equal(t, 16, hist[0].Delta)

	w = s.do(http.MethodGet, "/api/rankings?category=MEN_D&limit=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	players := decode[map[string]json.RawMessage](t, w)["players"]
	var ranked []model.Profile
	require.NoError(t, json.Unmarshal(players, &ranked))
	require.Len(t, ranked, 2)
	assert.Equal(t, 1216, ranked[0].RatingMenD)

	w = s.do(http.MethodGet, "/api/matches?status=finished", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string][]model.Match](t, w)["matches"], 1)

	w = s.do(http.MethodGet, "/api/queue", "", nil)
	assert.Equal(t, float64(4), decode[map[string]interface{}](t, w)["count"])
}

func TestAPI_Errors(t *testing.T) {
	s := newTestServer(t)
	member := s.register("member")

	tests := []struct {
		name   string
		method string
		path   string
		actor  string
		body   interface{}
		status int
	}{
		{"bad match id", http.MethodGet, "/api/matches/abc", "", nil, http.StatusBadRequest},
		{"missing match", http.MethodGet, "/api/matches/42", "", nil, http.StatusNotFound},
		{"bad status filter", http.MethodGet, "/api/matches?status=LIVE", "", nil, http.StatusBadRequest},
		{"join without actor", http.MethodPost, "/api/queue", "", nil, http.StatusForbidden},
		{"bad departure", http.MethodPost, "/api/queue", member, gin.H{"departure_time": "99:99"}, http.StatusBadRequest},
		{"leave when not queued", http.MethodDelete, "/api/queue/me", member, nil, http.StatusNotFound},
		{"unknown court", http.MethodPost, "/api/courts/Court%209/auto-match", "", nil, http.StatusBadRequest},
		{"empty queue", http.MethodPost, "/api/courts/Court%201/auto-match", "", nil, http.StatusBadRequest},
		{"manual bad body", http.MethodPost, "/api/courts/Court%201/matches", "", "not-an-object", http.StatusBadRequest},
		{"bad ranking category", http.MethodGet, "/api/rankings?category=VIP_MATCH", "", nil, http.StatusBadRequest},
		{"bad ranking limit", http.MethodGet, "/api/rankings?limit=ten", "", nil, http.StatusBadRequest},
		{"purge by member", http.MethodDelete, "/api/admin/guests", member, nil, http.StatusForbidden},
		{"reset by member", http.MethodDelete, "/api/admin/queue", member, nil, http.StatusForbidden},
		{"register without name", http.MethodPost, "/api/profiles", "", gin.H{"gender": "F"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(tt.method, tt.path, tt.actor, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if w.Code >= 400 {
				body := decode[map[string]interface{}](t, w)
				assert.NotEmpty(t, body["error"])
				assert.NotEmpty(t, body["code"])
			}
		})
	}
}

func TestAPI_QueueSelfService(t *testing.T) {
	s := newTestServer(t)
	id := s.register("solo")

	w := s.do(http.MethodPost, "/api/queue", id, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/queue", id, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPatch, "/api/queue/me", id, gin.H{"departure_time": "21:05"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "21:05", decode[model.QueueEntry](t, w).DepartureTime)

	w = s.do(http.MethodDelete, "/api/queue/me", id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusOf(assert.AnError))
}
