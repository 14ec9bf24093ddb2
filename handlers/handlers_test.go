package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/bracket-board/brackets"
	"github.com/Dosada05/bracket-board/models"
	"github.com/Dosada05/bracket-board/repositories"
	"github.com/Dosada05/bracket-board/services"
)

type stubBracketService struct {
	graph *models.BracketGraph
	err   error
	query string
}

func (s *stubBracketService) GetGraph(_ context.Context, _ int) (*models.BracketGraph, error) {
	return s.graph, s.err
}

func (s *stubBracketService) Rebuild(ctx context.Context, id int) (*models.BracketGraph, error) {
	return s.GetGraph(ctx, id)
}

func (s *stubBracketService) GetDirectory(_ context.Context, _ int) ([]models.ParticipantInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	return brackets.SortedDirectory(s.graph.Directory), nil
}

func (s *stubBracketService) SearchParticipants(ctx context.Context, id int, query string) ([]models.ParticipantInfo, error) {
	s.query = query
	return s.GetDirectory(ctx, id)
}

func (s *stubBracketService) Layout() brackets.Layout { return brackets.DefaultLayout() }

type stubExportService struct {
	input services.ExportInput
	err   error
}

func (s *stubExportService) Export(_ context.Context, tournamentID int, input services.ExportInput) ([]services.ExportResult, error) {
	s.input = input
	if s.err != nil {
		return nil, s.err
	}
	return []services.ExportResult{{
		Format: services.ExportJSON,
		Key:    fmt.Sprintf("brackets/%d/x.json", tournamentID),
		URL:    "https://cdn.example.test/x.json",
	}}, nil
}

type stubMatchService struct {
	err error
}

func (s *stubMatchService) RecordWinner(_ context.Context, matchID int, input services.RecordWinnerInput) (*models.Match, error) {
	if s.err != nil {
		return nil, s.err
	}
	id := input.ParticipantID
	return &models.Match{ID: matchID, TournamentID: 1, Round: 1, Position: 1, WinnerID: &id, Status: models.MatchStatusCompleted}, nil
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func sampleGraph() *models.BracketGraph {
	a1 := &models.Athlete{ID: 1, FirstName: "Ivan", LastName: "Petrov"}
	a2 := &models.Athlete{ID: 2, FirstName: "Oleg", LastName: "Sidorov"}
	return brackets.Build([]models.Match{
		{ID: 1, Round: 1, Position: 1, Athlete1: a1, Athlete2: a2},
	}, nil, brackets.Options{})
}

func newRouter(bs services.BracketService, es services.ExportService, ms services.MatchService) http.Handler {
	bh := NewBracketHandler(bs, es)
	mh := NewMatchHandler(ms)
	r := chi.NewRouter()
	r.Get("/tournaments/{tournamentID}/bracket", bh.GetGraph)
	r.Get("/tournaments/{tournamentID}/bracket.dot", bh.GetDOT)
	r.Get("/tournaments/{tournamentID}/bracket/participants", bh.ListParticipants)
	r.Post("/tournaments/{tournamentID}/bracket/exports", bh.Export)
	r.Put("/matches/{matchID}/winner", mh.RecordWinner)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetGraph(t *testing.T) {
	bs := &stubBracketService{graph: sampleGraph()}
	h := newRouter(bs, &stubExportService{}, &stubMatchService{})

	rec := do(t, h, http.MethodGet, "/tournaments/1/bracket", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got models.BracketGraph
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Nodes, len(bs.graph.Nodes))
	assert.Len(t, got.Directory, 2)
}

func TestGetGraph_BadID(t *testing.T) {
	h := newRouter(&stubBracketService{graph: sampleGraph()}, &stubExportService{}, &stubMatchService{})

	for _, target := range []string{"/tournaments/abc/bracket", "/tournaments/0/bracket", "/tournaments/-2/bracket"} {
		rec := do(t, h, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestGetDOT(t *testing.T) {
	h := newRouter(&stubBracketService{graph: sampleGraph()}, &stubExportService{}, &stubMatchService{})

	rec := do(t, h, http.MethodGet, "/tournaments/1/bracket.dot", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/vnd.graphviz"))
	assert.Contains(t, rec.Body.String(), "digraph bracket {")
}

func TestListParticipants(t *testing.T) {
	bs := &stubBracketService{graph: sampleGraph()}
	h := newRouter(bs, &stubExportService{}, &stubMatchService{})

	rec := do(t, h, http.MethodGet, "/tournaments/1/bracket/participants?q=petr", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "petr", bs.query)

	var body struct {
		Participants []models.ParticipantInfo `json:"participants"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Participants, 2)
	assert.Equal(t, 1, body.Participants[0].DisplayNumber)
}

func TestExport(t *testing.T) {
	es := &stubExportService{}
	h := newRouter(&stubBracketService{graph: sampleGraph()}, es, &stubMatchService{})

	rec := do(t, h, http.MethodPost, "/tournaments/3/bracket/exports", `{"formats":["json","svg"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []services.ExportFormat{"json", "svg"}, es.input.Formats)
	assert.Contains(t, rec.Body.String(), `"key":"brackets/3/x.json"`)

	rec = do(t, h, http.MethodPost, "/tournaments/3/bracket/exports", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, es.input.Formats)

	rec = do(t, h, http.MethodPost, "/tournaments/3/bracket/exports", `{"formats":"json"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/tournaments/3/bracket/exports", `{"format":["json"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordWinner(t *testing.T) {
	h := newRouter(&stubBracketService{}, &stubExportService{}, &stubMatchService{})

	rec := do(t, h, http.MethodPut, "/matches/5/winner", `{"participant_id":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Match models.Match `json:"match"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 5, body.Match.ID)
	require.NotNil(t, body.Match.WinnerID)
	assert.Equal(t, 2, *body.Match.WinnerID)

	rec = do(t, h, http.MethodPut, "/matches/5/winner", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "body must not be empty")

	rec = do(t, h, http.MethodPut, "/matches/5/winner", `{"participant_id":2}{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: id 1", services.ErrTournamentNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: id 1", services.ErrMatchNotFound), http.StatusNotFound},
		{services.ErrValidationFailed, http.StatusBadRequest},
		{services.ErrUnsupportedExportFormat, http.StatusBadRequest},
		{services.ErrWinnerNotInMatch, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: %w", services.ErrBracketInconsistent, brackets.ErrInvalidBracket), http.StatusUnprocessableEntity},
		{services.ErrResultLocked, http.StatusConflict},
		{repositories.ErrMatchSlotConflict, http.StatusConflict},
		{services.ErrAuthenticationFailed, http.StatusUnauthorized},
		{services.ErrForbiddenOperation, http.StatusForbidden},
		{services.ErrExportsDisabled, http.StatusServiceUnavailable},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			h := newRouter(&stubBracketService{}, &stubExportService{}, &stubMatchService{err: tt.err})
			rec := do(t, h, http.MethodPut, "/matches/1/winner", `{"participant_id":1}`)
			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestInternalErrorDoesNotLeak(t *testing.T) {
	h := newRouter(&stubBracketService{err: errors.New("pq: password authentication failed")}, &stubExportService{}, &stubMatchService{})

	rec := do(t, h, http.MethodGet, "/tournaments/1/bracket", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(stubPinger{}).Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	NewHealthHandler(stubPinger{err: errors.New("down")}).Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"database unavailable"}`, rec.Body.String())
}

func TestWebSocketOrigins(t *testing.T) {
	tests := []struct {
		allowed []string
		origin  string
		want    bool
	}{
		{allowed: []string{"*"}, origin: "https://any.example", want: true},
		{allowed: []string{"https://board.example"}, origin: "", want: true},
		{allowed: []string{"https://board.example"}, origin: "https://board.example", want: true},
		{allowed: []string{"https://board.example"}, origin: "https://evil.example", want: false},
	}

	for _, tt := range tests {
		h := NewWebSocketHandler(brackets.NewHub(nil), tt.allowed, nil)
		req := httptest.NewRequest(http.MethodGet, "/ws/tournaments/1", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		assert.Equal(t, tt.want, h.upgrader.CheckOrigin(req), tt.origin)
	}
}

func TestServeWs_StoppedHubClosesConnection(t *testing.T) {
	hub := brackets.NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	hub.Run(ctx)

	r := chi.NewRouter()
	r.Get("/ws/tournaments/{tournamentID}", NewWebSocketHandler(hub, []string{"*"}, nil).ServeWs)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/tournaments/1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), err.Error())
}
