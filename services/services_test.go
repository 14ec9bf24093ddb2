package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/bracket-board/brackets"
	"github.com/Dosada05/bracket-board/cache"
	"github.com/Dosada05/bracket-board/models"
	"github.com/Dosada05/bracket-board/repositories"
	"github.com/Dosada05/bracket-board/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTournamentRepo struct {
	mu          sync.Mutex
	tournaments map[int]*models.Tournament
	execs       []repositories.SQLExecutor
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.execs = append(r.execs, exec)
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return t, nil
}

// memMatchRepo хранит матчи в памяти; участники для SetSlot берутся из athletes.
type memMatchRepo struct {
	mu       sync.Mutex
	matches  map[int]*models.Match
	athletes map[int]*models.Athlete
	listErr  error
	listed   int
}

func (r *memMatchRepo) ListByTournament(_ context.Context, tournamentID int) ([]models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listed++
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []models.Match
	for _, m := range r.matches {
		if m.TournamentID == tournamentID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memMatchRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memMatchRepo) GetByPosition(_ context.Context, _ repositories.SQLExecutor, tournamentID, round, position int) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.matches {
		if m.TournamentID == tournamentID && m.Round == round && m.Position == position {
			cp := *m
			return &cp, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (r *memMatchRepo) SetResult(_ context.Context, _ repositories.SQLExecutor, matchID int, winnerID, winnerTeamID *int, status models.MatchStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.matches[matchID]
	m.WinnerID, m.WinnerTeamID, m.Status = winnerID, winnerTeamID, status
	return nil
}

func (r *memMatchRepo) SetSlot(_ context.Context, _ repositories.SQLExecutor, matchID, slot int, participantID *int, _ bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.matches[matchID]
	var a *models.Athlete
	if participantID != nil {
		a = r.athletes[*participantID]
	}
	if slot == 1 {
		m.Athlete1 = a
	} else {
		m.Athlete2 = a
	}
	return nil
}

// txExec помечает исполнителя, выданного directTx, чтобы тесты видели, какие
// чтения шли внутри транзакции.
type txExec struct{ repositories.SQLExecutor }

type directTx struct {
	calls int
	exec  *txExec
}

func (d *directTx) WithinTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	d.calls++
	if d.exec == nil {
		d.exec = &txExec{}
	}
	return fn(d.exec)
}

type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []brackets.WebSocketMessage
}

func (b *recordingBroadcaster) BroadcastToRoom(roomID string, message interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	msg := message.(brackets.WebSocketMessage)
	msg.RoomID = roomID
	b.messages = append(b.messages, msg)
}

type memUploader struct {
	mu      sync.Mutex
	objects map[string]string
	types   map[string]string
}

func newMemUploader() *memUploader {
	return &memUploader{objects: map[string]string{}, types: map[string]string{}}
}

func (u *memUploader) Upload(_ context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.objects[key] = string(body)
	u.types[key] = contentType
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *memUploader) Delete(_ context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.objects, key)
	return nil
}

func (u *memUploader) GetPublicURL(key string) string {
	return "https://cdn.example.test/" + key
}

type fixture struct {
	tournaments *fakeTournamentRepo
	matches     *memMatchRepo
	cache       *cache.MemoryCache
	tx          *directTx
	broadcaster *recordingBroadcaster
	brackets    BracketService
	service     MatchService
}

// newFixture: турнир 1, четыре спортсмена, полуфиналы 1 и 2, финал 3.
func newFixture() *fixture {
	athletes := map[int]*models.Athlete{
		1: {ID: 1, FirstName: "Ivan", LastName: "Petrov"},
		2: {ID: 2, FirstName: "Oleg", LastName: "Sidorov"},
		3: {ID: 3, FirstName: "Anna", LastName: "Smirnova"},
		4: {ID: 4, FirstName: "Petr", LastName: "Ivanov"},
	}
	f := &fixture{
		tournaments: &fakeTournamentRepo{tournaments: map[int]*models.Tournament{
			1: {ID: 1, Name: "U18 -60kg", ParticipantType: models.ParticipantSolo, Status: models.StatusActive},
		}},
		matches: &memMatchRepo{
			athletes: athletes,
			matches: map[int]*models.Match{
				1: {ID: 1, TournamentID: 1, Round: 1, Position: 1, Athlete1: athletes[1], Athlete2: athletes[2], Status: models.StatusScheduled},
				2: {ID: 2, TournamentID: 1, Round: 1, Position: 2, Athlete1: athletes[3], Athlete2: athletes[4], Status: models.StatusScheduled},
				3: {ID: 3, TournamentID: 1, Round: 2, Position: 1, Status: models.StatusScheduled},
			},
		},
		cache:       cache.NewMemoryCache(0),
		tx:          &directTx{},
		broadcaster: &recordingBroadcaster{},
	}
	f.brackets = NewBracketService(f.tournaments, f.matches, f.cache, brackets.Layout{}, discardLogger())
	f.service = NewMatchService(f.tournaments, f.matches, f.tx, f.brackets, f.broadcaster, discardLogger())
	return f
}

func TestBracketService_GetGraph(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	graph, err := f.brackets.GetGraph(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, graph.Directory, 4)
	assert.NotEmpty(t, graph.Nodes)
	assert.Equal(t, brackets.DefaultLayout(), f.brackets.Layout())

	_, err = f.brackets.GetGraph(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, f.matches.listed, "second read must come from the cache")
}

func TestBracketService_Rebuild(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.brackets.GetGraph(ctx, 1)
	require.NoError(t, err)
	_, err = f.brackets.Rebuild(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, f.matches.listed)
}

func TestBracketService_TournamentNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.brackets.GetGraph(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestBracketService_RepositoryError(t *testing.T) {
	f := newFixture()
	boom := errors.New("connection reset")
	f.matches.listErr = boom

	_, err := f.brackets.GetGraph(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrTournamentNotFound)
}

func TestBracketService_InconsistentBracket(t *testing.T) {
	f := newFixture()
	f.matches.matches[4] = &models.Match{ID: 4, TournamentID: 1, Round: 0, Position: 1}

	_, err := f.brackets.GetGraph(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBracketInconsistent)
	assert.ErrorIs(t, err, brackets.ErrInvalidBracket)
}

func TestBracketService_SearchParticipants(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	all, err := f.brackets.SearchParticipants(ctx, 1, "   ")
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i, info := range all {
		assert.Equal(t, i+1, info.DisplayNumber)
	}

	byNumber, err := f.brackets.SearchParticipants(ctx, 1, "#2")
	require.NoError(t, err)
	require.Len(t, byNumber, 1)
	assert.Equal(t, 2, byNumber[0].DisplayNumber)

	none, err := f.brackets.SearchParticipants(ctx, 1, "17")
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)

	byName, err := f.brackets.SearchParticipants(ctx, 1, "smirn")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, 3, byName[0].ParticipantID)

	_, err = f.brackets.SearchParticipants(ctx, 101, "x")
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestMatchService_RecordWinnerAdvances(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	match, err := f.service.RecordWinner(ctx, 2, RecordWinnerInput{ParticipantID: 4})
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusCompleted, match.Status)
	require.NotNil(t, match.WinnerID)
	assert.Equal(t, 4, *match.WinnerID)
	assert.Equal(t, 1, f.tx.calls)

	final := f.matches.matches[3]
	assert.Nil(t, final.Athlete1)
	require.NotNil(t, final.Athlete2)
	assert.Equal(t, 4, final.Athlete2.ID)

	require.Len(t, f.broadcaster.messages, 2)
	room := brackets.RoomForTournament(1)
	assert.Equal(t, brackets.MessageMatchUpdated, f.broadcaster.messages[0].Type)
	assert.Equal(t, room, f.broadcaster.messages[0].RoomID)
	assert.Equal(t, brackets.MessageBracketUpdated, f.broadcaster.messages[1].Type)

	graph, ok := f.broadcaster.messages[1].Payload.(*models.BracketGraph)
	require.True(t, ok)
	var winners int
	for _, n := range graph.Nodes {
		if n.Data.IsWinner && n.Data.Round == 1 {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}

func TestMatchService_TournamentReadInsideTx(t *testing.T) {
	f := newFixture()

	_, err := f.service.RecordWinner(context.Background(), 1, RecordWinnerInput{ParticipantID: 1})
	require.NoError(t, err)

	require.NotNil(t, f.tx.exec)
	require.NotEmpty(t, f.tournaments.execs)
	// первое чтение турнира идет в транзакции, пересборка сетки после коммита уже без нее
	assert.Same(t, f.tx.exec, f.tournaments.execs[0])
	for _, exec := range f.tournaments.execs[1:] {
		assert.Nil(t, exec)
	}
}

func TestMatchService_RecordWinnerFinal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.RecordWinner(ctx, 1, RecordWinnerInput{ParticipantID: 1})
	require.NoError(t, err)
	_, err = f.service.RecordWinner(ctx, 2, RecordWinnerInput{ParticipantID: 3})
	require.NoError(t, err)
	_, err = f.service.RecordWinner(ctx, 3, RecordWinnerInput{ParticipantID: 3})
	require.NoError(t, err)

	graph, err := f.brackets.GetGraph(ctx, 1)
	require.NoError(t, err)
	var champion *models.GraphNode
	for i := range graph.Nodes {
		if graph.Nodes[i].Type == models.NodeTypeChampion {
			champion = &graph.Nodes[i]
		}
	}
	require.NotNil(t, champion)
	assert.True(t, champion.Data.IsFinalWinner)
	assert.Contains(t, champion.Data.Label, "Smirnova")
}

func TestMatchService_RecordWinnerErrors(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(f *fixture)
		matchID int
		input   RecordWinnerInput
		wantErr error
	}{
		{name: "non-positive participant", matchID: 1, input: RecordWinnerInput{}, wantErr: ErrValidationFailed},
		{name: "unknown match", matchID: 99, input: RecordWinnerInput{ParticipantID: 1}, wantErr: ErrMatchNotFound},
		{name: "participant not in match", matchID: 1, input: RecordWinnerInput{ParticipantID: 3}, wantErr: ErrWinnerNotInMatch},
		{
			name: "unknown tournament",
			prepare: func(f *fixture) {
				delete(f.tournaments.tournaments, 1)
			},
			matchID: 1,
			input:   RecordWinnerInput{ParticipantID: 1},
			wantErr: ErrTournamentNotFound,
		},
		{
			name: "next match already decided",
			prepare: func(f *fixture) {
				final := f.matches.matches[3]
				final.Athlete1 = f.matches.athletes[1]
				final.Athlete2 = f.matches.athletes[3]
				final.WinnerID = &final.Athlete1.ID
				final.Status = models.MatchStatusCompleted
			},
			matchID: 1,
			input:   RecordWinnerInput{ParticipantID: 2},
			wantErr: ErrResultLocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.prepare != nil {
				tt.prepare(f)
			}
			_, err := f.service.RecordWinner(context.Background(), tt.matchID, tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.broadcaster.messages)
		})
	}
}

func TestMatchService_SameWinnerOnDecidedNextMatch(t *testing.T) {
	f := newFixture()
	final := f.matches.matches[3]
	final.Athlete1 = f.matches.athletes[1]
	final.Athlete2 = f.matches.athletes[3]
	final.WinnerID = &final.Athlete2.ID
	final.Status = models.MatchStatusCompleted

	_, err := f.service.RecordWinner(context.Background(), 1, RecordWinnerInput{ParticipantID: 1})
	require.NoError(t, err)
}

func TestExportService_Disabled(t *testing.T) {
	f := newFixture()
	svc := NewExportService(f.brackets, nil, discardLogger())

	_, err := svc.Export(context.Background(), 1, ExportInput{})
	assert.ErrorIs(t, err, ErrExportsDisabled)
}

func TestExportService_UnsupportedFormat(t *testing.T) {
	f := newFixture()
	svc := NewExportService(f.brackets, newMemUploader(), discardLogger())

	_, err := svc.Export(context.Background(), 1, ExportInput{Formats: []ExportFormat{"json", "pdf"}})
	assert.ErrorIs(t, err, ErrUnsupportedExportFormat)
}

func TestExportService_UploadsFormats(t *testing.T) {
	f := newFixture()
	uploader := newMemUploader()
	svc := NewExportService(f.brackets, uploader, discardLogger())

	results, err := svc.Export(context.Background(), 1, ExportInput{Formats: []ExportFormat{"DOT", "json", "dot"}})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, ExportDOT, results[0].Format)
	assert.Equal(t, ExportJSON, results[1].Format)
	for _, r := range results {
		assert.True(t, strings.HasPrefix(r.Key, "brackets/1/"), r.Key)
		assert.True(t, strings.HasSuffix(r.Key, "."+string(r.Format)), r.Key)
		assert.Equal(t, "https://cdn.example.test/"+r.Key, r.URL)
		assert.Equal(t, exportContentTypes[r.Format], uploader.types[r.Key])
	}
	assert.Contains(t, uploader.objects[results[0].Key], "digraph")
	assert.Contains(t, uploader.objects[results[1].Key], `"participant_directory"`)
}

func TestExportService_TournamentNotFound(t *testing.T) {
	f := newFixture()
	svc := NewExportService(f.brackets, newMemUploader(), discardLogger())

	_, err := svc.Export(context.Background(), 7, ExportInput{Formats: []ExportFormat{ExportJSON}})
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestNormalizeFormats(t *testing.T) {
	all, err := normalizeFormats(nil)
	require.NoError(t, err)
	assert.Equal(t, []ExportFormat{ExportJSON, ExportDOT, ExportSVG}, all)

	got, err := normalizeFormats([]ExportFormat{" SVG ", "svg", "json"})
	require.NoError(t, err)
	assert.Equal(t, []ExportFormat{ExportSVG, ExportJSON}, got)
}
