package connect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beatify/beatify/internal/app/audio"
	"github.com/beatify/beatify/internal/app/describe"
	"github.com/beatify/beatify/internal/app/generation"
	"github.com/beatify/beatify/internal/app/library"
	"github.com/beatify/beatify/internal/app/normalize"
	"github.com/beatify/beatify/internal/app/notification"
	"github.com/beatify/beatify/internal/app/wordcheck"
	"github.com/beatify/beatify/internal/domain/track"
	"github.com/beatify/beatify/internal/infra/config"
	"github.com/beatify/beatify/internal/infra/llm"
	"github.com/beatify/beatify/internal/infra/memstore"
)

type stubDescriber struct {
	err error
}

func (d *stubDescriber) Describe(_ context.Context, word, _ string, _ describe.Options) (describe.Description, error) {
	if d.err != nil {
		return describe.Description{}, d.err
	}
	return describe.Description{Raw: map[string]any{
		"track": map[string]any{
			"title": "Song of " + word,
			"genre": "Ambient",
			"mood":  "peaceful",
		},
	}}, nil
}

type requestRecorder struct {
	mu    sync.Mutex
	codes map[string][]string
}

func (r *requestRecorder) ObserveRequest(procedure, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.codes == nil {
		r.codes = make(map[string][]string)
	}
	r.codes[procedure] = append(r.codes[procedure], code)
}

func (r *requestRecorder) get(procedure string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.codes[procedure]...)
}

type testEnv struct {
	client   *Client
	notifier *notification.Manager
	recorder *requestRecorder
	server   *httptest.Server
}

func newTestEnv(t *testing.T, d *stubDescriber) *testEnv {
	t.Helper()

	cfg := config.Default()
	cfg.Validation.Denylist = []string{"test_bad_word"}
	store := library.NewStore(memstore.NewTrackStore(), memstore.NewPlaylistStore())
	orch := generation.NewOrchestrator(
		wordcheck.New(cfg.Validation, cfg.Music),
		d,
		normalize.New(cfg.LLM.Provider),
		audio.NewResolver(nil, audio.NewPlaceholders(nil, ""), cfg.Audio.Format, nil),
		store,
		nil,
	)
	notifier := notification.NewManager()
	rec := &requestRecorder{}

	svc := NewMusicService(orch, store, notifier, cfg)
	path, handler := NewHandler(svc, connect.WithInterceptors(NewObservabilityInterceptor(rec)))

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	mux.Handle("/health", NewHealthHandler(cfg.Server.Version))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		client:   NewClient(server.Client(), server.URL),
		notifier: notifier,
		recorder: rec,
		server:   server,
	}
}

func (e *testEnv) generate(t *testing.T, word string) string {
	t.Helper()
	resp, err := e.client.Generate(context.Background(), &GenerateRequest{Word: word})
	require.NoError(t, err)
	require.True(t, resp.Success, "generate %q: %s", word, resp.Message)
	return resp.TrackID
}

func TestMusicService_Generate(t *testing.T) {
	env := newTestEnv(t, &stubDescriber{})

	resp, err := env.client.Generate(context.Background(), &GenerateRequest{Word: "  ocean "})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, CodeSuccess, resp.Code)
	require.NotNil(t, resp.Data)
	assert.Equal(t, resp.TrackID, resp.Data.ID)
	assert.Equal(t, "Song of ocean", resp.Data.Title)
	assert.Equal(t, "ocean", resp.Data.Keyword)
	require.NotNil(t, resp.AudioInfo)
	assert.Equal(t, track.EnginePlaceholder, resp.AudioInfo.Engine)
	assert.NotEmpty(t, resp.AudioInfo.URL)

	got, err := env.client.GetTrack(context.Background(), &GetTrackRequest{TrackID: resp.TrackID})
	require.NoError(t, err)
	assert.True(t, got.Success)
	assert.Equal(t, "Song of ocean", got.Track.Title)

	assert.Equal(t, []string{CodeSuccess}, env.recorder.get(GenerateProcedure))
}

func TestMusicService_Generate_Failures(t *testing.T) {
	t.Run("invalid word", func(t *testing.T) {
		env := newTestEnv(t, &stubDescriber{})

		resp, err := env.client.Generate(context.Background(), &GenerateRequest{Word: "hello!"})
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, CodeValidationError, resp.Code)
		assert.Contains(t, resp.Message, "invalid characters")
		assert.Nil(t, resp.Data)

		list, err := env.client.ListTracks(context.Background())
		require.NoError(t, err)
		assert.Empty(t, list.Tracks)
	})

	t.Run("upstream failure", func(t *testing.T) {
		env := newTestEnv(t, &stubDescriber{err: &llm.UpstreamError{StatusCode: 500, Body: "boom"}})

		resp, err := env.client.Generate(context.Background(), &GenerateRequest{Word: "ocean"})
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, CodeGenerationFailed, resp.Code)
		assert.Equal(t, "Failed to generate music", resp.Error)
		assert.Contains(t, resp.Message, "500")
		assert.Equal(t, []string{CodeGenerationFailed}, env.recorder.get(GenerateProcedure))
	})
}

func TestMusicService_TrackNotFound(t *testing.T) {
	env := newTestEnv(t, &stubDescriber{})

	resp, err := env.client.GetTrack(context.Background(), &GetTrackRequest{TrackID: "trk_missing"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, CodeNotFound, resp.Code)
	assert.Equal(t, "Track not found", resp.Message)
}

func TestMusicService_PlaylistLifecycle(t *testing.T) {
	env := newTestEnv(t, &stubDescriber{})
	ctx := context.Background()
	a := env.generate(t, "ocean")
	b := env.generate(t, "forest")
	c := env.generate(t, "desert")

	created, err := env.client.CreatePlaylist(ctx, &CreatePlaylistRequest{
		Name:     "  Nature  ",
		TrackIDs: []string{a, "trk_missing", b},
	})
	require.NoError(t, err)
	require.True(t, created.Success)
	pl := created.Playlist
	assert.Equal(t, "Nature", pl.Name)
	assert.Equal(t, []string{a, b}, pl.Tracks)

	added, err := env.client.UpdatePlaylist(ctx, &UpdatePlaylistRequest{
		PlaylistID: pl.ID, Action: ActionAdd, TrackIDs: []string{c, a, "trk_missing"},
	})
	require.NoError(t, err)
	require.True(t, added.Success)
	assert.Equal(t, 1, added.Affected)
	assert.Equal(t, []string{a, b, c}, added.Playlist.Tracks)

	reordered, err := env.client.UpdatePlaylist(ctx, &UpdatePlaylistRequest{
		PlaylistID: pl.ID, Action: ActionReorder, OrderedTrackIDs: []string{c, a, b},
	})
	require.NoError(t, err)
	require.True(t, reordered.Success)
	assert.Equal(t, []string{c, a, b}, reordered.Playlist.Tracks)

	renamed, err := env.client.UpdatePlaylist(ctx, &UpdatePlaylistRequest{
		PlaylistID: pl.ID, Action: ActionRename, Name: "Earth",
	})
	require.NoError(t, err)
	require.True(t, renamed.Success)
	assert.Equal(t, "Earth", renamed.Playlist.Name)

	removed, err := env.client.UpdatePlaylist(ctx, &UpdatePlaylistRequest{
		PlaylistID: pl.ID, Action: ActionRemove, TrackIDs: []string{a},
	})
	require.NoError(t, err)
	require.True(t, removed.Success)
	assert.Equal(t, 1, removed.Affected)
	assert.Equal(t, []string{c, b}, removed.Playlist.Tracks)

	got, err := env.client.GetPlaylist(ctx, &GetPlaylistRequest{PlaylistID: pl.ID})
	require.NoError(t, err)
	require.True(t, got.Success)
	require.Len(t, got.TracksData, 2)
	assert.Equal(t, c, got.TracksData[0].ID)
	assert.Equal(t, b, got.TracksData[1].ID)

	list, err := env.client.ListPlaylists(ctx)
	require.NoError(t, err)
	require.Len(t, list.Playlists, 1)
	assert.Equal(t, 2, list.Playlists[0].TrackCount)

	deleted, err := env.client.DeletePlaylist(ctx, &DeletePlaylistRequest{PlaylistID: pl.ID})
	require.NoError(t, err)
	require.True(t, deleted.Success)
	assert.Equal(t, "Earth", deleted.Deleted.Name)

	again, err := env.client.DeletePlaylist(ctx, &DeletePlaylistRequest{PlaylistID: pl.ID})
	require.NoError(t, err)
	assert.Equal(t, CodeNotFound, again.Code)
	assert.Equal(t, "Playlist not found", again.Message)
}

func TestMusicService_PlaylistErrors(t *testing.T) {
	env := newTestEnv(t, &stubDescriber{})
	ctx := context.Background()
	a := env.generate(t, "ocean")
	b := env.generate(t, "forest")

	tests := []struct {
		name string
		call func(t *testing.T) Status
		code string
	}{
		{
			name: "empty name",
			call: func(t *testing.T) Status {
				r, err := env.client.CreatePlaylist(ctx, &CreatePlaylistRequest{Name: "   ", TrackIDs: []string{a}})
				require.NoError(t, err)
				return r.Status
			},
			code: CodeEmptyName,
		},
		{
			name: "no valid tracks",
			call: func(t *testing.T) Status {
				r, err := env.client.CreatePlaylist(ctx, &CreatePlaylistRequest{Name: "x", TrackIDs: []string{"trk_missing"}})
				require.NoError(t, err)
				return r.Status
			},
			code: CodeNoValidTracks,
		},
		{
			name: "unknown playlist",
			call: func(t *testing.T) Status {
				r, err := env.client.GetPlaylist(ctx, &GetPlaylistRequest{PlaylistID: "pl_missing"})
				require.NoError(t, err)
				return r.Status
			},
			code: CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := tt.call(t)
			assert.False(t, st.Success)
			assert.Equal(t, tt.code, st.Code)
			assert.NotEmpty(t, st.Error)
		})
	}

	created, err := env.client.CreatePlaylist(ctx, &CreatePlaylistRequest{Name: "Mix", TrackIDs: []string{a, b}})
	require.NoError(t, err)
	id := created.Playlist.ID

	updates := []struct {
		name string
		req  *UpdatePlaylistRequest
		code string
	}{
		{name: "invalid action", req: &UpdatePlaylistRequest{PlaylistID: id, Action: "shuffle"}, code: CodeInvalidAction},
		{name: "reorder mismatch", req: &UpdatePlaylistRequest{PlaylistID: id, Action: ActionReorder, OrderedTrackIDs: []string{a}}, code: CodeMismatch},
		{name: "reorder missing ids", req: &UpdatePlaylistRequest{PlaylistID: id, Action: ActionReorder}, code: CodeValidationError},
		{name: "rename empty", req: &UpdatePlaylistRequest{PlaylistID: id, Action: ActionRename, Name: " "}, code: CodeEmptyName},
		{name: "unknown playlist", req: &UpdatePlaylistRequest{PlaylistID: "pl_missing", Action: ActionAdd, TrackIDs: []string{a}}, code: CodeNotFound},
	}
	for _, tt := range updates {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := env.client.UpdatePlaylist(ctx, tt.req)
			require.NoError(t, err)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Code)
			assert.Nil(t, resp.Playlist)
		})
	}

	got, err := env.client.GetPlaylist(ctx, &GetPlaylistRequest{PlaylistID: id})
	require.NoError(t, err)
	assert.Equal(t, "Mix", got.Playlist.Name)
	assert.Equal(t, []string{a, b}, got.Playlist.Tracks)
}

func TestMusicService_SubscribeEvents(t *testing.T) {
	env := newTestEnv(t, &stubDescriber{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := env.client.SubscribeEvents(ctx)
	require.NoError(t, err)
	defer stream.Close()

	require.Eventually(t, func() bool {
		return env.notifier.SubscriberCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	id := env.generate(t, "ocean")

	require.True(t, stream.Receive(), "stream error: %v", stream.Err())
	ev := stream.Msg()
	assert.Equal(t, notification.EventTrackGenerated, ev.Type)
	assert.Equal(t, id, ev.TrackID)
	assert.Equal(t, "Song of ocean", ev.Title)
	assert.Equal(t, uint64(1), ev.SequenceNo)
}

func TestMusicService_SubscribeEventsEndsWhenNotifierCloses(t *testing.T) {
	env := newTestEnv(t, &stubDescriber{})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := env.client.SubscribeEvents(ctx)
	require.NoError(t, err)
	defer stream.Close()

	require.Eventually(t, func() bool {
		return env.notifier.SubscriberCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	env.notifier.Close()

	assert.False(t, stream.Receive())
	assert.NoError(t, stream.Err())
	assert.NoError(t, ctx.Err())
}

func TestHealthHandler(t *testing.T) {
	env := newTestEnv(t, &stubDescriber{})

	resp, err := env.server.Client().Get(env.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "OK", body.Status)
	assert.Equal(t, "Beatify API is running", body.Message)
	assert.Equal(t, "1.0.0", body.Version)
}

func TestMusicService_PanicBecomesInternalErrorEnvelope(t *testing.T) {
	rec := &requestRecorder{}
	// a nil library makes the track listing panic as well
	svc := NewMusicService(panicGenerator{}, nil, notification.NewManager(), config.Default())
	path, handler := NewHandler(svc, connect.WithInterceptors(NewObservabilityInterceptor(rec)))

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(server.Client(), server.URL)

	gen, err := client.Generate(context.Background(), &GenerateRequest{Word: "ocean"})
	require.NoError(t, err)
	assert.False(t, gen.Success)
	assert.Equal(t, CodeInternalError, gen.Code)
	assert.Equal(t, "Internal server error", gen.Error)
	assert.Nil(t, gen.Data)

	list, err := client.ListTracks(context.Background())
	require.NoError(t, err)
	assert.False(t, list.Success)
	assert.Equal(t, CodeInternalError, list.Code)

	assert.Equal(t, []string{CodeInternalError}, rec.get(GenerateProcedure))
	assert.Equal(t, []string{CodeInternalError}, rec.get(ListTracksProcedure))
}

type panicGenerator struct{}

func (panicGenerator) Generate(context.Context, string, string, describe.Options) (generation.Result, error) {
	panic("boom")
}
