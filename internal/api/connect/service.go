package connect

import (
	"context"

	"connectrpc.com/connect"
	zlog "github.com/rs/zerolog/log"

	"github.com/beatify/beatify/internal/app/describe"
	"github.com/beatify/beatify/internal/app/generation"
	"github.com/beatify/beatify/internal/app/library"
	"github.com/beatify/beatify/internal/app/notification"
	"github.com/beatify/beatify/internal/domain/playlist"
	"github.com/beatify/beatify/internal/infra/config"
)

// Generator runs the word-to-track pipeline.
type Generator interface {
	Generate(ctx context.Context, word, language string, opts describe.Options) (generation.Result, error)
}

// MusicService implements the MusicService RPC.
type MusicService struct {
	generator Generator
	library   *library.Store
	notifier  *notification.Manager
	config    *config.Config
}

// NewMusicService creates a new MusicService.
func NewMusicService(generator Generator, lib *library.Store, notifier *notification.Manager, cfg *config.Config) *MusicService {
	return &MusicService{
		generator: generator,
		library:   lib,
		notifier:  notifier,
		config:    cfg,
	}
}

func (s *MusicService) ok() Status {
	return Status{Success: true, Code: CodeSuccess, Message: s.config.GetMessage(CodeSuccess)}
}

func (s *MusicService) fail(code, detail string) Status {
	return Status{Success: false, Code: code, Error: s.config.GetMessage(code), Message: detail}
}

func (s *MusicService) failWith(err error) Status {
	return s.fail(classify(err))
}

// Generate turns a word into a stored track.
func (s *MusicService) Generate(
	ctx context.Context,
	req *connect.Request[GenerateRequest],
) (*connect.Response[GenerateResponse], error) {
	result, err := s.generator.Generate(ctx, req.Msg.Word, req.Msg.Language, req.Msg.Options)
	if err != nil {
		return connect.NewResponse(&GenerateResponse{Status: s.failWith(err)}), nil
	}

	s.notifier.Broadcast(notification.Event{
		Type:    notification.EventTrackGenerated,
		TrackID: result.TrackID,
		Title:   result.Track.Title,
		Detail:  string(result.Audio.Engine),
	})

	audio := result.Audio
	return connect.NewResponse(&GenerateResponse{
		Status:    s.ok(),
		TrackID:   result.TrackID,
		Data:      &result.Track,
		AudioInfo: &audio,
	}), nil
}

// GetTrack returns a stored track by ID.
func (s *MusicService) GetTrack(
	ctx context.Context,
	req *connect.Request[GetTrackRequest],
) (*connect.Response[GetTrackResponse], error) {
	t, err := s.library.GetTrack(req.Msg.TrackID)
	if err != nil {
		return connect.NewResponse(&GetTrackResponse{Status: s.failWith(err)}), nil
	}
	return connect.NewResponse(&GetTrackResponse{Status: s.ok(), Track: &t}), nil
}

// ListTracks returns summaries of all stored tracks.
func (s *MusicService) ListTracks(
	ctx context.Context,
	req *connect.Request[ListTracksRequest],
) (*connect.Response[ListTracksResponse], error) {
	return connect.NewResponse(&ListTracksResponse{
		Status: s.ok(),
		Tracks: s.library.ListTracks(),
	}), nil
}

// CreatePlaylist creates a playlist from existing tracks.
func (s *MusicService) CreatePlaylist(
	ctx context.Context,
	req *connect.Request[CreatePlaylistRequest],
) (*connect.Response[CreatePlaylistResponse], error) {
	p, err := s.library.CreatePlaylist(req.Msg.Name, req.Msg.TrackIDs)
	if err != nil {
		return connect.NewResponse(&CreatePlaylistResponse{Status: s.failWith(err)}), nil
	}

	s.notifier.Broadcast(notification.Event{
		Type:       notification.EventPlaylistCreated,
		PlaylistID: p.ID,
		Title:      p.Name,
	})
	return connect.NewResponse(&CreatePlaylistResponse{Status: s.ok(), Playlist: &p}), nil
}

// ListPlaylists returns summaries of all playlists.
func (s *MusicService) ListPlaylists(
	ctx context.Context,
	req *connect.Request[ListPlaylistsRequest],
) (*connect.Response[ListPlaylistsResponse], error) {
	return connect.NewResponse(&ListPlaylistsResponse{
		Status:    s.ok(),
		Playlists: s.library.ListPlaylists(),
	}), nil
}

// GetPlaylist returns a playlist with its resolved tracks.
func (s *MusicService) GetPlaylist(
	ctx context.Context,
	req *connect.Request[GetPlaylistRequest],
) (*connect.Response[GetPlaylistResponse], error) {
	p, tracks, err := s.library.GetPlaylistWithTracks(req.Msg.PlaylistID)
	if err != nil {
		return connect.NewResponse(&GetPlaylistResponse{Status: s.failWith(err)}), nil
	}
	return connect.NewResponse(&GetPlaylistResponse{
		Status:     s.ok(),
		Playlist:   &p,
		TracksData: tracks,
	}), nil
}

// UpdatePlaylist applies one of the add, remove, rename or reorder actions.
func (s *MusicService) UpdatePlaylist(
	ctx context.Context,
	req *connect.Request[UpdatePlaylistRequest],
) (*connect.Response[UpdatePlaylistResponse], error) {
	msg := req.Msg

	var (
		p        playlist.Playlist
		affected int
		err      error
	)
	switch msg.Action {
	case ActionAdd:
		affected, p, err = s.library.AddTracks(msg.PlaylistID, msg.TrackIDs)
	case ActionRemove:
		affected, p, err = s.library.RemoveTracks(msg.PlaylistID, msg.TrackIDs)
	case ActionRename:
		p, err = s.library.RenamePlaylist(msg.PlaylistID, msg.Name)
	case ActionReorder:
		if len(msg.OrderedTrackIDs) == 0 {
			return connect.NewResponse(&UpdatePlaylistResponse{
				Status: s.fail(CodeValidationError, "ordered_track_ids is required"),
			}), nil
		}
		p, err = s.library.ReorderTracks(msg.PlaylistID, msg.OrderedTrackIDs)
	default:
		return connect.NewResponse(&UpdatePlaylistResponse{
			Status: s.fail(CodeInvalidAction, "Invalid action. Use: add, remove, rename, reorder"),
		}), nil
	}
	if err != nil {
		return connect.NewResponse(&UpdatePlaylistResponse{Status: s.failWith(err)}), nil
	}

	s.notifier.Broadcast(notification.Event{
		Type:       notification.EventPlaylistUpdated,
		PlaylistID: p.ID,
		Title:      p.Name,
		Detail:     msg.Action,
	})
	return connect.NewResponse(&UpdatePlaylistResponse{
		Status:   s.ok(),
		Playlist: &p,
		Affected: affected,
	}), nil
}

// DeletePlaylist removes a playlist and returns it.
func (s *MusicService) DeletePlaylist(
	ctx context.Context,
	req *connect.Request[DeletePlaylistRequest],
) (*connect.Response[DeletePlaylistResponse], error) {
	p, err := s.library.DeletePlaylist(req.Msg.PlaylistID)
	if err != nil {
		return connect.NewResponse(&DeletePlaylistResponse{Status: s.failWith(err)}), nil
	}

	s.notifier.Broadcast(notification.Event{
		Type:       notification.EventPlaylistDeleted,
		PlaylistID: p.ID,
		Title:      p.Name,
	})
	return connect.NewResponse(&DeletePlaylistResponse{Status: s.ok(), Deleted: &p}), nil
}

// SubscribeEvents streams library events until the client disconnects or
// the notifier is closed.
func (s *MusicService) SubscribeEvents(
	ctx context.Context,
	req *connect.Request[SubscribeEventsRequest],
	stream *connect.ServerStream[notification.Event],
) error {
	subscriptionID := s.notifier.Subscribe(&eventStreamAdapter{stream: stream})
	zlog.Debug().Msgf("event subscriber joined: id=%s", subscriptionID)

	select {
	case <-ctx.Done():
	case <-s.notifier.Done():
	}

	s.notifier.Unsubscribe(subscriptionID)
	zlog.Debug().Msgf("event subscriber left: id=%s", subscriptionID)
	return nil
}

// eventStreamAdapter adapts connect.ServerStream to notification.Stream.
type eventStreamAdapter struct {
	stream *connect.ServerStream[notification.Event]
}

func (a *eventStreamAdapter) Send(event *notification.Event) error {
	return a.stream.Send(event)
}
