package connect

import (
	"github.com/beatify/beatify/internal/app/describe"
	"github.com/beatify/beatify/internal/domain/playlist"
	"github.com/beatify/beatify/internal/domain/track"
)

const (
	ServiceName = "beatify.v1.MusicService"

	GenerateProcedure        = "/" + ServiceName + "/Generate"
	GetTrackProcedure        = "/" + ServiceName + "/GetTrack"
	ListTracksProcedure      = "/" + ServiceName + "/ListTracks"
	CreatePlaylistProcedure  = "/" + ServiceName + "/CreatePlaylist"
	ListPlaylistsProcedure   = "/" + ServiceName + "/ListPlaylists"
	GetPlaylistProcedure     = "/" + ServiceName + "/GetPlaylist"
	UpdatePlaylistProcedure  = "/" + ServiceName + "/UpdatePlaylist"
	DeletePlaylistProcedure  = "/" + ServiceName + "/DeletePlaylist"
	SubscribeEventsProcedure = "/" + ServiceName + "/SubscribeEvents"
)

// Update actions accepted by UpdatePlaylist.
const (
	ActionAdd     = "add"
	ActionRemove  = "remove"
	ActionRename  = "rename"
	ActionReorder = "reorder"
)

// Status is embedded in every unary response.
type Status struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// ResultCode returns the status code.
func (s Status) ResultCode() string {
	return s.Code
}

func (s *Status) setStatus(st Status) {
	*s = st
}

type GenerateRequest struct {
	Word     string           `json:"word"`
	Language string           `json:"language,omitempty"`
	Options  describe.Options `json:"options"`
}

type GenerateResponse struct {
	Status
	TrackID   string           `json:"track_id,omitempty"`
	Data      *track.Track     `json:"data,omitempty"`
	AudioInfo *track.AudioInfo `json:"audio_info,omitempty"`
}

type GetTrackRequest struct {
	TrackID string `json:"track_id"`
}

type GetTrackResponse struct {
	Status
	Track *track.Track `json:"track,omitempty"`
}

type ListTracksRequest struct{}

type ListTracksResponse struct {
	Status
	Tracks []track.Summary `json:"tracks"`
}

type CreatePlaylistRequest struct {
	Name     string   `json:"name"`
	TrackIDs []string `json:"track_ids"`
}

type CreatePlaylistResponse struct {
	Status
	Playlist *playlist.Playlist `json:"playlist,omitempty"`
}

type ListPlaylistsRequest struct{}

type ListPlaylistsResponse struct {
	Status
	Playlists []playlist.Summary `json:"playlists"`
}

type GetPlaylistRequest struct {
	PlaylistID string `json:"playlist_id"`
}

type GetPlaylistResponse struct {
	Status
	Playlist   *playlist.Playlist `json:"playlist,omitempty"`
	TracksData []track.Track      `json:"tracks_data,omitempty"`
}

type UpdatePlaylistRequest struct {
	PlaylistID      string   `json:"playlist_id"`
	Action          string   `json:"action"`
	TrackIDs        []string `json:"track_ids,omitempty"`
	Name            string   `json:"name,omitempty"`
	OrderedTrackIDs []string `json:"ordered_track_ids,omitempty"`
}

type UpdatePlaylistResponse struct {
	Status
	Playlist *playlist.Playlist `json:"playlist,omitempty"`
	Affected int                `json:"affected"` // tracks added or removed
}

type DeletePlaylistRequest struct {
	PlaylistID string `json:"playlist_id"`
}

type DeletePlaylistResponse struct {
	Status
	Deleted *playlist.Playlist `json:"deleted,omitempty"`
}

type SubscribeEventsRequest struct{}
