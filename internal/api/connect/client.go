package connect

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/beatify/beatify/internal/app/notification"
)

// Client is a typed MusicService client.
type Client struct {
	generate        *connect.Client[GenerateRequest, GenerateResponse]
	getTrack        *connect.Client[GetTrackRequest, GetTrackResponse]
	listTracks      *connect.Client[ListTracksRequest, ListTracksResponse]
	createPlaylist  *connect.Client[CreatePlaylistRequest, CreatePlaylistResponse]
	listPlaylists   *connect.Client[ListPlaylistsRequest, ListPlaylistsResponse]
	getPlaylist     *connect.Client[GetPlaylistRequest, GetPlaylistResponse]
	updatePlaylist  *connect.Client[UpdatePlaylistRequest, UpdatePlaylistResponse]
	deletePlaylist  *connect.Client[DeletePlaylistRequest, DeletePlaylistResponse]
	subscribeEvents *connect.Client[SubscribeEventsRequest, notification.Event]
}

// NewClient creates a client for the service at baseURL.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)

	return &Client{
		generate:        connect.NewClient[GenerateRequest, GenerateResponse](httpClient, baseURL+GenerateProcedure, opts...),
		getTrack:        connect.NewClient[GetTrackRequest, GetTrackResponse](httpClient, baseURL+GetTrackProcedure, opts...),
		listTracks:      connect.NewClient[ListTracksRequest, ListTracksResponse](httpClient, baseURL+ListTracksProcedure, opts...),
		createPlaylist:  connect.NewClient[CreatePlaylistRequest, CreatePlaylistResponse](httpClient, baseURL+CreatePlaylistProcedure, opts...),
		listPlaylists:   connect.NewClient[ListPlaylistsRequest, ListPlaylistsResponse](httpClient, baseURL+ListPlaylistsProcedure, opts...),
		getPlaylist:     connect.NewClient[GetPlaylistRequest, GetPlaylistResponse](httpClient, baseURL+GetPlaylistProcedure, opts...),
		updatePlaylist:  connect.NewClient[UpdatePlaylistRequest, UpdatePlaylistResponse](httpClient, baseURL+UpdatePlaylistProcedure, opts...),
		deletePlaylist:  connect.NewClient[DeletePlaylistRequest, DeletePlaylistResponse](httpClient, baseURL+DeletePlaylistProcedure, opts...),
		subscribeEvents: connect.NewClient[SubscribeEventsRequest, notification.Event](httpClient, baseURL+SubscribeEventsProcedure, opts...),
	}
}

func call[Req, Res any](ctx context.Context, c *connect.Client[Req, Res], msg *Req) (*Res, error) {
	resp, err := c.CallUnary(ctx, connect.NewRequest(msg))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func (c *Client) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	return call(ctx, c.generate, req)
}

func (c *Client) GetTrack(ctx context.Context, req *GetTrackRequest) (*GetTrackResponse, error) {
	return call(ctx, c.getTrack, req)
}

func (c *Client) ListTracks(ctx context.Context) (*ListTracksResponse, error) {
	return call(ctx, c.listTracks, &ListTracksRequest{})
}

func (c *Client) CreatePlaylist(ctx context.Context, req *CreatePlaylistRequest) (*CreatePlaylistResponse, error) {
	return call(ctx, c.createPlaylist, req)
}

func (c *Client) ListPlaylists(ctx context.Context) (*ListPlaylistsResponse, error) {
	return call(ctx, c.listPlaylists, &ListPlaylistsRequest{})
}

func (c *Client) GetPlaylist(ctx context.Context, req *GetPlaylistRequest) (*GetPlaylistResponse, error) {
	return call(ctx, c.getPlaylist, req)
}

func (c *Client) UpdatePlaylist(ctx context.Context, req *UpdatePlaylistRequest) (*UpdatePlaylistResponse, error) {
	return call(ctx, c.updatePlaylist, req)
}

func (c *Client) DeletePlaylist(ctx context.Context, req *DeletePlaylistRequest) (*DeletePlaylistResponse, error) {
	return call(ctx, c.deletePlaylist, req)
}

// SubscribeEvents opens the event stream. The caller must Close it.
func (c *Client) SubscribeEvents(ctx context.Context) (*connect.ServerStreamForClient[notification.Event], error) {
	return c.subscribeEvents.CallServerStream(ctx, connect.NewRequest(&SubscribeEventsRequest{}))
}
