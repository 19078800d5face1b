package connect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	zlog "github.com/rs/zerolog/log"
)

// NewHandler builds an HTTP handler serving every MusicService procedure.
// It returns the path on which to mount the handler and the handler itself.
func NewHandler(svc *MusicService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(GenerateProcedure, connect.NewUnaryHandler(GenerateProcedure, guarded(svc, svc.Generate), opts...))
	mux.Handle(GetTrackProcedure, connect.NewUnaryHandler(GetTrackProcedure, guarded(svc, svc.GetTrack), opts...))
	mux.Handle(ListTracksProcedure, connect.NewUnaryHandler(ListTracksProcedure, guarded(svc, svc.ListTracks), opts...))
	mux.Handle(CreatePlaylistProcedure, connect.NewUnaryHandler(CreatePlaylistProcedure, guarded(svc, svc.CreatePlaylist), opts...))
	mux.Handle(ListPlaylistsProcedure, connect.NewUnaryHandler(ListPlaylistsProcedure, guarded(svc, svc.ListPlaylists), opts...))
	mux.Handle(GetPlaylistProcedure, connect.NewUnaryHandler(GetPlaylistProcedure, guarded(svc, svc.GetPlaylist), opts...))
	mux.Handle(UpdatePlaylistProcedure, connect.NewUnaryHandler(UpdatePlaylistProcedure, guarded(svc, svc.UpdatePlaylist), opts...))
	mux.Handle(DeletePlaylistProcedure, connect.NewUnaryHandler(DeletePlaylistProcedure, guarded(svc, svc.DeletePlaylist), opts...))
	mux.Handle(SubscribeEventsProcedure, connect.NewServerStreamHandler(SubscribeEventsProcedure, svc.SubscribeEvents, opts...))

	return "/" + ServiceName + "/", mux
}

// guarded turns a panic in fn into an internal_error envelope of fn's own
// response type.
func guarded[Req, Res any, PRes interface {
	*Res
	setStatus(Status)
}](
	svc *MusicService,
	fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
) func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error) {
	return func(ctx context.Context, req *connect.Request[Req]) (resp *connect.Response[Res], err error) {
		defer func() {
			if r := recover(); r != nil {
				zlog.Error().Msgf("panic in %s: %v", req.Spec().Procedure, r)
				msg := new(Res)
				PRes(msg).setStatus(svc.fail(CodeInternalError, ""))
				resp, err = connect.NewResponse(msg), nil
			}
		}()
		return fn(ctx, req)
	}
}
