package connect

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/beatify/beatify/internal/app/generation"
	"github.com/beatify/beatify/internal/app/library"
)

// Result codes carried in Status.Code.
const (
	CodeSuccess          = "success"
	CodeValidationError  = "validation_error"
	CodeGenerationFailed = "generation_failed"
	CodeNotFound         = "not_found"
	CodeEmptyName        = "empty_name"
	CodeNoValidTracks    = "no_valid_tracks"
	CodeMismatch         = "mismatch"
	CodeInvalidAction    = "invalid_action"
	CodeInternalError    = "internal_error"
)

// classify maps a service error to a result code and a detail message.
// Details of unexpected errors are logged, never returned.
func classify(err error) (code, detail string) {
	switch {
	case errors.Is(err, generation.ErrInvalidWord):
		return CodeValidationError, err.Error()
	case errors.Is(err, generation.ErrGenerationFailed):
		return CodeGenerationFailed, err.Error()
	case errors.Is(err, library.ErrTrackNotFound):
		return CodeNotFound, "Track not found"
	case errors.Is(err, library.ErrPlaylistNotFound):
		return CodeNotFound, "Playlist not found"
	case errors.Is(err, library.ErrEmptyName):
		return CodeEmptyName, "Playlist name is required"
	case errors.Is(err, library.ErrNoValidTracks):
		return CodeNoValidTracks, "No valid tracks found"
	case errors.Is(err, library.ErrTrackOrderMismatch):
		return CodeMismatch, "Track IDs don't match playlist tracks"
	default:
		zlog.Error().Msgf("unexpected service error: %+v", err)
		return CodeInternalError, ""
	}
}
