// Package main provides a command-line client for the Beatify server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	apiconnect "github.com/beatify/beatify/internal/api/connect"
	"github.com/beatify/beatify/internal/app/describe"
	"github.com/beatify/beatify/internal/app/notification"
	"github.com/beatify/beatify/internal/domain/playlist"
	"github.com/beatify/beatify/internal/domain/track"
)

var (
	app    = kingpin.New("beatify-cli", "Beatify command-line client")
	server = app.Flag("server", "Server address").Default("http://localhost:5000").Envar("BEATIFY_SERVER").String()

	generateCmd         = app.Command("generate", "Generate a track from a word")
	generateWord        = generateCmd.Arg("word", "Inspiration word").Required().String()
	generateLanguage    = generateCmd.Flag("language", "Lyrics language").Short('l').String()
	generateModel       = generateCmd.Flag("model", "LLM model override").String()
	generateMaxTokens   = generateCmd.Flag("max-tokens", "Completion token limit").Int()
	generateTemperature = generateCmd.Flag("temperature", "Sampling temperature").Float64()

	trackCmd = app.Command("track", "Show a track")
	trackID  = trackCmd.Arg("track-id", "Track ID").Required().String()

	tracksCmd = app.Command("tracks", "List tracks")

	playlistCmd = app.Command("playlist", "Manage playlists")

	plCreateCmd    = playlistCmd.Command("create", "Create a playlist")
	plCreateName   = plCreateCmd.Arg("name", "Playlist name").Required().String()
	plCreateTracks = plCreateCmd.Arg("track-ids", "Track IDs").Required().Strings()

	plListCmd = playlistCmd.Command("list", "List playlists")

	plShowCmd = playlistCmd.Command("get", "Show a playlist with its tracks")
	plShowID  = plShowCmd.Arg("playlist-id", "Playlist ID").Required().String()

	plAddCmd    = playlistCmd.Command("add", "Add tracks to a playlist")
	plAddID     = plAddCmd.Arg("playlist-id", "Playlist ID").Required().String()
	plAddTracks = plAddCmd.Arg("track-ids", "Track IDs").Required().Strings()

	plRemoveCmd    = playlistCmd.Command("remove", "Remove tracks from a playlist")
	plRemoveID     = plRemoveCmd.Arg("playlist-id", "Playlist ID").Required().String()
	plRemoveTracks = plRemoveCmd.Arg("track-ids", "Track IDs").Required().Strings()

	plRenameCmd  = playlistCmd.Command("rename", "Rename a playlist")
	plRenameID   = plRenameCmd.Arg("playlist-id", "Playlist ID").Required().String()
	plRenameName = plRenameCmd.Arg("name", "New name").Required().String()

	plReorderCmd    = playlistCmd.Command("reorder", "Reorder a playlist's tracks")
	plReorderID     = plReorderCmd.Arg("playlist-id", "Playlist ID").Required().String()
	plReorderTracks = plReorderCmd.Arg("track-ids", "All track IDs in the new order").Required().Strings()

	plDeleteCmd = playlistCmd.Command("delete", "Delete a playlist")
	plDeleteID  = plDeleteCmd.Arg("playlist-id", "Playlist ID").Required().String()

	watchCmd = app.Command("watch", "Stream library events")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))
	client := apiconnect.NewClient(http.DefaultClient, *server)
	ctx := context.Background()

	switch command {
	case generateCmd.FullCommand():
		generate(ctx, client)
	case trackCmd.FullCommand():
		resp, err := client.GetTrack(ctx, &apiconnect.GetTrackRequest{TrackID: *trackID})
		exitOnError(err)
		if report(resp.Status) {
			printTrack(resp.Track)
		}
	case tracksCmd.FullCommand():
		resp, err := client.ListTracks(ctx)
		exitOnError(err)
		fmt.Printf("%d track(s)\n", len(resp.Tracks))
		for _, t := range resp.Tracks {
			fmt.Printf("  %s  %-30s  %-15s  %s\n", t.ID, t.Title, t.Keyword, t.Timestamp)
		}
	case plCreateCmd.FullCommand():
		resp, err := client.CreatePlaylist(ctx, &apiconnect.CreatePlaylistRequest{Name: *plCreateName, TrackIDs: *plCreateTracks})
		exitOnError(err)
		if report(resp.Status) {
			printPlaylist(resp.Playlist)
		}
	case plListCmd.FullCommand():
		resp, err := client.ListPlaylists(ctx)
		exitOnError(err)
		fmt.Printf("%d playlist(s)\n", len(resp.Playlists))
		for _, p := range resp.Playlists {
			fmt.Printf("  %s  %-30s  tracks=%d  created=%s\n", p.ID, p.Name, p.TrackCount, p.CreatedAt.Format("2006-01-02 15:04:05"))
		}
	case plShowCmd.FullCommand():
		resp, err := client.GetPlaylist(ctx, &apiconnect.GetPlaylistRequest{PlaylistID: *plShowID})
		exitOnError(err)
		if report(resp.Status) {
			printPlaylist(resp.Playlist)
			for i := range resp.TracksData {
				fmt.Printf("\n#%d\n", i+1)
				printTrack(&resp.TracksData[i])
			}
		}
	case plAddCmd.FullCommand():
		update(ctx, client, &apiconnect.UpdatePlaylistRequest{PlaylistID: *plAddID, Action: apiconnect.ActionAdd, TrackIDs: *plAddTracks})
	case plRemoveCmd.FullCommand():
		update(ctx, client, &apiconnect.UpdatePlaylistRequest{PlaylistID: *plRemoveID, Action: apiconnect.ActionRemove, TrackIDs: *plRemoveTracks})
	case plRenameCmd.FullCommand():
		update(ctx, client, &apiconnect.UpdatePlaylistRequest{PlaylistID: *plRenameID, Action: apiconnect.ActionRename, Name: *plRenameName})
	case plReorderCmd.FullCommand():
		update(ctx, client, &apiconnect.UpdatePlaylistRequest{PlaylistID: *plReorderID, Action: apiconnect.ActionReorder, OrderedTrackIDs: *plReorderTracks})
	case plDeleteCmd.FullCommand():
		resp, err := client.DeletePlaylist(ctx, &apiconnect.DeletePlaylistRequest{PlaylistID: *plDeleteID})
		exitOnError(err)
		if report(resp.Status) {
			fmt.Printf("Deleted playlist %s (%s)\n", resp.Deleted.ID, resp.Deleted.Name)
		}
	case watchCmd.FullCommand():
		watch(ctx, client)
	}
}

func generate(ctx context.Context, client *apiconnect.Client) {
	opts := describe.Options{Model: *generateModel, MaxTokens: *generateMaxTokens}
	if *generateTemperature != 0 {
		opts.Temperature = generateTemperature
	}

	resp, err := client.Generate(ctx, &apiconnect.GenerateRequest{
		Word:     *generateWord,
		Language: *generateLanguage,
		Options:  opts,
	})
	exitOnError(err)
	if !report(resp.Status) {
		return
	}

	printTrack(resp.Data)
	if a := resp.AudioInfo; a != nil {
		fmt.Printf("  Audio: %s (%s, %s)\n", a.URL, a.Engine, a.Format)
		if a.Note != "" {
			fmt.Printf("  Note: %s\n", a.Note)
		}
		if a.FallbackReason != "" {
			fmt.Printf("  Fallback reason: %s\n", a.FallbackReason)
		}
	}
}

func update(ctx context.Context, client *apiconnect.Client, req *apiconnect.UpdatePlaylistRequest) {
	resp, err := client.UpdatePlaylist(ctx, req)
	exitOnError(err)
	if !report(resp.Status) {
		return
	}
	switch req.Action {
	case apiconnect.ActionAdd:
		fmt.Printf("Added %d track(s)\n", resp.Affected)
	case apiconnect.ActionRemove:
		fmt.Printf("Removed %d track(s)\n", resp.Affected)
	}
	printPlaylist(resp.Playlist)
}

func watch(ctx context.Context, client *apiconnect.Client) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := client.SubscribeEvents(ctx)
	exitOnError(err)
	defer stream.Close()

	fmt.Println("Watching library events. Press Ctrl+C to exit.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nUnsubscribing...")
		cancel()
	}()

	for stream.Receive() {
		printEvent(stream.Msg())
	}
	if err := stream.Err(); err != nil && ctx.Err() == nil {
		fmt.Printf("Stream error: %v\n", err)
	}
}

// report prints failures and tells the caller whether to continue.
func report(st apiconnect.Status) bool {
	if st.Success {
		return true
	}
	if st.Message != "" {
		fmt.Printf("Failed [%s]: %s (%s)\n", st.Code, st.Error, st.Message)
	} else {
		fmt.Printf("Failed [%s]: %s\n", st.Code, st.Error)
	}
	return false
}

func exitOnError(err error) {
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func printTrack(t *track.Track) {
	if t == nil {
		return
	}
	fmt.Printf("  Track ID: %s\n", t.ID)
	fmt.Printf("  Title: %s\n", t.Title)
	fmt.Printf("  Keyword: %s\n", t.Keyword)
	fmt.Printf("  Language: %s\n", t.Language)
	fmt.Printf("  Genre: %s / Mood: %s / Duration: %s\n", t.Genre, t.Mood, t.Duration)
	if t.Style != "" {
		fmt.Printf("  Style: %s\n", t.Style)
	}
	fmt.Printf("  Model: %s\n", t.Model)
	if t.HasLyrics() {
		fmt.Printf("  Lyrics:\n    %s\n", strings.ReplaceAll(*t.Lyrics, "\n", "\n    "))
	}
	if t.AudioURL != "" {
		fmt.Printf("  Audio URL: %s\n", t.AudioURL)
	}
}

func printPlaylist(p *playlist.Playlist) {
	if p == nil {
		return
	}
	fmt.Printf("  Playlist ID: %s\n", p.ID)
	fmt.Printf("  Name: %s\n", p.Name)
	fmt.Printf("  Tracks: %s\n", strings.Join(p.Tracks, ", "))
	fmt.Printf("  Updated: %s\n", p.UpdatedAt.Format("2006-01-02 15:04:05"))
}

func printEvent(e *notification.Event) {
	fmt.Printf("[Sequence: %d] %s  %s", e.SequenceNo, e.OccurredAt.Format("15:04:05"), e.Type)
	if e.TrackID != "" {
		fmt.Printf("  track=%s", e.TrackID)
	}
	if e.PlaylistID != "" {
		fmt.Printf("  playlist=%s", e.PlaylistID)
	}
	if e.Title != "" {
		fmt.Printf("  %q", e.Title)
	}
	if e.Detail != "" {
		fmt.Printf("  (%s)", e.Detail)
	}
	fmt.Println()
}
