package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/bitjungle/medlyd/pkg/api"
	"github.com/bitjungle/medlyd/pkg/ffmpeg"
	"github.com/bitjungle/medlyd/pkg/medlyd"
)

func main() {
	// .env is optional; flags always win over it.
	_ = godotenv.Load()

	videoFlag := flag.String("video", envOr("MEDLYD_VIDEO", medlyd.DefaultVideoPath), "Silent input video (path or URL)")
	musicFlag := flag.String("music", envOr("MEDLYD_MUSIC", medlyd.DefaultMusicPath), "Background music track (path or URL)")
	outFlag := flag.String("out", envOr("MEDLYD_OUT", medlyd.DefaultOutputPath), "Output video path")
	ffmpegPath := flag.String("ffmpeg", envOr("MEDLYD_FFMPEG", "ffmpeg"), "Path to ffmpeg binary")
	debugFlag := flag.Bool("debug", false, "Enable debug logging")

	apiMode := flag.Bool("api", false, "Run in API Server mode")
	apiPort := flag.Int("port", 8080, "Port for API server")
	webMode := flag.Bool("onweb", false, "Enable simple Web UI")
	dlProgress := flag.Bool("dl-progress", false, "Show console progress bar for remote inputs")

	flag.Parse()

	svc, err := medlyd.New(medlyd.Config{
		VideoPath:    *videoFlag,
		MusicPath:    *musicFlag,
		OutputPath:   *outFlag,
		FFmpegPath:   *ffmpegPath,
		Debug:        *debugFlag,
		ShowProgress: *dlProgress,
	})

	if err != nil {
		fmt.Printf("Initialization failed: %v\n", err)
		os.Exit(1)
	}

	// API Server
	if *apiMode {
		srv := &api.Server{
			Port:    *apiPort,
			Service: svc,
			Host:    fmt.Sprintf("http://localhost:%d", *apiPort),
		}

		go srv.BackgroundCleaner(10 * time.Minute)

		if sterr := srv.Start(*webMode); sterr != nil {
			slog.Error("Server crashed", "err", sterr)
			os.Exit(1)
		}
		return
	}

	// CLI
	slog.Info("Adding music track", "video", *videoFlag, "music", *musicFlag)

	res, err := svc.Run()
	if err != nil {
		slog.Error("Failed to add music", "err", err)
		// ffmpeg's own exit status passes through unmodified.
		os.Exit(ffmpeg.ExitCode(err))
	}

	slog.Info("Success", "output", res.OutputPath, "duration_sec", res.DurationSec)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
