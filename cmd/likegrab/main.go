// Command likegrab bulk-downloads the audio tracks of a remote collection
// (a playlist or likes page) into a local directory, skipping tracks that
// are already present and converting to MP3 when ffmpeg is available.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/likegrab/likegrab/internal/config"
	"github.com/likegrab/likegrab/internal/download"
	"github.com/likegrab/likegrab/internal/extractor"
)

const bannerWidth = 50

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: likegrab <URL> [output_dir] [max_workers]")
		fmt.Fprintln(os.Stderr, "example: likegrab https://soundcloud.com/user/likes downloads 5")
		os.Exit(1)
	}
	url := os.Args[1]

	settings := config.NewSettings()
	if len(os.Args) > 2 {
		settings.SetDownloadDir(os.Args[2])
	}
	if len(os.Args) > 3 {
		if workers, err := strconv.Atoi(os.Args[3]); err == nil {
			settings.SetMaxParallel(workers)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(strings.Repeat("=", bannerWidth))
	fmt.Println("likegrab")
	fmt.Println(strings.Repeat("=", bannerWidth))
	fmt.Printf("resolving tracks from: %s\n", url)

	client := extractor.NewClient()
	service := download.NewService(client, client, client, download.Options{
		DestDir:      settings.DownloadDir(),
		MaxParallel:  settings.MaxParallel(),
		MaxAttempts:  settings.MaxAttempts(),
		SkipExisting: settings.SkipExisting(),
		Out:          os.Stdout,
	})

	if _, err := service.Run(ctx, url); err != nil {
		fmt.Fprintf(os.Stderr, "likegrab: %v\n", err)
		os.Exit(1)
	}
}
