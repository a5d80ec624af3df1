// Command deckgen turns a recording into a slide deck without the TUI:
// upload, wait for the transcript, request generation, download. Useful
// for scripting and for smoke-testing a backend deployment.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"prism/internal/api"
	"prism/internal/config"
	"prism/internal/logging"
)

type cliConfig struct {
	audio      string
	style      string
	out        string
	configPath string
	timeout    time.Duration
	verbose    bool
}

func parseFlags() cliConfig {
	var cfg cliConfig

	flag.StringVar(&cfg.audio, "audio", "", "path to the recording to upload (required)")
	flag.StringVar(&cfg.style, "style", "", "deck style hint, e.g. minimal")
	flag.StringVar(&cfg.out, "out", "", "where to move the finished deck (default: keep the download path)")
	flag.StringVar(&cfg.configPath, "config", "", "path to a prism config file")
	flag.DurationVar(&cfg.timeout, "timeout", 5*time.Minute, "how long to wait for each job phase")
	flag.BoolVar(&cfg.verbose, "verbose", false, "log every backend request")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: deckgen -audio talk.wav [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Deckgen runs the voice-to-slides pipeline end to end against the\n")
		fmt.Fprintf(os.Stderr, "configured backend and prints the path of the finished deck.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if cfg.audio == "" {
		fmt.Fprintln(os.Stderr, "error: -audio is required")
		flag.Usage()
		os.Exit(1)
	}

	return cfg
}

func run(cli cliConfig) error {
	cfg, err := config.Load(cli.configPath)
	if err != nil {
		return err
	}

	level := "warn"
	if cli.verbose {
		level = "debug"
	}
	logger, err := logging.NewConsole(level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	client := api.New(cfg.BaseURL(),
		api.WithLogger(logger),
		api.WithHTTPClient(&http.Client{Timeout: cfg.Backend.Timeout}),
	)

	ctx, cancel := context.WithTimeout(context.Background(), cli.timeout)
	defer cancel()

	fmt.Printf("deckgen: uploading %s\n", cli.audio)
	job, err := client.UploadAudio(ctx, cli.audio)
	if err != nil {
		return fmt.Errorf("upload %s: %w", cli.audio, err)
	}

	job, err = waitForJob(ctx, client, job.ID)
	if err != nil {
		return err
	}

	transcript, err := client.GetTranscript(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("fetch transcript: %w", err)
	}
	fmt.Printf("deckgen: transcript ready (%s, %d segments)\n", transcript.Language, len(transcript.Segments))

	if _, err := client.GenerateSlides(ctx, job.ID, cli.style); err != nil {
		return fmt.Errorf("request slides: %w", err)
	}

	ctx, cancel = context.WithTimeout(context.Background(), cli.timeout)
	defer cancel()
	job, err = waitForJob(ctx, client, job.ID)
	if err != nil {
		return err
	}
	if !job.DeckReady {
		return fmt.Errorf("job %s finished without a deck", job.ID)
	}

	path, err := client.DownloadDeck(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("download deck: %w", err)
	}
	if cli.out != "" {
		if err := os.Rename(path, cli.out); err != nil {
			return fmt.Errorf("move deck to %s: %w", cli.out, err)
		}
		path = cli.out
	}

	fmt.Printf("deckgen: deck saved to %s\n", path)
	return nil
}

// waitForJob polls the job once a second until it reaches a terminal state
// or ctx expires, echoing stage changes as they happen.
func waitForJob(ctx context.Context, client *api.Client, jobID string) (*api.SlideJob, error) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	lastStage := ""
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wait for job %s: %w", jobID, ctx.Err())
		case <-ticker.C:
		}

		job, err := client.GetSlideJob(ctx, jobID)
		if err != nil {
			return nil, fmt.Errorf("job status: %w", err)
		}
		if job.Stage != lastStage && job.Stage != "" {
			fmt.Printf("deckgen: %s (%d%%)\n", job.Stage, job.Progress)
			lastStage = job.Stage
		}
		if job.Status.Terminal() {
			if job.Status == api.StatusFailed {
				return nil, fmt.Errorf("job %s failed: %s", jobID, job.Error)
			}
			return job, nil
		}
	}
}

func main() {
	cli := parseFlags()
	if err := run(cli); err != nil {
		fmt.Fprintf(os.Stderr, "deckgen: %v\n", err)
		os.Exit(1)
	}
}
