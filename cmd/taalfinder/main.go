// Command taalfinder detects the taal of an audio recording.
//
// Usage:
//
//	taalfinder [flags] <audio-file>
//
// Settings can also come from the environment or a .env file:
// TAALFINDER_FFMPEG, TAALFINDER_DB and TAALFINDER_LOG_LEVEL. Flags win over
// the environment.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/RyanBlaney/taal-finder/beats"
	"github.com/RyanBlaney/taal-finder/finder"
	"github.com/RyanBlaney/taal-finder/logging"
	"github.com/RyanBlaney/taal-finder/report"
	"github.com/RyanBlaney/taal-finder/store"
	"github.com/joho/godotenv"
)

const version = "0.3.0"

const (
	envFFmpeg   = "TAALFINDER_FFMPEG"
	envDB       = "TAALFINDER_DB"
	envLogLevel = "TAALFINDER_LOG_LEVEL"
)

type options struct {
	file        string
	jsonOut     bool
	verbose     bool
	showVersion bool
	sidecar     string
	dbPath      string
	ffmpegPath  string
	logLevel    logging.Level
	history     int
}

var errUsage = errors.New("usage: taalfinder [flags] <audio-file>")

func parseOptions(args []string, getenv func(string) string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("taalfinder", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.BoolVar(&opts.jsonOut, "json", false, "print the result as JSON")
	fs.BoolVar(&opts.verbose, "verbose", false, "show per-beat details for the first two cycles")
	fs.BoolVar(&opts.showVersion, "version", false, "print the version and exit")
	fs.StringVar(&opts.sidecar, "beats", "", "read beats from a detector JSON export instead of analyzing audio")
	fs.StringVar(&opts.dbPath, "db", getenv(envDB), "SQLite result cache (empty disables caching)")
	fs.StringVar(&opts.ffmpegPath, "ffmpeg", getenv(envFFmpeg), "ffmpeg binary used for non-WAV input")
	fs.IntVar(&opts.history, "history", 0, "list the N most recent cached analyses and exit")
	levelName := fs.String("log-level", getenv(envLogLevel), "debug, info, warn or error (default warn)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *levelName == "" {
		opts.logLevel = logging.WarnLevel
	} else {
		level, err := logging.ParseLevel(*levelName)
		if err != nil {
			return nil, err
		}
		opts.logLevel = level
	}

	if opts.showVersion {
		return opts, nil
	}
	if opts.history > 0 {
		if opts.dbPath == "" {
			return nil, fmt.Errorf("-history needs -db or %s", envDB)
		}
		return opts, nil
	}
	if fs.NArg() != 1 {
		return nil, errUsage
	}
	opts.file = fs.Arg(0)
	return opts, nil
}

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, os.Getenv, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if opts.showVersion {
		fmt.Fprintf(stdout, "taalfinder %s\n", version)
		return 0
	}

	logger := logging.NewWriterLogger(stderr, stderr, false)
	logger.SetLevel(opts.logLevel)
	logging.SetGlobalLogger(logger)

	var cache *store.Store
	if opts.dbPath != "" {
		cache, err = store.Open(opts.dbPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		defer cache.Close()
	}

	if opts.history > 0 {
		return printHistory(ctx, cache, opts.history, stdout, stderr)
	}

	cfg := finder.DefaultConfig()
	cfg.DBPath = opts.dbPath
	if opts.ffmpegPath != "" {
		cfg.Decoder.FFmpegPath = opts.ffmpegPath
	}

	var (
		detector    beats.Detector
		resultCache finder.Cache
	)
	if opts.sidecar != "" {
		// sidecar results depend on the export, not only the audio
		detector = beats.NewSidecarDetector(opts.sidecar)
	} else if cache != nil {
		resultCache = cache
	}

	f, err := finder.New(cfg, detector, resultCache)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if !opts.jsonOut {
		fmt.Fprintf(stderr, "\nAnalyzing: %s...\n", opts.file)
	}

	result, err := f.DetectFile(ctx, opts.file)
	if err != nil {
		fmt.Fprintf(stderr, "Error during analysis: %v\n", err)
		return 1
	}

	if opts.jsonOut {
		err = report.WriteJSON(stdout, report.NewSummary(opts.file, result))
	} else {
		err = report.WriteText(stdout, result, f.Registry(), report.Options{Verbose: opts.verbose})
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printHistory(ctx context.Context, cache *store.Store, limit int, stdout, stderr io.Writer) int {
	records, err := cache.Recent(ctx, limit)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if len(records) == 0 {
		fmt.Fprintln(stderr, "no cached analyses")
		return 0
	}
	for _, rec := range records {
		fmt.Fprintf(stdout, "%s  %-10s %5.1f%%  %6.1f BPM  %s\n",
			rec.CreatedAt.Local().Format("2006-01-02 15:04"),
			rec.Result.Taal, rec.Result.Confidence*100, rec.Result.TempoBPM, rec.Source)
	}
	return 0
}
