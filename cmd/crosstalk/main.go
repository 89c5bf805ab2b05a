package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/linuxmatters/crosstalk/internal/audio"
	"github.com/linuxmatters/crosstalk/internal/cache"
	"github.com/linuxmatters/crosstalk/internal/cli"
	"github.com/linuxmatters/crosstalk/internal/config"
	"github.com/linuxmatters/crosstalk/internal/dialogue"
	"github.com/linuxmatters/crosstalk/internal/report"
	"github.com/linuxmatters/crosstalk/internal/session"
	"github.com/linuxmatters/crosstalk/internal/transcribe"
	"github.com/linuxmatters/crosstalk/internal/ui"
	"github.com/linuxmatters/crosstalk/internal/vad"
)

var (
	version = "0.0.1"
)

// concurrentSessions bounds how many files transcribe at once. Two keeps the
// sidecar busy without overrunning it.
const concurrentSessions = 2

// CLI defines the command-line interface
type CLI struct {
	Version bool     `short:"v" help:"Show version information"`
	Config  string   `short:"c" type:"path" help:"Path to TOML config file (optional)"`
	Logs    bool     `help:"Write a transcript report next to each input file"`
	Mono    bool     `help:"Treat inputs as single-speaker recordings"`
	Strict  bool     `help:"Abort a file on the first backend error instead of skipping"`
	Engine  string   `help:"Override the VAD engine (energy|adaptive|spectral)"`
	Preset  string   `help:"Override the VAD preset"`
	Files   []string `arg:"" name:"files" help:"WAV files to transcribe" type:"existingfile" optional:""`
}

func main() {
	// A .env next to the binary may carry CROSSTALK_ overrides.
	_ = godotenv.Load()

	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("crosstalk"),
		kong.Description("Stereo two-party call transcriber"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	if len(cliArgs.Files) == 0 {
		cli.PrintError("No input files specified")
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	settings, err := config.Load(cliArgs.Config)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
	if cliArgs.Engine != "" {
		settings.VAD.Engine = cliArgs.Engine
		settings.VAD.Preset = cliArgs.Preset
	}

	algorithm, err := settings.Algorithm()
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	// The TUI owns the terminal, so structured logs go to a file.
	log := openLogger(settings.Log.Level)

	whisper := transcribe.NewWhisper(settings.WhisperConfig(), log)
	reader := audio.NewReader(cache.New(0, 0))

	model := ui.NewModel(cliArgs.Files)
	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		g := new(errgroup.Group)
		g.SetLimit(concurrentSessions)

		for i, inputPath := range cliArgs.Files {
			i, inputPath := i, inputPath
			g.Go(func() error {
				processFile(p, reader, whisper, settings, algorithm, cliArgs, log, i, inputPath)
				return nil
			})
		}
		_ = g.Wait()
		p.Send(ui.AllCompleteMsg{})
	}()

	if _, err := p.Run(); err != nil {
		cli.PrintError(fmt.Sprintf("UI error: %v", err))
		os.Exit(1)
	}
}

// processFile runs one file through its own session and reports everything to
// the TUI. Failures surface as FileCompleteMsg errors, never as a crash of
// the batch.
func processFile(p *tea.Program, reader *audio.Reader, whisper *transcribe.Whisper, settings *config.Settings, algorithm vad.Algorithm, cliArgs *CLI, log zerolog.Logger, index int, inputPath string) {
	startTime := time.Now()
	p.Send(ui.FileStartMsg{FileIndex: index, FileName: inputPath})

	sess := session.New(whisper, settings.VocabularyProvider(), session.Options{
		Snapshot:     settings.Snapshot(),
		Algorithm:    algorithm,
		AbortOnError: cliArgs.Strict,
	}, log, func(fileName string, progress float64, partial dialogue.DialogueTranscription) {
		p.Send(ui.ProgressMsg{FileIndex: index, Progress: progress, Partial: partial})
	})

	result, err := runFile(sess, reader, cliArgs.Mono, inputPath)

	if cliArgs.Logs && err == nil {
		reportData := report.Data{
			RunID:      sess.ID(),
			InputPath:  inputPath,
			StartTime:  startTime,
			EndTime:    time.Now(),
			VADEngine:  algorithm.Name(),
			Stats:      sess.Stats(),
			Result:     result,
			SampleRate: audio.SampleRate,
		}
		if rerr := report.Generate(reportData); rerr != nil {
			log.Warn().Err(rerr).Str("file", inputPath).Msg("report generation failed")
		}
	}

	p.Send(ui.FileCompleteMsg{
		FileIndex: index,
		Result:    result,
		Stats:     sess.Stats(),
		Error:     err,
	})
}

// runFile decodes the input and dispatches to the stereo or mono path. Mono
// files and --mono runs take the single-segment path; a forced-mono stereo
// file is mixed down first.
func runFile(sess *session.Session, reader *audio.Reader, forceMono bool, inputPath string) (dialogue.DialogueTranscription, error) {
	left, right, stereo, err := reader.Read(inputPath)
	if err != nil {
		return dialogue.DialogueTranscription{}, err
	}

	ctx := context.Background()
	if forceMono || !stereo {
		samples := left
		if stereo {
			samples = audio.MixToMono(left, right)
		}
		return sess.RunMono(ctx, inputPath, samples)
	}
	return sess.RunStereo(ctx, inputPath, left, right)
}

// openLogger builds the file-backed structured logger. If the log file cannot
// be created, logging is disabled rather than fighting the TUI for stderr.
func openLogger(levelName string) zerolog.Logger {
	level, err := zerolog.ParseLevel(levelName)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	out, err := os.Create("crosstalk-debug.log")
	if err != nil {
		return zerolog.Nop()
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
