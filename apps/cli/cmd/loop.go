package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/shotlog/packages/core/config"
	"github.com/abdul-hamid-achik/shotlog/packages/core/session"
	"github.com/abdul-hamid-achik/shotlog/packages/diaglog"
	"github.com/abdul-hamid-achik/shotlog/packages/manifest"
	"github.com/abdul-hamid-achik/shotlog/packages/output"
	"github.com/abdul-hamid-achik/shotlog/packages/shell"
	"github.com/abdul-hamid-achik/shotlog/packages/trigger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// loadSessionConfig layers the config file, the manifest of a resumed
// document and the command line, in increasing precedence.
func loadSessionConfig(flags *pflag.FlagSet, resumePath string) (*config.Config, error) {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, &session.ConfigError{Msg: "cannot load config", Err: err}
	}

	cfg := fileConfig
	if resumePath != "" {
		if m, err := manifest.Read(resumePath); err == nil {
			cfg = cfg.Merge(inheritFromManifest(m, flags))
		}
	}
	return cfg.Merge(flagConfig(flags)), nil
}

// inheritFromManifest returns the earlier session's naming and numbering
// settings that were not given again on the command line.
func inheritFromManifest(m *manifest.Manifest, flags *pflag.FlagSet) *config.Config {
	c := &config.Config{}
	if !isSet(flags, "case") {
		c.CaseName = m.CaseName
	}
	if !isSet(flags, "doc-version") {
		c.Version = m.Version
	}
	if !isSet(flags, "mode") {
		c.Mode = m.Mode
	}
	if !isSet(flags, "step") {
		c.IncrementStep = m.IncrementStep
	}
	return c
}

func openOutput(cmd *cobra.Command, cfg *config.Config) (output.Formatter, func(), error) {
	var w io.Writer = cmd.OutOrStdout()
	closeFn := func() {}
	if outputFileFlag != "" {
		f, err := os.Create(outputFileFlag)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot create output file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}
	formatter, err := output.New(outputFlag, w, cfg.GetVerbose(), cfg.GetNoColor())
	if err != nil {
		closeFn()
		return nil, nil, &exitError{code: ExitUsageError, err: err}
	}
	return formatter, closeFn, nil
}

func runSession(cmd *cobra.Command, resumePath string) error {
	cfg, err := loadSessionConfig(cmd.Flags(), resumePath)
	if err != nil {
		return err
	}

	diag, err := diaglog.Open(diaglog.Options{
		Path:    cfg.LogFile,
		Verbose: cfg.GetVerbose(),
		Stderr:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return &session.ConfigError{Msg: "cannot open log file", Err: err}
	}
	defer diag.Close()
	logger := diag.Logger

	formatter, closeOutput, err := openOutput(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeOutput()
	formatter.FormatHeader(version)

	// The taskbar must come back however this function returns.
	guard := shell.NewGuard(shell.NewPlatformToggle(), logger)
	defer guard.ReleaseAll()

	sess := session.New(
		session.WithLogger(logger),
		session.WithShellGuard(guard),
	)
	defer sess.Close()

	if resumePath != "" {
		err = sess.Resume(cfg, resumePath)
	} else {
		err = sess.Start(cfg)
	}
	if err != nil {
		formatter.FormatError(err)
		flush(formatter)
		return err
	}
	formatter.FormatSessionStarted(sess.Snapshot())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue := trigger.NewQueue(trigger.DefaultQueueSize, logger)
	sourcesCtx, cancelSources := context.WithCancel(ctx)
	// Sources are not waited for: stdin can stay blocked on a read.
	startSources(sourcesCtx, cmd, cfg, queue, logger)

	dispatcher := trigger.NewDispatcher(queue,
		trigger.WithRateLimit(cfg.TriggerRate, cfg.TriggerBurst),
		trigger.WithDispatcherLogger(logger),
	)
	runErr := dispatcher.Run(ctx, handleSignal(sess, formatter, logger))
	cancelSources()
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error("trigger loop failed", "error", runErr)
	}
	logger.Info("stopping session", "dropped", queue.Dropped(), "rate_limited", dispatcher.Limited())

	report, err := stopSession(sess, logger)
	if err != nil {
		formatter.FormatError(err)
		flush(formatter)
		return err
	}
	formatter.FormatStopReport(report)
	if err := flush(formatter); err != nil {
		return err
	}

	if report.Failed > 0 {
		return &exitError{
			code: ExitCaptureFailure,
			err:  fmt.Errorf("%d of %d screenshots failed", report.Failed, report.Artifacts),
		}
	}
	return nil
}

// stopRetryDelay is how long to wait before saving the document again.
var stopRetryDelay = 2 * time.Second

type stopper interface {
	Stop() (*session.StopReport, error)
}

// stopSession stops the session, retrying once when the document could not
// be saved. The session stays Active between attempts, so images are kept.
func stopSession(s stopper, logger *slog.Logger) (*session.StopReport, error) {
	report, err := s.Stop()
	var saveErr *session.SaveIOError
	if err == nil || !errors.As(err, &saveErr) || saveErr.Op != "document" {
		return report, err
	}
	logger.Warn("document save failed, retrying", "document", saveErr.Path, "delay", stopRetryDelay, "error", saveErr.Err)
	time.Sleep(stopRetryDelay)
	return s.Stop()
}

func handleSignal(sess *session.Session, formatter output.Formatter, logger *slog.Logger) trigger.Handler {
	return func(sig trigger.Signal) error {
		switch sig.Kind {
		case trigger.KindCapture:
			res, err := sess.Trigger(sess.NewRequest(sig.Text))
			if errors.Is(err, session.ErrNotActive) {
				return trigger.ErrStop
			}
			formatter.FormatEvent(res)
			return nil
		case trigger.KindCaption:
			sess.SetCaption(sig.Text)
			logger.Info("caption changed", "caption", sig.Text, "source", sig.Source)
			return nil
		case trigger.KindShell:
			sess.SetManualShell(sig.Text == "hide")
			return nil
		case trigger.KindStop:
			return trigger.ErrStop
		}
		return fmt.Errorf("unhandled signal %s", sig.Kind)
	}
}

// startSources runs every configured trigger source. When stdin reaches EOF
// and no folder is watched, a stop is queued so piped input ends the session.
func startSources(ctx context.Context, cmd *cobra.Command, cfg *config.Config, q *trigger.Queue, logger *slog.Logger) {
	run := func(name string, src trigger.Source, after func()) {
		go func() {
			if err := src.Run(ctx, q); err != nil {
				logger.Error("trigger source failed", "source", name, "error", err)
			}
			if after != nil {
				after()
			}
		}()
	}

	if !noStdinFlag {
		var onEOF func()
		if cfg.TriggerDir == "" {
			onEOF = func() {
				if err := q.Send(ctx, trigger.Signal{Kind: trigger.KindStop, Source: "stdin"}); err != nil && ctx.Err() == nil {
					logger.Error("stop after end of input not queued", "error", err)
				}
			}
		}
		run("stdin", &trigger.StdinSource{Reader: cmd.InOrStdin(), Hotkey: cfg.Hotkey, Logger: logger}, onEOF)
	}
	if cfg.TriggerDir != "" {
		run("dir", &trigger.DirSource{Dir: cfg.TriggerDir, Logger: logger}, nil)
	}
	run("signal", trigger.SignalSource{}, nil)
}

func flush(formatter output.Formatter) error {
	if f, ok := formatter.(output.Flushable); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("error writing output: %w", err)
		}
	}
	return nil
}
