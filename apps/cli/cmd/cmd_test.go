package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/shotlog/packages/compositor"
	"github.com/abdul-hamid-achik/shotlog/packages/core/config"
	"github.com/abdul-hamid-achik/shotlog/packages/core/session"
	"github.com/abdul-hamid-achik/shotlog/packages/diaglog"
	"github.com/abdul-hamid-achik/shotlog/packages/display"
	"github.com/abdul-hamid-achik/shotlog/packages/document"
	"github.com/abdul-hamid-achik/shotlog/packages/manifest"
	"github.com/abdul-hamid-achik/shotlog/packages/output"
	"github.com/abdul-hamid-achik/shotlog/packages/trigger"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagCommand(t *testing.T) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	registerSessionFlags(c)
	return c
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"config", &session.ConfigError{Msg: "bad"}, ExitConfigError},
		{"wrapped config", fmt.Errorf("start: %w", &session.ConfigError{Msg: "bad"}), ExitConfigError},
		{"document open", &session.DocumentOpenError{Path: "x", Err: errors.New("corrupt")}, ExitDocumentError},
		{"document save", &session.SaveIOError{Op: "document", Err: errors.New("locked")}, ExitDocumentError},
		{"explicit", &exitError{code: ExitCaptureFailure, err: errors.New("2 failed")}, ExitCaptureFailure},
		{"other", errors.New("unknown flag"), ExitUsageError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}

func TestFlagConfig_OnlyExplicitFlags(t *testing.T) {
	c := newFlagCommand(t)
	require.NoError(t, c.Flags().Parse([]string{"--case", "Login", "--step", "3", "--workbook", "--display", "0", "--display", "2"}))

	cfg := flagConfig(c.Flags())
	assert.Equal(t, "Login", cfg.CaseName)
	assert.Equal(t, 3, cfg.IncrementStep)
	assert.Equal(t, []int{0, 2}, cfg.Displays)
	require.NotNil(t, cfg.Workbook)
	assert.True(t, *cfg.Workbook)

	assert.Empty(t, cfg.Mode)
	assert.Empty(t, cfg.Version)
	assert.Nil(t, cfg.DeleteImages)
	assert.Nil(t, cfg.Timestamp)
}

func TestFlagConfig_EnvFallback(t *testing.T) {
	t.Setenv("SHOTLOG_MODE", "multi")
	c := newFlagCommand(t)
	require.NoError(t, c.Flags().Parse(nil))

	cfg := flagConfig(c.Flags())
	assert.Equal(t, "multi", cfg.Mode)
	assert.True(t, isSet(c.Flags(), "mode"))
	assert.False(t, isSet(c.Flags(), "caption"))
}

func TestFlagConfig_MergesOverFile(t *testing.T) {
	file := config.DefaultConfig()
	file.CaseName = "FromFile"
	file.Caption = "file caption"

	c := newFlagCommand(t)
	require.NoError(t, c.Flags().Parse([]string{"--caption", "flag caption"}))

	cfg := file.Merge(flagConfig(c.Flags()))
	assert.Equal(t, "FromFile", cfg.CaseName)
	assert.Equal(t, "flag caption", cfg.Caption)
	assert.Equal(t, "home", cfg.Hotkey)
}

func TestInheritFromManifest(t *testing.T) {
	m := &manifest.Manifest{CaseName: "Login", Version: "v3", Mode: "all", IncrementStep: 2}

	c := newFlagCommand(t)
	require.NoError(t, c.Flags().Parse([]string{"--doc-version", "v4"}))

	got := inheritFromManifest(m, c.Flags())
	assert.Equal(t, "Login", got.CaseName)
	assert.Empty(t, got.Version)
	assert.Equal(t, "all", got.Mode)
	assert.Equal(t, 2, got.IncrementStep)
}

func TestLoadSessionConfig_Resume(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "Login_v3.docx")
	require.NoError(t, manifest.Write(&manifest.Manifest{
		CaseName: "Login", Version: "v3", Document: doc, Mode: "single", IncrementStep: 1,
	}))
	cfgFile := filepath.Join(dir, "shotlog.yaml")
	require.NoError(t, config.DefaultConfig().SaveConfig(cfgFile))

	configFlag = cfgFile
	t.Cleanup(func() { configFlag = "" })

	c := newFlagCommand(t)
	require.NoError(t, c.Flags().Parse(nil))

	cfg, err := loadSessionConfig(c.Flags(), doc)
	require.NoError(t, err)
	assert.Equal(t, "Login", cfg.CaseName)
	assert.Equal(t, "v3", cfg.Version)
}

func TestHandleSignal(t *testing.T) {
	dir := t.TempDir()
	sess := session.New(
		session.WithEnumerator(display.Static{{Index: 0, Width: 8, Height: 6, Primary: true}}),
		session.WithGrabber(compositor.GrabberFunc(func(r image.Rectangle) (*image.RGBA, error) {
			return image.NewRGBA(r), nil
		})),
		session.WithDocumentBackend(document.NewMemoryBackend()),
	)
	cfg := config.DefaultConfig()
	cfg.OutputDir = dir
	require.NoError(t, sess.Start(cfg))
	t.Cleanup(func() { _ = sess.Close() })

	formatter := output.NewJSONFormatter()
	h := handleSignal(sess, formatter, diaglog.Discard())

	require.NoError(t, h(trigger.Signal{Kind: trigger.KindCaption, Text: "Cart"}))
	assert.Equal(t, "Cart", sess.Snapshot().Caption)

	require.NoError(t, h(trigger.Signal{Kind: trigger.KindCapture}))
	require.NoError(t, h(trigger.Signal{Kind: trigger.KindCapture, Text: "One-off"}))
	snap := sess.Snapshot()
	require.Len(t, snap.Artifacts, 2)
	assert.Equal(t, "Cart", snap.Artifacts[0].Caption)
	assert.Equal(t, "One-off", snap.Artifacts[1].Caption)
	assert.Equal(t, "Cart", snap.Caption)

	assert.ErrorIs(t, h(trigger.Signal{Kind: trigger.KindStop}), trigger.ErrStop)

	_, err := sess.Stop()
	require.NoError(t, err)
	assert.ErrorIs(t, h(trigger.Signal{Kind: trigger.KindCapture}), trigger.ErrStop)
}

func TestStartSources_PipedInputIsNotDropped(t *testing.T) {
	noStdin := noStdinFlag
	noStdinFlag = false
	defer func() { noStdinFlag = noStdin }()

	lines := trigger.DefaultQueueSize + 4
	c := &cobra.Command{Use: "test"}
	c.SetIn(strings.NewReader(strings.Repeat("\n", lines)))
	cfg := config.DefaultConfig()
	cfg.TriggerDir = ""
	q := trigger.NewQueue(trigger.DefaultQueueSize, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startSources(ctx, c, cfg, q, diaglog.Discard())

	// A slow first capture lets stdin fill the queue.
	time.Sleep(200 * time.Millisecond)

	captures, stops := 0, 0
	timeout := time.After(3 * time.Second)
	for stops == 0 {
		select {
		case sig := <-q.C():
			switch sig.Kind {
			case trigger.KindCapture:
				captures++
			case trigger.KindStop:
				stops++
			}
		case <-timeout:
			t.Fatalf("no stop queued after end of input, %d captures", captures)
		}
	}
	assert.Equal(t, lines, captures)
	assert.Equal(t, 0, q.Dropped())
}

type scriptedStopper struct {
	errs  []error
	calls int
}

func (s *scriptedStopper) Stop() (*session.StopReport, error) {
	err := s.errs[s.calls]
	s.calls++
	if err != nil {
		return nil, err
	}
	return &session.StopReport{Document: "Login_v1.docx"}, nil
}

func TestStopSession(t *testing.T) {
	delay := stopRetryDelay
	stopRetryDelay = 0
	defer func() { stopRetryDelay = delay }()

	locked := &session.SaveIOError{Op: "document", Path: "Login_v1.docx", Err: errors.New("locked")}

	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   error
	}{
		{name: "first attempt", errs: []error{nil}, wantCalls: 1},
		{name: "retry succeeds", errs: []error{locked, nil}, wantCalls: 2},
		{name: "retry fails", errs: []error{locked, locked}, wantCalls: 2, wantErr: locked},
		{name: "not active", errs: []error{session.ErrNotActive}, wantCalls: 1, wantErr: session.ErrNotActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &scriptedStopper{errs: tt.errs}
			report, err := stopSession(s, diaglog.Discard())
			assert.Equal(t, tt.wantCalls, s.calls)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, report)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Login_v1.docx", report.Document)
		})
	}
}

func TestCompletions(t *testing.T) {
	modes, directive := completeModes(nil, nil, "")
	assert.Len(t, modes, 3)
	assert.True(t, strings.HasPrefix(modes[2], config.ModeMulti+"\t"))
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)

	docs, directive := completeDocuments(nil, nil, "")
	assert.Equal(t, []string{"docx"}, docs)
	assert.Equal(t, cobra.ShellCompDirectiveFilterFileExt, directive)

	_, directive = completeDocuments(nil, []string{"a.docx"}, "")
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, buf.String(), "shotlog "+version+" (built "+buildTime)
}
