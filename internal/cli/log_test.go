package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level log.Level
		debug bool
		info  bool
		warn  bool
	}{
		{log.DebugLevel, true, true, true},
		{log.InfoLevel, false, true, true},
		{log.WarnLevel, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(&buf, tt.level)

			l.Debug("layout")
			l.Info("connection expired")
			l.Warn("sweep failed")

			out := buf.String()
			for msg, want := range map[string]bool{
				"layout":             tt.debug,
				"connection expired": tt.info,
				"sweep failed":       tt.warn,
			} {
				if got := strings.Contains(out, msg); got != want {
					t.Errorf("%q logged = %v, want %v", msg, got, want)
				}
			}
		})
	}
}

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("ready")

	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(buf.String()) {
		t.Errorf("line should start with a clock timestamp: %q", buf.String())
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Loaded 3 connections")

	if !regexp.MustCompile(`Loaded 3 connections \(\d+(ms|s|µs|ns)?\)`).MatchString(buf.String()) {
		t.Errorf("progress line = %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("bare context should fall back to the default logger")
	}

	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), l)
	if loggerFromContext(ctx) != l {
		t.Fatal("attached logger not returned")
	}
}

func TestRootCommandAttachesLogger(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"config", "path"})
	root.SetOut(&bytes.Buffer{})

	var got *log.Logger
	cfg, _, err := root.Find([]string{"config", "path"})
	if err != nil {
		t.Fatal(err)
	}
	run := cfg.RunE
	cfg.RunE = func(cmd *cobra.Command, args []string) error {
		got = loggerFromContext(cmd.Context())
		return run(cmd, args)
	}

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got != c.Logger {
		t.Error("commands should see the CLI logger in their context")
	}

	c.SetLogLevel(LogDebug)
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
}
