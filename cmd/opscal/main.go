package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/md-rashed-zaman/opscal/internal/calclient"
	"github.com/md-rashed-zaman/opscal/internal/directory"
	"github.com/md-rashed-zaman/opscal/internal/session"
	"github.com/md-rashed-zaman/opscal/internal/tui"
	"github.com/md-rashed-zaman/opscal/internal/view"
	"github.com/md-rashed-zaman/opscal/libs/config"
	otelx "github.com/md-rashed-zaman/opscal/libs/otel"
	"github.com/md-rashed-zaman/opscal/libs/runtime"
)

func main() {
	_ = godotenv.Load()
	service := config.String("SERVICE_NAME", "opscal")

	// The terminal belongs to the UI; logs go to a file, or nowhere.
	logSink := io.Writer(io.Discard)
	if path := config.String("OPSCAL_LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot open log file:", err)
			os.Exit(1)
		}
		defer f.Close()
		logSink = f
	}
	logger := runtime.NewLoggerTo(service, logSink)

	token, err := config.RequiredString("OPSCAL_TOKEN")
	if err != nil {
		fmt.Fprintln(os.Stderr, "OPSCAL_TOKEN is required (a bearer token for the calendar API)")
		os.Exit(1)
	}
	baseURL := config.String("OPSCAL_API_URL", "http://localhost:8085")
	timeout := config.Duration("OPSCAL_HTTP_TIMEOUT", 10*time.Second)

	loc := time.Local
	if name := config.String("OPSCAL_TIMEZONE", ""); name != "" {
		l, err := time.LoadLocation(name)
		if err != nil {
			fmt.Fprintln(os.Stderr, "invalid OPSCAL_TIMEZONE:", err)
			os.Exit(1)
		}
		loc = l
	}

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	sess, err := session.FromToken(token)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot read session from token:", err)
		os.Exit(1)
	}
	logger.Info("session resolved", "user_id", sess.UserID, "role", sess.Role)

	client := calclient.New(baseURL, token, timeout, logger)
	dir := directory.New(client, logger)
	cal := view.New(client, dir, sess, loc, logger, time.Now())

	program := tea.NewProgram(
		tui.New(ctx, cal, logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		logger.Error("ui exited with error", "err", err)
		fmt.Fprintln(os.Stderr, "opscal:", err)
		os.Exit(1)
	}
}
