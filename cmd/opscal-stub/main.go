package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/md-rashed-zaman/opscal/internal/stubserver"
	"github.com/md-rashed-zaman/opscal/libs/auth"
	"github.com/md-rashed-zaman/opscal/libs/config"
	"github.com/md-rashed-zaman/opscal/libs/httpx"
	otelx "github.com/md-rashed-zaman/opscal/libs/otel"
	"github.com/md-rashed-zaman/opscal/libs/runtime"
)

// opscal-stub serves an in-memory person-calendar API for local
// development of the client, seeded with a demo week.
func main() {
	_ = godotenv.Load()
	service := config.String("SERVICE_NAME", "opscal-stub")
	port, err := config.Port("PORT", "8085")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

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

	// Mint a signed dev token so the client can be pointed straight at
	// the stub: export it as OPSCAL_TOKEN.
	now := time.Now()
	devToken, err := auth.SignHS256(auth.Claims{
		Sub:   "emp-ava",
		Name:  "Ava Laine",
		Email: "ava@demo.test",
		Role:  "admin",
		Iat:   now.Unix(),
		Exp:   now.Add(24 * time.Hour).Unix(),
	}, config.String("JWT_SECRET", "dev-secret"))
	if err != nil {
		panic(err)
	}
	logger.Info("dev session token minted", "token", devToken)

	stub := stubserver.New(logger, devToken)
	if config.String("STUB_SEED_DEMO", "true") == "true" {
		stub.SeedDemo(now)
		logger.Info("demo data seeded")
	}

	mux := runtime.NewBaseMuxWithReady(runtime.ReadyCheck{Name: "store", Check: stub.Ready})
	stub.Register(mux)

	limit := config.Int("RATE_LIMIT_PER_MINUTE", 120)
	rl := httpx.NewRateLimiter(limit, config.Duration("RATE_LIMIT_WINDOW", time.Minute))

	handler := httpx.Chain(mux,
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: parseList(config.String("CORS_ALLOWED_ORIGINS", "")),
			AllowedMethods: parseList(config.String("CORS_ALLOWED_METHODS", "GET,POST,PATCH,DELETE,OPTIONS")),
			AllowedHeaders: parseList(config.String("CORS_ALLOWED_HEADERS", "Authorization,Content-Type,X-Request-Id")),
			MaxAge:         10 * time.Minute,
		}),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(1<<20),
		httpx.WithTimeout(config.Duration("REQUEST_TIMEOUT", 10*time.Second)),
		rl.Middleware(),
	)
	handler = otelhttp.NewHandler(handler, service)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}

func parseList(raw string) []string {
	items := strings.Split(raw, ",")
	out := make([]string, 0, len(items))
	for _, item := range items {
		if v := strings.TrimSpace(item); v != "" {
			out = append(out, v)
		}
	}
	return out
}
