package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/fedeciancaglini/trip-ai/cmd/fx/cache_fx"
	"github.com/fedeciancaglini/trip-ai/cmd/fx/config_fx"
	"github.com/fedeciancaglini/trip-ai/cmd/fx/controllers_fx"
	"github.com/fedeciancaglini/trip-ai/cmd/fx/db_fx"
	"github.com/fedeciancaglini/trip-ai/cmd/fx/planner_fx"
	"github.com/fedeciancaglini/trip-ai/cmd/fx/providers_fx"
	"github.com/fedeciancaglini/trip-ai/cmd/fx/trip_fx"
	"github.com/fedeciancaglini/trip-ai/internal/api/controllers"
	"github.com/fedeciancaglini/trip-ai/internal/config"
	"github.com/fedeciancaglini/trip-ai/pkg/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := fx.New(
			fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
				return &fxevent.ZapLogger{Logger: logger}
			}),
			config_fx.Module,
			db_fx.Module,
			cache_fx.Module,
			providers_fx.Module,
			planner_fx.Module,
			trip_fx.Module,
			controllers_fx.Module,

			fx.Provide(ProvideRateLimiter),
			fx.Provide(ProvideRouter),
			fx.Invoke(StartServer),
		)
		if err := app.Err(); err != nil {
			return err
		}

		if err := app.Start(cmd.Context()); err != nil {
			return err
		}
		<-cmd.Context().Done()

		stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return app.Stop(stopCtx)
	},
}

const rateLimiterIdle = 10 * time.Minute

func ProvideRateLimiter(lc fx.Lifecycle, cfg *config.Config) *middleware.IPRateLimiter {
	rl := middleware.NewIPRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)

	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				ticker := time.NewTicker(rateLimiterIdle)
				defer ticker.Stop()
				for {
					select {
					case <-done:
						return
					case <-ticker.C:
						rl.Sweep(rateLimiterIdle)
					}
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			close(done)
			return nil
		},
	})
	return rl
}

func ProvideRouter(
	cfg *config.Config,
	limiter *middleware.IPRateLimiter,
	planController *controllers.PlanController,
	tripController *controllers.TripController) *gin.Engine {

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, []byte(cfg.JWTSecret), limiter, planController, tripController)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, logger *zap.Logger) {
	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.TraceIDHeader},
		ExposedHeaders:   []string{middleware.TraceIDHeader},
		AllowCredentials: false,
	}).Handler(engine)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// planning may take the whole planner timeout
		WriteTimeout: cfg.PlannerTimeout + 10*time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("HTTP server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}
