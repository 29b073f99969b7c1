package command

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ovaphlow/pitchfork/service-investment-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-investment-go/internal/config"
	"github.com/ovaphlow/pitchfork/service-investment-go/internal/export"
	"github.com/ovaphlow/pitchfork/service-investment-go/internal/investment"
	invrepo "github.com/ovaphlow/pitchfork/service-investment-go/internal/investment/repo"
	"github.com/ovaphlow/pitchfork/service-investment-go/internal/router"
	"github.com/ovaphlow/pitchfork/service-investment-go/internal/user"
	userrepo "github.com/ovaphlow/pitchfork/service-investment-go/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-investment-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-investment-go/pkg/utilities"
)

const shutdownTimeout = 5 * time.Second

func serveCommand() *cobra.Command {
	var skipMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			e, err := fromContext(cmd.Context())
			if err != nil {
				return err
			}
			if err := e.cfg.Validate(); err != nil {
				return err
			}
			ctx := cmd.Context()
			sugar := e.logger.Sugar()

			db, err := database.Connect(ctx, e.cfg.Database)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			if !skipMigrate {
				if err := database.Migrate(ctx, db.DB, database.Up, e.logger); err != nil {
					return err
				}
			}

			handler, err := buildHandler(e.cfg, db, sugar)
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:              e.cfg.HTTPAddr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}
			return serve(ctx, srv, sugar)
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not apply pending migrations on startup")
	return cmd
}

// buildHandler wires repositories, services and handlers into the router.
func buildHandler(cfg *config.Config, db *sqlx.DB, logger *zap.SugaredLogger) (http.Handler, error) {
	tokens, err := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	userSvc := user.NewUserService(userrepo.NewUserRepo(db), user.BcryptHasher{Cost: cfg.BcryptCost}, tokens)
	invSvc := investment.NewService(invrepo.NewInvestmentRepo(db), utilities.NewIDGenerator(cfg.SnowflakeNode))

	return router.RegisterRoutes(logger, router.Handlers{
		Users:          user.NewHandler(userSvc, logger.Named("user")),
		Investments:    investment.NewHandler(invSvc, logger.Named("investment")),
		Exports:        export.NewHandler(invSvc, logger.Named("export")),
		Gate:           auth.NewGate(tokens, logger.Named("auth")),
		AllowedOrigins: cfg.AllowedOrigins,
	}), nil
}

// serve runs srv until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, srv *http.Server, logger *zap.SugaredLogger) error {
	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		logger.Infow("starting HTTP server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	grp.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})
	return grp.Wait()
}
