package commands

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/paylesstax/taxcalc/config"
	"github.com/paylesstax/taxcalc/database"
	"github.com/paylesstax/taxcalc/handler"
	"github.com/paylesstax/taxcalc/tax"
)

func newServeCommand() *cobra.Command {
	var port string
	var ratesFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tax calculation API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			if port != "" {
				cfg.Port = port
			}
			if ratesFile != "" {
				cfg.RateTableFile = ratesFile
			}

			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	cmd.Flags().StringVar(&ratesFile, "rates", "", "rate table YAML file (overrides RATE_TABLE_FILE)")

	return cmd
}

// serveRates builds the repository the server answers from. Years stored in
// the database replace the file or built-in years with the same number.
func serveRates(ctx context.Context, cfg config.Config) (*tax.Repository, error) {
	repo, err := loadRates(cfg.RateTableFile)
	if err != nil {
		return nil, err
	}

	if cfg.DatabaseURL == "" {
		return repo, nil
	}

	db, err := database.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return database.LoadRepository(ctx, db, repo)
}

func newServer(rates handler.RateTables) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	handler.Register(e,
		handler.NewTaxHandler(validator.New(), rates),
		handler.NewRateTableHandler(rates),
	)

	return e
}

func runServe(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rates, err := serveRates(ctx, cfg)
	if err != nil {
		return err
	}

	log.Println("Loaded rate tables for years", rates.Years())

	e := newServer(rates)

	go func() {
		if err := e.Start(cfg.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	shutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-shutdown.Done()

	log.Println("shutting down the server")

	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	return e.Shutdown(sctx)
}
