package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/accounter/ledgerhub.go/db"
	"github.com/accounter/ledgerhub.go/lib"
	"github.com/accounter/ledgerhub.go/lib/service"
	"github.com/accounter/ledgerhub.go/lib/store/bunstore"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
)

// rootCmd is the ledgerctl entrypoint, configuration is read from the same
// environment as the server.
var rootCmd = &cobra.Command{
	Use:           "ledgerctl",
	Short:         "Generate and manage the ledger of charges",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*service.Config, error) {
	c := &service.Config{}
	// a missing .env file is fine, the environment may be set already
	_ = godotenv.Load(".env")
	if err := envconfig.Process("", c); err != nil {
		return nil, errors.Wrap(err, "error loading environment variables")
	}
	return c, nil
}

// withService opens the database and runs fn with a service backed by it.
func withService(ctx context.Context, fn func(ctx context.Context, svc *service.LedgerhubService, dbConn *bun.DB) error) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}
	logger := lib.Logger(c.LogFilePath)
	dbConn, err := db.Open(c)
	if err != nil {
		return errors.Wrap(err, "error initializing db connection")
	}
	defer dbConn.Close()

	svc := service.NewLedgerhubService(c, bunstore.New(dbConn, c.RatesBaseCurrency), logger)
	return fn(service.WithRequestCache(ctx), svc, dbConn)
}
