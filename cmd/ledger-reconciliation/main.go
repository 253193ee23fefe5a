package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/accounter/ledgerhub.go/db"
	"github.com/accounter/ledgerhub.go/lib"
	"github.com/accounter/ledgerhub.go/lib/service"
	"github.com/accounter/ledgerhub.go/lib/store/bunstore"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// script to store the ledger of charges that never got one generated
func main() {

	c := &service.Config{}
	// Load configruation from environment variables
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Failed to load .env file")
	}
	err = envconfig.Process("", c)
	if err != nil {
		log.Fatalf("Error loading environment variables: %v", err)
	}

	// Setup logging to STDOUT or a configrued log file
	logger := lib.Logger(c.LogFilePath)

	// Open a DB connection based on the configured DATABASE_URI
	dbConn, err := db.Open(c)
	if err != nil {
		logger.Fatalf("Error initializing db connection: %v", err)
	}
	defer dbConn.Close()

	if c.SentryDSN != "" {
		if err = sentry.Init(sentry.ClientOptions{Dsn: c.SentryDSN}); err != nil {
			logger.Errorf("sentry init error: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	store := bunstore.New(dbConn, c.RatesBaseCurrency)
	svc := service.NewLedgerhubService(c, store, logger)

	ctx := context.Background()
	//for this job, we only search for charges older than a day to leave room for their documents to arrive
	ts := time.Now().Add(-1 * 24 * time.Hour)
	pending, err := store.UngeneratedChargesUntil(ctx, ts)
	if err != nil {
		sentry.CaptureException(err)
		logger.Fatal(err)
	}
	stored, err := svc.ReconcileLedgers(ctx, pending)
	if err != nil {
		sentry.CaptureException(err)
		svc.Logger.Error(err)
	}
	logger.Infof("Stored the ledger of %d out of %d charges", stored, len(pending))
}
