package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/accounter/ledgerhub.go/db"
	"github.com/accounter/ledgerhub.go/lib"
	"github.com/accounter/ledgerhub.go/lib/service"
	"github.com/accounter/ledgerhub.go/lib/store/bunstore"
	"github.com/accounter/ledgerhub.go/rabbitmq"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// Publishes the ledger.generated events of all ledgers stored between
// START_DATE and END_DATE (RFC3339) again. DRY_RUN=true only lists them.
func main() {

	c := &service.Config{}
	// Load configruation from environment variables
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Failed to load .env file")
	}
	err = envconfig.Process("", c)
	if err != nil {
		logrus.Fatalf("Error loading environment variables: %v", err)
	}
	logger := lib.Logger(c.LogFilePath)
	startDate, endDate, err := loadStartAndEndDateFromEnv()
	if err != nil {
		logger.Fatalf("Could not load start and end date from env %v", err)
	}
	// Open a DB connection based on the configured DATABASE_URI
	dbConn, err := db.Open(c)
	if err != nil {
		logger.Fatalf("Error initializing db connection: %v", err)
	}
	defer dbConn.Close()

	amqpClient, err := rabbitmq.DialAMQP(c.RabbitMQUri, rabbitmq.WithAmqpLogger(logger))
	if err != nil {
		logger.Fatal(err)
	}
	defer amqpClient.Close()

	rabbitmqClient, err := rabbitmq.NewClient(amqpClient,
		rabbitmq.WithLogger(logger),
		rabbitmq.WithLedgerExchange(c.RabbitMQLedgerExchange),
	)
	if err != nil {
		logger.Fatal(err)
	}
	// close the connection gently at the end of the runtime
	defer rabbitmqClient.Close()

	store := bunstore.New(dbConn, c.RatesBaseCurrency)
	svc := service.NewLedgerhubService(c, store, logger)
	svc.Publisher = rabbitmqClient

	ctx := context.Background()
	generations, err := store.GenerationsBetween(ctx, startDate, endDate)
	if err != nil {
		logger.Fatal(err)
	}
	logrus.Infof("Found %d stored ledgers", len(generations))

	dryRun := os.Getenv("DRY_RUN") == "true"
	errCount := 0
	for _, generation := range generations {
		logger.Infof("Publishing ledger of charge %s", generation.ChargeID)
		if dryRun {
			continue
		}
		err = svc.RepublishLedger(ctx, generation)
		if err != nil {
			errCount += 1
			logger.Error(err)
		}
	}
	logger.Infof("Published %d ledgers, # errors %d", len(generations), errCount)
}

func loadStartAndEndDateFromEnv() (start, end time.Time, err error) {
	start, err = time.Parse(time.RFC3339, os.Getenv("START_DATE"))
	if err != nil {
		return
	}
	end, err = time.Parse(time.RFC3339, os.Getenv("END_DATE"))
	return
}
