// Command connector is the operator CLI: it manages backends and
// schedules imports.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	syncapp "github.com/erp/connector/internal/application/sync"
	"github.com/erp/connector/internal/domain/connector"
	"github.com/erp/connector/internal/infrastructure/config"
	"github.com/erp/connector/internal/infrastructure/lock"
	"github.com/erp/connector/internal/infrastructure/logger"
	"github.com/erp/connector/internal/infrastructure/persistence"
	"github.com/erp/connector/internal/infrastructure/queue"
	"github.com/erp/connector/internal/infrastructure/work"
)

func main() {
	var (
		backendName string
		externalID  string
		fromDate    string
		toDate      string
		logLevel    string
	)

	flag.StringVar(&backendName, "backend", "", "Backend name")
	flag.StringVar(&externalID, "id", "", "Remote record id (import-order, import-product)")
	flag.StringVar(&fromDate, "from", "", "Start date, 2006-01-02T15:04:05 (import-products, import-orders-between)")
	flag.StringVar(&toDate, "to", "", "End date (import-orders-between)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()

	if command == "migrate" {
		if err := persistence.AutoMigrate(db.DB); err != nil {
			log.Fatal("Migration failed", zap.Error(err))
		}
		log.Info("Migration complete")
		return
	}

	jobQueue := queue.NewGormJobQueue(db.DB)
	backends := persistence.NewGormBackendRepository(db.DB)
	builder := work.NewBuilder(db.DB, lock.NewMemoryLocker(), cfg.Remote.RequestsPerSecond, log)
	service := syncapp.NewService(backends, builder, syncapp.NewFlows(), jobQueue, log)

	if backendName == "" {
		log.Fatal("The -backend flag is required")
	}
	backend, err := backends.FindByName(ctx, backendName)
	if err != nil {
		log.Fatal("Backend not found", zap.String("backend", backendName), zap.Error(err))
	}

	switch command {
	case "import-categories":
		_, err = service.ImportCategories(ctx, backend.ID)
	case "import-attributes":
		_, err = service.ImportAttributes(ctx, backend.ID)
	case "import-customers":
		_, err = service.ImportCustomers(ctx, backend.ID)
	case "import-products":
		var from time.Time
		if from, err = parseDate(fromDate); err == nil {
			_, err = service.ImportProducts(ctx, backend.ID, from)
		}
	case "import-orders":
		_, err = service.ImportOrders(ctx, backend.ID)
	case "import-orders-between":
		var from, to time.Time
		if from, err = parseDate(fromDate); err == nil {
			if to, err = parseDate(toDate); err == nil {
				_, err = service.ImportOrdersBetween(ctx, backend.ID, from, to)
			}
		}
	case "import-order":
		_, err = service.ImportOrder(ctx, backend.ID, connector.ExternalID(externalID))
	case "import-product":
		_, err = service.ImportProduct(ctx, backend.ID, connector.ExternalID(externalID))
	case "test-connection":
		err = service.TestConnection(ctx, backend.ID)
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal("Command failed", zap.String("command", command), zap.Error(err))
	}
	log.Info("Command completed", zap.String("command", command))
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(connector.RemoteDateFormat, s)
}

func printUsage() {
	fmt.Println(`Usage: connector [flags] <command>

Commands:
  migrate                  Create or update the database schema
  import-categories        Schedule a batch import of product categories
  import-attributes        Schedule a batch import of product attributes
  import-customers         Schedule a batch import of customers
  import-products          Schedule a batch import of products (-from)
  import-orders            Schedule an order import from the watermark
  import-orders-between    Schedule an order import for a window (-from, -to)
  import-order             Schedule one order import (-id)
  import-product           Schedule one product import (-id)
  test-connection          Verify the storefront credentials

Flags:
  -backend <name>          Backend to operate on (required except migrate)
  -id <remote id>          Remote record id
  -from, -to <date>        Date bounds, format 2006-01-02T15:04:05
  -log-level <level>       Log level`)
}
