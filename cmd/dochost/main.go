package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	dochost "github.com/goliatone/go-dochost"
	"github.com/goliatone/go-dochost/internal/di"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("dochost: %v", err)
	}
}

func run() error {
	cfg := dochost.DefaultConfig()

	flag.StringVar(&cfg.Server.Addr, "addr", cfg.Server.Addr, "documentation server listen address")
	flag.StringVar(&cfg.Server.AdminAddr, "admin-addr", cfg.Server.AdminAddr, "admin API listen address")
	flag.StringVar(&cfg.Database.Driver, "db-driver", cfg.Database.Driver, "database driver (sqlite or postgres)")
	flag.StringVar(&cfg.Database.DSN, "db-dsn", cfg.Database.DSN, "database connection string")
	flag.StringVar(&cfg.Storage.Root, "storage-root", cfg.Storage.Root, "artifact storage root directory")
	flag.StringVar(&cfg.Proxito.RootDomain, "root-domain", cfg.Proxito.RootDomain, "root domain for subdomain resolution")
	flag.StringVar(&cfg.Logging.Provider, "log-provider", cfg.Logging.Provider, "logging provider (console or gologger)")
	flag.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "minimum log level")
	billing := flag.Bool("billing", false, "enable billing flows")
	migrate := flag.Bool("migrate", true, "apply pending schema migrations on startup")
	flag.Parse()

	cfg.Features.Billing = *billing
	if strings.TrimSpace(cfg.Proxito.RootDomain) != "" {
		cfg.Features.Subdomains = true
	}

	bunDB, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer bunDB.Close()

	if *migrate {
		if err := applyMigrations(bunDB.DB); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}

	module, err := dochost.New(cfg, di.WithBunDB(bunDB))
	if err != nil {
		return err
	}

	docsMux := http.NewServeMux()
	if err := module.Proxito().Register(docsMux); err != nil {
		return err
	}

	adminMux := http.NewServeMux()
	if err := module.Admin().Register(adminMux); err != nil {
		return err
	}
	if cfg.Features.Billing {
		if err := module.BillingWebhookAPI().Register(adminMux); err != nil {
			return err
		}
	}

	docsServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      docsMux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	adminServer := &http.Server{
		Addr:         cfg.Server.AdminAddr,
		Handler:      adminMux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 2)
	go func() {
		log.Printf("dochost: serving docs on %s", docsServer.Addr)
		errCh <- docsServer.ListenAndServe()
	}()
	go func() {
		log.Printf("dochost: serving admin API on %s", adminServer.Addr)
		errCh <- adminServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-stop:
		log.Printf("dochost: received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := docsServer.Shutdown(ctx); err != nil {
		log.Printf("dochost: docs shutdown: %v", err)
	}
	if err := adminServer.Shutdown(ctx); err != nil {
		log.Printf("dochost: admin shutdown: %v", err)
	}
	return nil
}

func openDatabase(cfg dochost.Config) (*bun.DB, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Database.Driver)) {
	case "sqlite", "sqlite3":
		sqlDB, err := sql.Open("sqlite3", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		db := bun.NewDB(sqlDB, sqlitedialect.New())
		db.SetMaxOpenConns(1)
		return db, nil
	case "postgres":
		sqlDB, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// applyMigrations runs the embedded schema files in name order. Statements
// are separated with ---bun:split markers.
func applyMigrations(db *sql.DB) error {
	migrations := dochost.GetMigrationsFS()
	entries, err := fs.ReadDir(migrations, "data/sql/migrations")
	if err != nil {
		return err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		raw, err := fs.ReadFile(migrations, "data/sql/migrations/"+name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		for _, chunk := range strings.Split(string(raw), "---bun:split") {
			statement := strings.TrimSpace(chunk)
			if statement == "" {
				continue
			}
			if _, err := db.Exec(statement); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	return nil
}
