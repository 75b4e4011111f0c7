// Command debitum is the terminal client of the Debitum ledger.
//
// By default it connects to a server (DEBITUM_SERVER) and logs in with
// DEBITUM_EMAIL and DEBITUM_PASSWORD. With -local it opens a SQLite file
// directly and needs no server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/mmynk/debitum/internal/calculator"
	"github.com/mmynk/debitum/internal/client"
	"github.com/mmynk/debitum/internal/config"
	"github.com/mmynk/debitum/internal/ledger"
	"github.com/mmynk/debitum/internal/storage/sqlite"
	"github.com/mmynk/debitum/internal/terminal"
	"github.com/mmynk/debitum/pkg/logging"
)

const localOwner = "local"

func main() {
	logging.SetupWithLevel(logging.ParseLevel(envOr("LOG_LEVEL", "warn")))

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "debitum:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}

	flag.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "server base URL")
	flag.StringVar(&cfg.Email, "email", cfg.Email, "account email")
	flag.StringVar(&cfg.Password, "password", cfg.Password, "account password")
	flag.StringVar(&cfg.Locale, "locale", cfg.Locale, "display locale for amounts")
	register := flag.String("register", "", "create an account with this display name before logging in")
	local := flag.String("local", "", "use this SQLite file instead of a server")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	formatter := calculator.NewFormatter(cfg.Language())
	logger := slog.Default()

	if *local != "" {
		store, err := sqlite.New(*local)
		if err != nil {
			return err
		}
		defer store.Close()

		book := ledger.NewService(store, nil, logger).Book(localOwner)
		return terminal.New(book, formatter, os.Stdout, logger).Run(ctx, os.Stdin)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	remote := client.New(http.DefaultClient, cfg.ServerURL, logger)
	if *register != "" {
		_, err = remote.Register(ctx, cfg.Email, *register, cfg.Password)
	} else {
		_, err = remote.Login(ctx, cfg.Email, cfg.Password)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s\n", remote.User().DisplayName)

	err = terminal.New(remote, formatter, os.Stdout, logger).Run(ctx, os.Stdin)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
