package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/fintrack/cmd/fintrack/internal/command"
	"github.com/MrJamesThe3rd/fintrack/internal/app"
	"github.com/MrJamesThe3rd/fintrack/internal/config"
	"github.com/MrJamesThe3rd/fintrack/internal/logging"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: loading .env: %v\n", err)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if _, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}

	var opened *app.App

	root := command.New(func(ctx context.Context) (*app.App, error) {
		a, err := app.Open(ctx, cfg)
		opened = a

		return a, err
	})

	err = root.ExecuteContext(context.Background())

	if opened != nil {
		if cerr := opened.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing store: %w", cerr)
		}
	}

	return err
}
