// Package main is the operator CLI for the quoting service.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"sink_quoter/internal/config"
	"sink_quoter/internal/database"
)

var rootCmd = &cobra.Command{
	Use:   "quotectl",
	Short: "Sink quoting service operator CLI",
	Long:  `Schema, seed data, catalog matching and quote maintenance for the sink quoting service.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// connect loads config and opens the database.
func connect() (*config.Config, *gorm.DB, *logrus.Logger, error) {
	cfg := config.Load()
	logger := config.NewLogger(cfg.LogLevel)
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, db, logger, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
