// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/mikemoraned/geo/regions"
	"github.com/mikemoraned/geo/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the catalog, similarity and nearest lookups over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		a, err := annotate(cmd.Context(), db)
		if err != nil {
			return err
		}

		metrics, err := server.NewCollector(nil)
		if err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}

		s := server.NewServer(a, server.Options{
			Loader: func(ctx context.Context) (*regions.Annotated, error) {
				return annotate(ctx, db)
			},
			Metrics:  metrics,
			MinScore: opts.MinScore,
		})

		return s.Run(opts.ListenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(
		&opts.ListenAddr,
		"listen",
		"localhost:8080",
		"Address the API listens on",
	)
	serveCmd.Flags().Float64Var(
		&opts.MinScore,
		"min-score",
		0,
		"Default minimum score of similarity requests",
	)
}
