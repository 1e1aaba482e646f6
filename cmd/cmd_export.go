// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/mikemoraned/geo/regions"
	"github.com/mikemoraned/geo/store"
	"github.com/spf13/cobra"
)

var errNoDbPath = errors.New("--db-path is required to persist signatures")

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Builds every signature and stores it in the DuckDB database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if opts.DbPath == "" {
			return errNoDbPath
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		a, err := annotate(cmd.Context(), db)
		if err != nil {
			return err
		}

		repo := store.NewSignatureRepository(db)
		if err := repo.CreateSchema(); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}

		signatures := make([]*regions.RegionSignature, 0, a.Index.Len())

		for _, id := range a.Catalog.IDs() {
			if sig, ok := a.Index.Signature(id); ok {
				signatures = append(signatures, sig)
			}
		}

		if err := repo.ReplaceAll(signatures, a.BuiltAt); err != nil {
			return fmt.Errorf("storing signatures: %w", err)
		}

		count, err := repo.Count()
		if err != nil {
			return err
		}

		log.Printf("Stored %d signatures in %s", count, opts.DbPath)

		return nil
	},
}

var cellCmd = &cobra.Command{
	Use:   "cell <lat> <lng>",
	Short: "Lists stored regions whose centroid shares the H3 cell of a point",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		if opts.DbPath == "" {
			return errNoDbPath
		}

		query, err := parsePoint(args[0], args[1])
		if err != nil {
			return err
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		repo := store.NewSignatureRepository(db)
		if err := repo.CreateSchema(); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}

		ids, err := repo.FindByCell(query)
		if err != nil {
			return err
		}

		for _, id := range ids {
			rec, err := repo.Get(id)
			if err != nil {
				return err
			}

			d := rec.Signature.Dominant()
			fmt.Printf("%-24s %-16s %s dominant %d°\n", id, rec.Signature.GroupName, rec.Cell, d.Degree)
		}

		if len(ids) == 0 {
			fmt.Println("No stored region in that cell")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(cellCmd)
}
