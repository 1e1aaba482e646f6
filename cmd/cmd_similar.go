// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var similarLimit int

var similarCmd = &cobra.Command{
	Use:   "similar <region-id>",
	Short: "Lists the regions whose shape is most similar to the given one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		a, err := annotate(cmd.Context(), db)
		if err != nil {
			return err
		}

		results, err := a.MostSimilar(args[0], opts.MinScore)
		if err != nil {
			return err
		}

		if similarLimit > 0 && len(results) > similarLimit {
			results = results[:similarLimit]
		}

		if len(results) == 0 {
			fmt.Printf("No region scores at least %.3f against %s\n", opts.MinScore, args[0])

			return nil
		}

		fmt.Printf("%-24s %-16s %8s\n", "ID", "GROUP", "SCORE")

		for _, r := range results {
			fmt.Printf("%-24s %-16s %8.4f\n", r.Signature.ID, r.Signature.GroupName, r.Score)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(similarCmd)
	similarCmd.Flags().Float64Var(
		&opts.MinScore,
		"min-score",
		0,
		"Only list regions scoring at least this value (1 means identical)",
	)
	similarCmd.Flags().IntVar(
		&similarLimit,
		"limit",
		10,
		"Maximum number of regions to list (0 lists all)",
	)
}
