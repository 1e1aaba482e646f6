// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/mikemoraned/geo/utils/textutils"
	"github.com/spf13/cobra"
)

var signaturesCmd = &cobra.Command{
	Use:   "signatures",
	Short: "Builds the signature of every region and prints its dominant axis",
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

		fmt.Printf("%-24s %-16s %8s %8s\n", "ID", "GROUP", "DOMINANT", "LENGTH")

		for _, r := range a.Catalog.Regions() {
			sig, ok := a.Index.Signature(r.ID)
			if !ok {
				fmt.Printf("%-24s %-16s %8s %8s\n", r.ID, r.GroupName, "-", "-")

				continue
			}

			d := sig.Dominant()
			fmt.Printf("%-24s %-16s %8d %8.3f\n", r.ID, r.GroupName, d.Degree, d.Length)
		}

		fmt.Printf("%s regions, %s signatures\n",
			textutils.FormatInt(int64(a.Catalog.Len())),
			textutils.FormatInt(int64(a.Index.Len())),
		)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(signaturesCmd)
}
