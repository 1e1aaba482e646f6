// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/mikemoraned/geo/regions"
	"github.com/mikemoraned/geo/spatial"
	"github.com/spf13/cobra"
)

func parsePoint(latArg, lngArg string) (spatial.Point, error) {
	lat, err := strconv.ParseFloat(latArg, 64)
	if err != nil || math.IsNaN(lat) || lat < -90 || lat > 90 {
		return spatial.Point{}, fmt.Errorf("invalid latitude %q", latArg)
	}

	lng, err := strconv.ParseFloat(lngArg, 64)
	if err != nil || math.IsNaN(lng) || lng < -180 || lng > 180 {
		return spatial.Point{}, fmt.Errorf("invalid longitude %q", lngArg)
	}

	return spatial.Point{Lat: lat, Lng: lng}, nil
}

var nearestCmd = &cobra.Command{
	Use:   "nearest <lat> <lng>",
	Short: "Prints the region whose centroid is closest to a point",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, err := parsePoint(args[0], args[1])
		if err != nil {
			return err
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		groups, err := loadGroups(cmd.Context(), db)
		if err != nil {
			return err
		}

		catalog, err := regions.BuildCatalog(groups)
		if err != nil {
			return err
		}

		id, ok := catalog.Nearest(query)
		if !ok {
			return errors.New("no regions loaded")
		}

		r, _ := catalog.Region(id)
		fmt.Printf("%s (%s) centroid %s, %.0f m away\n", r.ID, r.GroupName, r.Centroid, query.HaversineDistance(&r.Centroid))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(nearestCmd)
}
