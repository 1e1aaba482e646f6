// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

// options holds the flags shared by every command.
type options struct {
	DbPath     string
	Sources    []string
	Groups     []string
	MinArea    float64
	MinScore   float64
	MaxProcs   int
	ListenAddr string
	Trace      bool
}

var opts = &options{}

// environment maps variables to the flags they provide defaults for. Flags
// given on the command line win.
var environment = []struct {
	variable string
	flag     string
}{
	{"GEO_DB_PATH", "db-path"},
	{"GEO_MIN_SCORE", "min-score"},
	{"GEO_LISTEN_ADDR", "listen"},
	{"GEO_MAX_PROCS", "max-procs"},
}

func applyEnvironment(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	for _, e := range environment {
		value, ok := os.LookupEnv(e.variable)
		if !ok {
			continue
		}

		flag := cmd.Flags().Lookup(e.flag)
		if flag == nil || flag.Changed {
			continue
		}

		if err := cmd.Flags().Set(e.flag, value); err != nil {
			return fmt.Errorf("%s: %w", e.variable, err)
		}
	}

	return nil
}

var rootCmd = &cobra.Command{
	Use:   "geo",
	Short: "compare the shapes of administrative regions",
	Long: `
geo loads groups of boundary polygons, summarizes the shape of each region as
a radial signature seen from its centroid, and finds the regions whose shapes
look most alike, or the region whose centroid is nearest to a point.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return applyEnvironment(cmd)
	},
}

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringArrayVar(
		&opts.Sources,
		"source",
		nil,
		"Region group as name=location; location is a .geojson path, an http(s) URL or duckdb:<query>",
	)
	flags.StringSliceVar(
		&opts.Groups,
		"group",
		nil,
		"Only use the named groups (case and accent insensitive)",
	)
	flags.Float64Var(
		&opts.MinArea,
		"min-area",
		0,
		"Drop polygons whose planar area is not above this value",
	)
	flags.IntVar(
		&opts.MaxProcs,
		"max-procs",
		0,
		"Regions processed concurrently when building signatures (0 means one per CPU)",
	)
	flags.StringVar(
		&opts.DbPath,
		"db-path",
		"",
		"DuckDB database file used by duckdb: sources and the signature store (empty means in memory)",
	)
	flags.BoolVar(
		&opts.Trace,
		"trace-http",
		false,
		"Dump HTTP traffic of remote sources to stderr",
	)
}
