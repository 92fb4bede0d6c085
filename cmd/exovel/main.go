// Command exovel queries the NASA Exoplanet Archive over TAP and prints the
// escape velocity of each returned planet.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/exo-archive/exovel"
	"github.com/exo-archive/exovel/sdk/tap"
	"github.com/exo-archive/exovel/types"
)

var rootCmd = &cobra.Command{
	Use:   "exovel",
	Short: "Compute exoplanet escape velocities from NASA Exoplanet Archive data",
	Long: `exovel builds an ADQL query against the NASA Exoplanet Archive TAP
service, fetches mass and radius for each matching planet, and computes the
escape velocity sqrt(2GM/R) per planet. Rows with missing measurements are
flagged invalid rather than dropped silently.`,
	SilenceUsage: true,
	RunE:         runQuery,
}

func init() {
	flags := rootCmd.Flags()
	flags.String("config", "", "path to a YAML config file")
	flags.String("endpoint", tap.DefaultEndpoint, "TAP service base endpoint")
	flags.String("table", "pscomppars", "archive table to query")
	flags.StringSlice("columns", nil, "columns to select (must include the mass and radius pair for the chosen units)")
	flags.StringArray("where", nil, "equality constraint column=value, repeatable, AND-joined")
	flags.Int("top", 0, "row limit, 0 selects all rows")
	flags.String("units", "earth", "unit system of mass/radius columns: earth or jupiter")
	flags.String("response-format", tap.FormatVOTable, "wire format requested from the service: votable or json")
	flags.String("format", "table", "output rendering: table or csv")
	flags.StringP("output", "o", "", "output file path, default stdout")
	flags.Int("timeout", 30, "network timeout in seconds")
	flags.BoolP("verbose", "v", false, "enable debug logging")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		exovel.SetLogLevel(exovel.LogLevelDebug)
	}

	units, err := exovel.ParseUnitSystem(cfg.Units)
	if err != nil {
		return err
	}
	if units == exovel.UnitSI {
		return &exovel.ConfigurationError{Field: "units", Detail: "archive columns are reported in earth or jupiter units, si is not queryable"}
	}

	spec := exovel.QuerySpec{
		Table:   cfg.Table,
		Columns: cfg.Columns,
		Where:   cfg.Where,
		Top:     cfg.Top,
	}
	if !spec.HasVelocityColumns(units) {
		return &exovel.ConfigurationError{
			Field:  "columns",
			Detail: fmt.Sprintf("column list must include the mass and radius pair for %s units", units),
		}
	}

	adql, err := spec.BuildADQL()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := tap.NewClient(cfg.Endpoint,
		tap.WithFormat(cfg.ResponseFormat),
		tap.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second),
	)
	resultSet, err := client.QuerySync(ctx, adql)
	if err != nil {
		return err
	}
	if len(resultSet.Rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no planets matched the query")
		return nil
	}

	planets, err := mapPlanets(ctx, resultSet, units)
	if err != nil {
		return err
	}
	records := exovel.ComputeRecords(planets, units)

	out, closeOut, err := openOutput(cmd, cfg.Output)
	if err != nil {
		return err
	}
	defer closeOut()

	switch cfg.Format {
	case "table":
		return exovel.WriteTable(out, records)
	case "csv":
		return exovel.WriteCSV(out, records)
	default:
		return &exovel.ConfigurationError{Field: "format", Detail: fmt.Sprintf("unknown output format %q, want table or csv", cfg.Format)}
	}
}

// resolveConfig loads the config file when given, then lets changed flags
// override file values.
func resolveConfig(cmd *cobra.Command) (*Config, error) {
	flags := cmd.Flags()

	cfg := DefaultConfig()
	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flags.Changed("endpoint") {
		cfg.Endpoint, _ = flags.GetString("endpoint")
	}
	if flags.Changed("table") {
		cfg.Table, _ = flags.GetString("table")
	}
	if flags.Changed("columns") {
		cfg.Columns, _ = flags.GetStringSlice("columns")
	}
	if flags.Changed("where") {
		raw, _ := flags.GetStringArray("where")
		where, err := parseWhereFlags(raw)
		if err != nil {
			return nil, err
		}
		cfg.Where = where
	}
	if flags.Changed("top") {
		cfg.Top, _ = flags.GetInt("top")
	}
	if flags.Changed("units") {
		cfg.Units, _ = flags.GetString("units")
	}
	if flags.Changed("response-format") {
		cfg.ResponseFormat, _ = flags.GetString("response-format")
	}
	if flags.Changed("format") {
		cfg.Format, _ = flags.GetString("format")
	}
	if flags.Changed("output") {
		cfg.Output, _ = flags.GetString("output")
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds, _ = flags.GetInt("timeout")
	}

	return cfg, nil
}

func parseWhereFlags(raw []string) (map[string]string, error) {
	where := make(map[string]string, len(raw))
	for _, entry := range raw {
		key, value, found := strings.Cut(entry, "=")
		if !found || key == "" {
			return nil, &exovel.ConfigurationError{Field: "where", Detail: fmt.Sprintf("constraint %q is not of the form column=value", entry)}
		}
		where[key] = value
	}
	return where, nil
}

// mapPlanets converts the result set into calculator input via the tagged
// row model matching the unit system.
func mapPlanets(ctx context.Context, resultSet *types.ResultSet, units exovel.UnitSystem) ([]exovel.Planet, error) {
	switch units {
	case exovel.UnitJupiter:
		var rows []exovel.JupiterUnitsRow
		if err := exovel.ConvertResultSet(ctx, &rows, resultSet); err != nil {
			return nil, err
		}
		planets := make([]exovel.Planet, 0, len(rows))
		for _, row := range rows {
			planets = append(planets, row.Planet())
		}
		return planets, nil
	default:
		var rows []exovel.EarthUnitsRow
		if err := exovel.ConvertResultSet(ctx, &rows, resultSet); err != nil {
			return nil, err
		}
		planets := make([]exovel.Planet, 0, len(rows))
		for _, row := range rows {
			planets = append(planets, row.Planet())
		}
		return planets, nil
	}
}

func openOutput(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
