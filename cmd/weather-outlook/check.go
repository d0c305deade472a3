package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-outlook/internal/assistant"
	"github.com/i474232898/weather-outlook/internal/report"
	"github.com/i474232898/weather-outlook/internal/weather"
)

var (
	checkLocation string
	checkLat      float64
	checkLon      float64
	checkDate     string
	checkFormat   string
	checkAsk      string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fetch one outlook and print its export",
	Example: `  weather-outlook check --location "Cairo" --date 2026-05-01
  weather-outlook check --lat 30.04 --lon 31.24 --date 2026-05-01 --format csv
  weather-outlook check --location Paris --date 2026-07-14 --ask "Is it a good day for a picnic?"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cfg, flushLog, err := setup(cmd.Context())
		defer flushLog()
		if err != nil {
			return err
		}

		if checkFormat != "json" && checkFormat != "csv" {
			return fmt.Errorf("--format must be json or csv")
		}
		q, err := checkQuery(cmd)
		if err != nil {
			return err
		}

		deps, err := buildGraph(ctx, cfg)
		if err != nil {
			return err
		}

		v, err := deps.opener.Open(ctx, q)
		if err != nil {
			return userError(err)
		}

		r := v.Report(ctx)
		var out string
		if checkFormat == "csv" {
			out, err = report.ToCSV(r)
		} else {
			out, err = report.ToJSON(r)
		}
		if err != nil {
			return userError(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)

		if checkAsk == "" {
			return nil
		}

		return askAssistant(ctx, cmd.OutOrStdout(), v.Assistant(), checkAsk)
	},
}

// askAssistant sends one question and prints the transcript. Completer
// failures are already recorded as a notice turn; rejected sends are returned.
func askAssistant(ctx context.Context, w io.Writer, session *assistant.Session, question string) error {
	if err := session.Send(ctx, question); err != nil {
		if errors.Is(err, assistant.ErrBusy) || errors.Is(err, assistant.ErrEmptyMessage) || errors.Is(err, assistant.ErrNotReady) {
			return err
		}
	}
	fmt.Fprintln(w)
	for _, turn := range session.Transcript() {
		fmt.Fprintf(w, "[%s] %s\n", turn.Role, turn.Content)
	}
	return nil
}

func checkQuery(cmd *cobra.Command) (weather.Query, error) {
	q := weather.Query{Text: checkLocation}

	latSet, lonSet := cmd.Flags().Changed("lat"), cmd.Flags().Changed("lon")
	if latSet != lonSet {
		return q, errors.New("--lat and --lon must be given together")
	}
	if latSet {
		q.Coordinates = &weather.Coordinates{Latitude: checkLat, Longitude: checkLon}
	}

	if checkDate != "" {
		d, err := weather.ParseDate(checkDate)
		if err != nil {
			return q, fmt.Errorf("invalid --date %q: use YYYY-MM-DD", checkDate)
		}
		q.Date = d
	}
	return q, nil
}

// userError prefixes the diagnostic with the short message for pipeline errors.
func userError(err error) error {
	var we *weather.Error
	if errors.As(err, &we) {
		return fmt.Errorf("%s (%w)", we.UserMessage(), err)
	}
	return err
}

func init() {
	checkCmd.Flags().StringVar(&checkLocation, "location", "", "place name to geocode")
	checkCmd.Flags().Float64Var(&checkLat, "lat", 0, "latitude, used when --location is empty")
	checkCmd.Flags().Float64Var(&checkLon, "lon", 0, "longitude, used when --location is empty")
	checkCmd.Flags().StringVar(&checkDate, "date", "", "day to check (YYYY-MM-DD)")
	checkCmd.Flags().StringVar(&checkFormat, "format", "json", "export format: json or csv")
	checkCmd.Flags().StringVar(&checkAsk, "ask", "", "question for the assistant about the result")

	rootCmd.AddCommand(checkCmd)
}
