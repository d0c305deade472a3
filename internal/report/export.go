// Package report serializes an outlook and its history for download.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/weather-outlook/internal/weather"
)

// CSVHeader is the first row of every CSV export.
var CSVHeader = []string{
	"Type", "Date", "Temperature (°C)", "Rainfall (mm)", "Humidity (%)", "Wind (m/s)", "Classification",
}

// Report is the input of both exporters. Stats is nil until an outlook exists.
type Report struct {
	Place          string
	Date           time.Time
	Stats          *weather.Stats
	Classification weather.Classification
	History        []weather.HistoryPoint
}

// FromOutlook builds a report from a CheckWeather result and its history.
func FromOutlook(o weather.Outlook, history []weather.HistoryPoint) Report {
	stats := o.Stats
	return Report{
		Place:          o.Place.DisplayName,
		Date:           o.Date,
		Stats:          &stats,
		Classification: o.Classification,
		History:        history,
	}
}

// Document is the JSON export layout.
type Document struct {
	SelectedDate Selected               `json:"selectedDate"`
	History      []weather.HistoryPoint `json:"history"`
}

// Selected holds the selected-day fields of a Document.
type Selected struct {
	City           string                 `json:"city"`
	Date           string                 `json:"date"`
	Temperature    float64                `json:"temperature"`
	Rainfall       float64                `json:"rainfall"`
	Humidity       float64                `json:"humidity"`
	Wind           float64                `json:"wind"`
	Classification weather.Classification `json:"classification"`
}

func precondition(r Report, op string) error {
	if r.Stats == nil {
		return weather.NewError(weather.KindPreconditionFailed, op, "no weather data to export")
	}
	return nil
}

// ToJSON renders r as an indented JSON document.
func ToJSON(r Report) (string, error) {
	if err := precondition(r, "export.json"); err != nil {
		return "", err
	}

	history := r.History
	if history == nil {
		history = []weather.HistoryPoint{}
	}

	doc := Document{
		SelectedDate: Selected{
			City:           r.Place,
			Date:           weather.FormatDate(r.Date),
			Temperature:    r.Stats.Temperature,
			Rainfall:       r.Stats.Rainfall,
			Humidity:       r.Stats.Humidity,
			Wind:           r.Stats.Wind,
			Classification: r.Classification,
		},
		History: history,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(data), nil
}

// ParseJSON reads a document produced by ToJSON back into a Report.
func ParseJSON(data string) (Report, error) {
	var doc Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return Report{}, fmt.Errorf("decode report: %w", err)
	}
	date, err := weather.ParseDate(doc.SelectedDate.Date)
	if err != nil {
		return Report{}, fmt.Errorf("decode report date: %w", err)
	}
	sel := doc.SelectedDate
	return Report{
		Place: sel.City,
		Date:  date,
		Stats: &weather.Stats{
			Temperature: sel.Temperature,
			Rainfall:    sel.Rainfall,
			Humidity:    sel.Humidity,
			Wind:        sel.Wind,
		},
		Classification: sel.Classification,
		History:        doc.History,
	}, nil
}

// ToCSV renders r as CSV: the header, one Selected row, then one History row
// per point. History cells with no collected value are left blank.
func ToCSV(r Report) (string, error) {
	if err := precondition(r, "export.csv"); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		CSVHeader,
		{
			"Selected",
			weather.FormatDate(r.Date),
			formatNumber(r.Stats.Temperature),
			formatNumber(r.Stats.Rainfall),
			formatNumber(r.Stats.Humidity),
			formatNumber(r.Stats.Wind),
			string(r.Classification),
		},
	}
	for _, p := range r.History {
		rows = append(rows, []string{
			"History",
			strconv.Itoa(p.Year),
			collected(p.Temperature),
			collected(p.Rainfall),
			collected(p.Humidity),
			collected(p.Wind),
			"",
		})
	}

	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// collected renders a history value; zero is how the aggregator records an
// absent measurement, so it is left blank.
func collected(v float64) string {
	if v == 0 {
		return ""
	}
	return formatNumber(v)
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Filename returns the download name for r, e.g. weather_Cairo_2026-05-01.json.
func Filename(r Report, ext string) string {
	place := strings.Trim(unsafeFilename.ReplaceAllString(r.Place, "_"), "_")
	if place == "" {
		place = "location"
	}
	return fmt.Sprintf("weather_%s_%s.%s", place, weather.FormatDate(r.Date), ext)
}
