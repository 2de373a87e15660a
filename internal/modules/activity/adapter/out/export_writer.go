package out

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/domain"
	activityout "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/port/out"
)

// csvColumns is the fixed export column order. Consumers pin to it.
var csvColumns = []string{
	"id", "type", "points", "pointsAwarded",
	"topic.id", "topic.name", "topic.course.id", "topic.course.name",
	"started", "completed",
	"test.id", "test.name", "test.course.id", "test.course.name",
}

type ExportWriter struct{}

func NewExportWriter() activityout.Exporter {
	return ExportWriter{}
}

func (ExportWriter) WriteJSON(w io.Writer, items []domain.Activity) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encode activities json: %w", err)
	}
	return nil
}

func (ExportWriter) WriteCSV(w io.Writer, items []domain.Activity) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, item := range items {
		record := []string{
			strconv.FormatInt(item.ID, 10),
			item.Type,
			formatFloat(item.Points),
			formatFloat(item.PointsAwarded),
			strconv.FormatInt(item.Topic.ID, 10),
			item.Topic.Name,
			strconv.FormatInt(item.Topic.Course.ID, 10),
			item.Topic.Course.Name,
			rawTime(item.Started),
			rawTime(item.Completed),
			strconv.FormatInt(item.Test.ID, 10),
			item.Test.Name,
			strconv.FormatInt(item.Test.Course.ID, 10),
			item.Test.Course.Name,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record %d: %w", item.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// rawTime exports the timestamp exactly as the platform sent it, falling
// back to the JSON scalar text for non-string encodings.
func rawTime(v domain.TimeValue) string {
	raw, err := v.MarshalJSON()
	if err != nil || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
