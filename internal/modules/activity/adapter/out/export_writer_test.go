package out_test

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/adapter/out"
	"github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/domain"
)

func TestExportWriterCSV(t *testing.T) {
	t.Parallel()
	items := []domain.Activity{
		{
			ID:            42,
			Type:          "Lesson",
			Points:        12.5,
			PointsAwarded: 12,
			Started:       domain.NewRawTimeValue("Tue Mar 5 2024 14:00 UTC-8"),
			Completed:     domain.NewRawTimeValue("Tue Mar 5 2024 14:30 UTC-8"),
			Topic:         domain.TopicRef{ID: 7, Name: "Adding, Fast"},
			Test:          domain.TestRef{ID: 9, Name: "Unit 1", Course: domain.Course{ID: 2, Name: "Prealgebra"}},
		},
		{
			ID:   43,
			Type: "Quiz",
		},
	}

	var buf strings.Builder
	if err := out.NewExportWriter().WriteCSV(&buf, items); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d rows, want header plus 2", len(records))
	}
	wantHeader := "id,type,points,pointsAwarded,topic.id,topic.name,topic.course.id,topic.course.name,started,completed,test.id,test.name,test.course.id,test.course.name"
	if got := strings.Join(records[0], ","); got != wantHeader {
		t.Fatalf("header %q, want %q", got, wantHeader)
	}

	row := records[1]
	if row[0] != "42" || row[1] != "Lesson" {
		t.Fatalf("identity columns wrong: %v", row)
	}
	if row[2] != "12.5" || row[3] != "12" {
		t.Fatalf("float columns should drop trailing zeros: %v", row[2:4])
	}
	if row[5] != "Adding, Fast" {
		t.Fatalf("comma in topic name must survive quoting: %q", row[5])
	}
	if row[9] != "Tue Mar 5 2024 14:30 UTC-8" {
		t.Fatalf("completed must export the platform text verbatim: %q", row[9])
	}
	if row[13] != "Prealgebra" {
		t.Fatalf("test course column wrong: %q", row[13])
	}

	// A record with no timestamps exports empty time cells.
	if records[2][8] != "" || records[2][9] != "" {
		t.Fatalf("missing timestamps should export empty: %v", records[2][8:10])
	}
}

func TestExportWriterJSON(t *testing.T) {
	t.Parallel()
	completed := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	items := []domain.Activity{
		{ID: 1, Type: "Review", Completed: domain.NewTimeValue(completed)},
	}

	var buf strings.Builder
	if err := out.NewExportWriter().WriteJSON(&buf, items); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Fatalf("expected indented output:\n%s", buf.String())
	}

	var decoded []domain.Activity
	if err := json.Unmarshal([]byte(buf.String()), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 1 || decoded[0].ID != 1 {
		t.Fatalf("round trip lost records: %+v", decoded)
	}
	if resolved, ok := decoded[0].CompletedAt(); !ok || !resolved.Equal(completed) {
		t.Fatalf("completed %v %t, want %v", resolved, ok, completed)
	}
}
