package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	renderrpc "github.com/rahimnathwani/mathacademy-stats/internal/modules/render/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *renderrpc.Empty) (*renderrpc.Metadata, error) {
	return &renderrpc.Metadata{
		Name:    "reference",
		Version: "1.0.0",
		Kinds:   []string{"daily", "timeline"},
	}, nil
}

type envelope struct {
	Schema string          `json:"schema"`
	Kind   string          `json:"kind"`
	Body   json.RawMessage `json:"body"`
}

type dailyRow struct {
	Date string  `json:"date"`
	XP   float64 `json:"xp"`
}

type timelineRow struct {
	Date    string  `json:"date"`
	DailyXP float64 `json:"daily_xp"`
}

func (s *server) Render(_ context.Context, in *renderrpc.RenderRequest) (*renderrpc.RenderResponse, error) {
	var doc envelope
	if err := json.Unmarshal([]byte(in.DocumentJSON), &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if doc.Schema != "mastats.document.v1" {
		return nil, fmt.Errorf("unsupported document schema: %s", doc.Schema)
	}

	var labels []string
	var values []float64
	switch doc.Kind {
	case "daily":
		var rows []dailyRow
		if err := json.Unmarshal(doc.Body, &rows); err != nil {
			return nil, fmt.Errorf("decode daily body: %w", err)
		}
		for _, row := range rows {
			labels = append(labels, row.Date)
			values = append(values, row.XP)
		}
	case "timeline":
		var rows []timelineRow
		if err := json.Unmarshal(doc.Body, &rows); err != nil {
			return nil, fmt.Errorf("decode timeline body: %w", err)
		}
		for _, row := range rows {
			labels = append(labels, row.Date)
			values = append(values, row.DailyXP)
		}
	default:
		return nil, fmt.Errorf("unsupported document kind: %s", doc.Kind)
	}

	chart := buildChart(doc.Kind, labels, values)
	outputPath := filepath.Join(in.OutputDir, fmt.Sprintf("%s-%s.txt", doc.Kind, in.JobID))
	if err := os.WriteFile(outputPath, []byte(chart), 0o644); err != nil {
		return nil, fmt.Errorf("write chart: %w", err)
	}
	return &renderrpc.RenderResponse{
		OutputPath: outputPath,
		Stdout:     sparkline(values),
		ExitCode:   0,
	}, nil
}

func buildChart(kind string, labels []string, values []float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s xp\n\n", kind)
	if len(values) == 0 {
		b.WriteString("(no data)\n")
		return b.String()
	}
	fmt.Fprintf(&b, "%s\n\n", sparkline(values))
	for i, label := range labels {
		fmt.Fprintf(&b, "%s  %8.1f\n", label, values[i])
	}
	return b.String()
}

func sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	max := values[0]
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	runes := make([]rune, 0, len(values))
	for _, v := range values {
		idx := 0
		if max > 0 {
			idx = int(v / max * float64(len(sparkRunes)-1))
		}
		if idx < 0 {
			idx = 0
		}
		runes = append(runes, sparkRunes[idx])
	}
	return string(runes)
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: renderrpc.HandshakeConfig,
		Plugins:         renderrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
