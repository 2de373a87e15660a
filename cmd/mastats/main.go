package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rahimnathwani/mathacademy-stats/internal/bootstrap"
	"github.com/rahimnathwani/mathacademy-stats/internal/platform/config"
	"github.com/rahimnathwani/mathacademy-stats/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string
	var debug bool

	root := &cobra.Command{
		Use:           "mastats",
		Short:         "Math Academy learning statistics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.mastats)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(newTUICmd(&dataDir, &debug))
	root.AddCommand(newSyncCmd(&dataDir, &debug))
	root.AddCommand(newActivitiesCmd(&dataDir, &debug))
	root.AddCommand(newStatsCmd(&dataDir, &debug))
	root.AddCommand(newFrontierCmd(&dataDir, &debug))
	root.AddCommand(newCacheCmd(&dataDir, &debug))
	root.AddCommand(newRendererCmd(&dataDir, &debug))
	root.AddCommand(newRenderCmd(&dataDir, &debug))
	return root
}

func loadApp(dataDir string, debug bool) (*bootstrap.App, error) {
	cfg, err := config.New(dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logging.New(debug))
}

func newTUICmd(dataDir *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run mastats terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, *debug)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app)
		},
	}
}

func newSyncCmd(dataDir *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch activity history and merge it into the local cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, *debug)
			if err != nil {
				return err
			}
			out, err := app.ActivityCLI.Sync(context.Background(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cached=%d new=%d pages=%d reason=%s\n",
				out.TotalCached, out.NewRecords, out.Pages, out.StopReason)
			return nil
		},
	}
}

func newActivitiesCmd(dataDir *string, debug *bool) *cobra.Command {
	activities := &cobra.Command{Use: "activities", Short: "Cached activity queries"}

	var activityType, period string
	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List cached activities, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, *debug)
			if err != nil {
				return err
			}
			items, err := app.ActivityCLI.List(context.Background(), activityType, period, limit)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no activities")
				return nil
			}
			for _, item := range items {
				completed := "unknown"
				if item.HasCompleted {
					completed = item.CompletedAt.Format(time.RFC3339)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%.0f/%.0f xp\t%s\n",
					item.ID, completed, item.Type, item.Course, item.PointsAwarded, item.Points, item.Topic)
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&activityType, "type", "", "filter by activity type")
	listCmd.Flags().StringVar(&period, "period", "", "period: all|7d|30d|90d|365d")
	listCmd.Flags().IntVar(&limit, "limit", 0, "max rows (0 = all)")
	activities.AddCommand(listCmd)

	var format, outPath string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export cached activities as json or csv",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, *debug)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer f.Close()
				w = f
			}
			return app.ActivityCLI.Export(context.Background(), format, w)
		},
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "export format: json|csv")
	exportCmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")
	activities.AddCommand(exportCmd)

	return activities
}

func newStatsCmd(dataDir *string, debug *bool) *cobra.Command {
	stats := &cobra.Command{Use: "stats", Short: "Derived statistics over the cache"}

	var activityType, period string
	addFilterFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&activityType, "type", "", "filter by activity type")
		c.Flags().StringVar(&period, "period", "", "period: all|7d|30d|90d|365d")
	}

	courses := &cobra.Command{
		Use:   "courses",
		Short: "Per-course xp/min percentiles and threshold shares",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, *debug)
			if err != nil {
				return err
			}
			rows, err := app.StatsCLI.Courses(context.Background(), activityType, period)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no timed activities")
				return nil
			}
			for _, row := range rows {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tn=%d\tp25=%.2f p50=%.2f p75=%.2f\t>=1.0xp/min=%.1f%%\n",
					row.Course, row.Count, row.P25, row.P50, row.P75, row.PctAtLeast1)
			}
			return nil
		},
	}
	addFilterFlags(courses)
	stats.AddCommand(courses)

	daily := &cobra.Command{
		Use:   "daily",
		Short: "Daily xp and attainment buckets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, *debug)
			if err != nil {
				return err
			}
			rows, err := app.StatsCLI.Daily(context.Background(), activityType, period)
			if err != nil {
				return err
			}
			for _, row := range rows {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\txp=%.0f\tn=%d\tearned=%.0f/%.0f\tattainment=%.1f%%\n",
					row.Date, row.XP, row.Count, row.Earned, row.Possible, row.AttainmentPct)
			}
			return nil
		},
	}
	addFilterFlags(daily)
	stats.AddCommand(daily)

	timeline := &cobra.Command{
		Use:   "timeline",
		Short: "Cumulative and 7-day rolling xp series",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, *debug)
			if err != nil {
				return err
			}
			rows, err := app.StatsCLI.Timeline(context.Background(), activityType, period)
			if err != nil {
				return err
			}
			for _, row := range rows {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\txp=%.0f\tcum_xp=%.0f\tcum_n=%d\tavg7=%.1f\tearn7=%.1f%%\n",
					row.Date, row.DailyXP, row.CumulativeXP, row.CumulativeCount, row.RollingAvgXP, row.RollingPctEarned)
			}
			return nil
		},
	}
	addFilterFlags(timeline)
	stats.AddCommand(timeline)

	types := &cobra.Command{
		Use:   "types",
		Short: "Activity counts by kind",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, *debug)
			if err != nil {
				return err
			}
			counts, err := app.StatsCLI.TypeCounts(context.Background(), activityType, period)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "lessons=%d reviews=%d multistep=%d quizzes=%d diagnostics=%d\n",
				counts.Lesson, counts.Review, counts.Multistep, counts.Quiz, counts.Diagnostic)
			return nil
		},
	}
	addFilterFlags(types)
	stats.AddCommand(types)

	stats.AddCommand(&cobra.Command{
		Use:   "transitions",
		Short: "Course change history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, *debug)
			if err != nil {
				return err
			}
			rows, err := app.StatsCLI.Transitions(context.Background())
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no course transitions")
				return nil
			}
			for _, row := range rows {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", row.At.Format("2006-01-02"), row.Label)
			}
			return nil
		},
	})

	stats.AddCommand(&cobra.Command{
		Use:   "overview",
		Short: "Current course and lifetime totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, *debug)
			if err != nil {
				return err
			}
			out, err := app.StatsCLI.Overview(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "course: %s\ntotal xp: %.0f\nactivities: %d\nlast sync: %s\n",
				out.CurrentCourse, out.TotalXP, out.Activities, out.UpdatedAt.Format(time.RFC3339))
			return nil
		},
	})

	return stats
}

func newFrontierCmd(dataDir *string, debug *bool) *cobra.Command {
	var limit int
	frontier := &cobra.Command{
		Use:   "frontier",
		Short: "Rank frontier topics by prerequisite repetition strength",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, *debug)
			if err != nil {
				return err
			}
			topics, err := app.FrontierCLI.Rank(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(topics) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no frontier topics")
				return nil
			}
			for i, topic := range topics {
				key := "—"
				if topic.HasKey {
					key = fmt.Sprintf("%.2f", topic.SortKey)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\tkey=%s\treps min=%.1f median=%.1f\tprereqs=%d\n",
					i+1, topic.Name, key, topic.RepMin, topic.RepMedian, len(topic.Prereqs))
			}
			return nil
		},
	}
	frontier.Flags().IntVar(&limit, "limit", 0, "max topics (0 = all)")
	return frontier
}

func newCacheCmd(dataDir *string, debug *bool) *cobra.Command {
	cache := &cobra.Command{Use: "cache", Short: "Local cache maintenance"}
	cache.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop all cached activity data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, *debug)
			if err != nil {
				return err
			}
			if err := app.ActivityCLI.ClearCache(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
			return nil
		},
	})
	return cache
}

func newRendererCmd(dataDir *string, debug *bool) *cobra.Command {
	renderer := &cobra.Command{Use: "renderer", Short: "Chart renderer operations"}

	renderer.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List renderer manifests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, *debug)
			if err != nil {
				return err
			}
			renderers, err := app.RenderCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(renderers) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no renderers configured")
				return nil
			}
			for _, r := range renderers {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s enabled=%t kinds=%v binary=%s\n",
					r.Name, r.Version, r.Enabled, r.Kinds, r.Binary)
			}
			return nil
		},
	})

	renderer.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Validate renderer checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, *debug)
			if err != nil {
				return err
			}
			results, err := app.RenderCLI.Doctor(context.Background())
			if err != nil {
				return err
			}
			if len(results) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no renderers configured")
				return nil
			}
			for _, r := range results {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s checksum=%t binary=%t lifecycle=%t",
					r.Name, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK)
				if r.Error != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), " error=%q", r.Error)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	})

	return renderer
}

func newRenderCmd(dataDir *string, debug *bool) *cobra.Command {
	var rendererName, kind, outputDir string
	render := &cobra.Command{
		Use:   "render --renderer <name> --kind <kind>",
		Short: "Render a statistics document via a chart renderer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rendererName == "" || kind == "" {
				return fmt.Errorf("--renderer and --kind are required")
			}
			app, err := loadApp(*dataDir, *debug)
			if err != nil {
				return err
			}
			out, err := app.RenderCLI.Render(context.Background(), rendererName, kind, outputDir)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "renderer=%s kind=%s job=%s exit=%d\n",
				out.Renderer, out.Kind, out.JobID, out.ExitCode)
			if out.OutputPath != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "output=%s\n", out.OutputPath)
			}
			if out.Stdout != "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Stdout)
			}
			return nil
		},
	}
	render.Flags().StringVar(&rendererName, "renderer", "", "renderer name")
	render.Flags().StringVar(&kind, "kind", "", "document kind: courses|daily|timeline|frontier")
	render.Flags().StringVar(&outputDir, "out-dir", ".", "directory for rendered output")
	return render
}
