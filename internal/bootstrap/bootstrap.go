package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	activityinadapter "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/adapter/in"
	activityoutadapter "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/adapter/out"
	activitydto "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/dto"
	activityin "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/port/in"
	activityservice "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/service"
	activityusecase "github.com/rahimnathwani/mathacademy-stats/internal/modules/activity/usecase"
	frontierinadapter "github.com/rahimnathwani/mathacademy-stats/internal/modules/frontier/adapter/in"
	frontieroutadapter "github.com/rahimnathwani/mathacademy-stats/internal/modules/frontier/adapter/out"
	frontierin "github.com/rahimnathwani/mathacademy-stats/internal/modules/frontier/port/in"
	frontierservice "github.com/rahimnathwani/mathacademy-stats/internal/modules/frontier/service"
	frontierusecase "github.com/rahimnathwani/mathacademy-stats/internal/modules/frontier/usecase"
	renderinadapter "github.com/rahimnathwani/mathacademy-stats/internal/modules/render/adapter/in"
	renderoutadapter "github.com/rahimnathwani/mathacademy-stats/internal/modules/render/adapter/out"
	renderservice "github.com/rahimnathwani/mathacademy-stats/internal/modules/render/service"
	renderusecase "github.com/rahimnathwani/mathacademy-stats/internal/modules/render/usecase"
	statsinadapter "github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/adapter/in"
	statsoutadapter "github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/adapter/out"
	statsin "github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/port/in"
	statsservice "github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/service"
	statsusecase "github.com/rahimnathwani/mathacademy-stats/internal/modules/stats/usecase"
	"github.com/rahimnathwani/mathacademy-stats/internal/platform/clock"
	"github.com/rahimnathwani/mathacademy-stats/internal/platform/config"
	"github.com/rahimnathwani/mathacademy-stats/internal/platform/id"
	uiapp "github.com/rahimnathwani/mathacademy-stats/internal/ui/app"
)

type App struct {
	ActivityCLI activityinadapter.CLIHandler
	StatsCLI    statsinadapter.CLIHandler
	FrontierCLI frontierinadapter.CLIHandler
	RenderCLI   renderinadapter.CLIHandler

	activityUC activityin.Usecase
	statsUC    statsin.Usecase
	frontierUC frontierin.Usecase
}

func New(cfg config.Config, log *slog.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	clk := clock.SystemClock{}
	ids := id.RandomHex{}

	cache, err := activityoutadapter.NewSQLiteCache(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new activity cache: %w", err)
	}
	historyClient := activityoutadapter.NewHTTPHistoryClient(cfg.Origin, cfg.StudentID, cfg.SessionCookie)
	syncSvc := activityservice.NewSyncService(clk, clk, historyClient, cache, log, cfg.Window(), cfg.PageCap, cfg.PacingDelay)
	activitySvc := activityservice.NewActivityService(clk, cache)
	activityUC := activityusecase.NewInteractor(syncSvc, activitySvc, activityoutadapter.NewExportWriter())

	statsProjector, err := statsoutadapter.NewSQLiteStatsProjector(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new stats projector: %w", err)
	}
	statsSvc := statsservice.NewStatsService(clk, statsoutadapter.NewActivitySourceAdapter(activityUC), statsProjector, time.Local)
	statsUC := statsusecase.NewInteractor(statsSvc)

	frontierUC := frontierusecase.NewInteractor(frontierservice.NewRankerService(
		frontieroutadapter.NewConfigIdentityResolver(cfg.StudentID, cfg.CourseID, cfg.Origin),
		frontieroutadapter.NewHTTPGraphClient(cfg.Origin, cfg.SessionCookie),
	))

	renderUC := renderusecase.NewInteractor(renderservice.NewRenderService(
		renderoutadapter.NewFileManifestStore(cfg.DataDir),
		renderoutadapter.NewGRPCHost(),
		renderoutadapter.NewStatsDocumentSource(clk, statsUC, frontierUC),
		ids,
	))

	return &App{
		ActivityCLI: activityinadapter.NewCLIHandler(activityUC),
		StatsCLI:    statsinadapter.NewCLIHandler(statsUC),
		FrontierCLI: frontierinadapter.NewCLIHandler(frontierUC),
		RenderCLI:   renderinadapter.NewCLIHandler(renderUC),
		activityUC:  activityUC,
		statsUC:     statsUC,
		frontierUC:  frontierUC,
	}, nil
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(
		tuiSyncBridge{usecase: app.activityUC},
		app.statsUC,
		app.statsUC,
		app.statsUC,
		app.frontierUC,
	)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// tuiSyncBridge runs a sync without progress reporting. The TUI surfaces
// only the final outcome in its status bar.
type tuiSyncBridge struct {
	usecase activityin.Usecase
}

func (b tuiSyncBridge) Sync(ctx context.Context) (activitydto.SyncOutput, error) {
	return b.usecase.Sync(ctx, activitydto.SyncInput{}, nil)
}
