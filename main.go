package main

import (
	"context"
	"embed"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"
	"github.com/wailsapp/wails/v3/pkg/icons"

	"go.aimuz.me/viajero/audio"
	"go.aimuz.me/viajero/cache"
	"go.aimuz.me/viajero/config"
	"go.aimuz.me/viajero/gateway"
	"go.aimuz.me/viajero/geo"
	"go.aimuz.me/viajero/internal/app"
	"go.aimuz.me/viajero/internal/logging"
	"go.aimuz.me/viajero/internal/types"
	"go.aimuz.me/viajero/internal/workers"
	"go.aimuz.me/viajero/llm"
	"go.aimuz.me/viajero/localization"
)

//go:embed all:frontend/dist
var assets embed.FS

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)
	slog.Info("starting app", "version", version, "commit", commit, "date", date, "provider", cfg.Provider)

	msgs, err := localization.NewManager()
	if err != nil {
		slog.Error("load messages", "error", err)
		os.Exit(1)
	}

	gen, err := llm.NewGenerator(context.Background(), llm.Options{
		Provider:    llm.Provider(cfg.Provider),
		APIKey:      cfg.Credential(),
		BaseURL:     cfg.BaseURL,
		Model:       cfg.TextModel,
		Temperature: cfg.Temperature,
	})
	if err != nil {
		slog.Error("create generator", "error", err)
		os.Exit(1)
	}

	// Session cache lives in memory only.
	store, err := cache.New("")
	if err != nil {
		slog.Error("init cache", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	gw := gateway.New(gen, gateway.Config{
		TextModel:   cfg.TextModel,
		SpeechModel: cfg.SpeechModel,
		Voice:       cfg.Voice,
		CacheTTL:    time.Duration(cfg.CacheTTL),
		Timeout:     time.Duration(cfg.RequestTimeout),
	}, gateway.WithCache(store))

	pool, err := workers.NewPool(cfg.Workers)
	if err != nil {
		slog.Error("create worker pool", "error", err)
		os.Exit(1)
	}
	defer pool.Release()

	locator, err := geo.New(geo.Options{
		Mode:      geo.Mode(cfg.Location.Mode),
		Static:    types.Coords{Lat: cfg.Location.Lat, Lng: cfg.Location.Lng},
		LookupURL: cfg.Location.LookupURL,
	})
	if err != nil {
		slog.Error("create locator", "error", err)
		os.Exit(1)
	}

	player := audio.NewPlayer()
	defer player.Close()

	appService := app.New(version, app.Deps{
		Gateway:      gw,
		Runner:       pool,
		Messages:     msgs,
		Locator:      locator,
		Output:       player,
		Recorder:     app.NewMicRecorder(),
		LevelUpDelay: time.Duration(cfg.LevelUpDelay),
		Hotkeys:      cfg.Hotkeys,
	})

	wailsApp := application.New(application.Options{
		Name:        "Viajero Cultural",
		Description: "Guía de viaje con IA para Italia y Egipto",
		Services: []application.Service{
			application.NewService(appService),
		},
		Assets: application.AssetOptions{
			Handler: application.BundledAssetFileServer(assets),
		},
		Mac: application.MacOptions{
			// Don't quit when all windows are closed (we have a system tray)
			ApplicationShouldTerminateAfterLastWindowClosed: false,
		},
	})

	mainWindow := wailsApp.Window.NewWithOptions(application.WebviewWindowOptions{
		Title:  "Viajero Cultural",
		Width:  430,
		Height: 860,
		URL:    "/",
		Mac: application.MacWindow{
			TitleBar:                application.MacTitleBarHiddenInsetUnified,
			InvisibleTitleBarHeight: 38,
		},
		DevToolsEnabled: version == "dev",
	})

	// Intercept window close: hide instead of destroy so tray can reopen
	mainWindow.RegisterHook(events.Common.WindowClosing, func(e *application.WindowEvent) {
		e.Cancel()
		mainWindow.Hide()
	})

	appService.Init(wailsApp, mainWindow)

	systemTray := wailsApp.SystemTray.New()
	if runtime.GOOS == "darwin" {
		systemTray.SetTemplateIcon(icons.SystrayMacTemplate)
	}

	trayMenu := wailsApp.NewMenu()
	trayMenu.Add(msgs.Translate(localization.TrayShow)).OnClick(func(ctx *application.Context) {
		appService.ShowWindow()
	})
	trayMenu.Add(msgs.Translate(localization.TrayScreenshot)).
		SetAccelerator("CmdOrCtrl+Shift+S").
		OnClick(func(ctx *application.Context) {
			appService.StartScreenshot()
		})
	trayMenu.Add(msgs.Translate(localization.TrayClipboard)).
		SetAccelerator("CmdOrCtrl+Shift+T").
		OnClick(func(ctx *application.Context) {
			if err := appService.TranslateClipboard(); err != nil {
				slog.Warn("clipboard from tray", "error", err)
			}
		})
	trayMenu.Add(msgs.Translate(localization.TrayBack)).OnClick(func(ctx *application.Context) {
		appService.Back()
		appService.ShowWindow()
	})

	trayMenu.AddSeparator()
	trayMenu.Add(msgs.Translate(localization.TrayQuit)).
		SetAccelerator("CmdOrCtrl+Q").
		OnClick(func(ctx *application.Context) {
			appService.Shutdown()
			wailsApp.Quit()
		})

	systemTray.SetMenu(trayMenu)

	if err := wailsApp.Run(); err != nil {
		slog.Error("run app", "error", err)
	}
}
