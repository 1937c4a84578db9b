package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"

	"github.com/sreevidya/handrom/internal/app"
	"github.com/sreevidya/handrom/internal/config"
	"github.com/sreevidya/handrom/internal/logging"
	"github.com/sreevidya/handrom/internal/rom"
	"github.com/sreevidya/handrom/internal/server"
	"github.com/sreevidya/handrom/internal/store"
	"github.com/sreevidya/handrom/internal/tray"
)

func main() {
	fmt.Println("HandROM - Hand Range of Motion Assessment Station")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	logger, err := logging.Init(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logger.Sync()

	st, err := store.New(cfg.DBPath())
	if err != nil {
		logger.Fatal("failed to initialize store", zap.Error(err))
	}
	defer st.Close()

	station := app.New(app.Config{
		Store:          st,
		CameraID:       cfg.Camera.DeviceID,
		PresenceThresh: cfg.Camera.PresenceThreshold,
		Engine:         cfg.ROM(),
		WindowSeconds:  cfg.Recording.WindowSeconds,
		Log:            logger,
	})
	defer station.Close()

	staticDir := cfg.Server.StaticDir
	if staticDir == "" {
		staticDir = findWebDir()
	}
	if staticDir != "" {
		logger.Info("serving static files", zap.String("dir", staticDir))
	}

	srv := server.New(server.Config{
		StaticDir: staticDir,
		Store:     st,
		Camera:    station.Camera(),
		Tracker:   station.Tracker(),
		Engine:    cfg.ROM(),
		Log:       logger,
	})

	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	t := tray.New()
	t.OnStart(func(kind rom.AssessmentKind) {
		if _, err := station.StartAssessment(kind); err != nil {
			logger.Warn("failed to start assessment", zap.Error(err))
			return
		}
		t.SetRecording(true)
	})
	t.OnStop(func() {
		result := station.StopAssessment()
		t.SetRecording(false)
		if result != nil {
			t.SetLastResult(summarize(result))
		}
	})
	t.OnDashboard(func() {
		openBrowser("http://"+cfg.Server.Addr, logger)
	})
	t.OnQuit(func() {
		logger.Info("shutting down")
	})

	// Blocks until quit.
	t.Run()
}

// summarize renders a one-line result for the tray menu.
func summarize(r *rom.Result) string {
	s := fmt.Sprintf("%s, %s hand", r.Kind, r.HandType)
	if r.Incomplete {
		s += " (incomplete)"
	}
	return s
}

// openBrowser opens the dashboard URL with the platform's opener.
func openBrowser(url string, logger *zap.Logger) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		logger.Warn("failed to open browser", zap.String("url", url), zap.Error(err))
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.handrom/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".handrom", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
