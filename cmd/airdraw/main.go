package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ayusman/airdraw/internal/app"
	"github.com/ayusman/airdraw/internal/capture"
	"github.com/ayusman/airdraw/internal/config"
	"github.com/ayusman/airdraw/internal/detector"
	"github.com/ayusman/airdraw/internal/server"
	"github.com/ayusman/airdraw/internal/store"
	"github.com/ayusman/airdraw/internal/tray"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to the YAML config file")
	withTray := flag.Bool("tray", false, "show a system tray menu")
	flag.Parse()

	fmt.Println("AirDraw - Hand Gesture Canvas")

	cfg, err := config.LoadOrInit(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.NewWithPalette(cfg.DBPath(), cfg.Palette)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	a := app.New(appConfig(cfg, st))

	webDir := findWebDir(cfg.Server.StaticDir, cfg.DataDir)
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       a,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start capture: %v", err)
	}
	defer a.Stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fmt.Printf("Starting server on %s\n", cfg.Server.Addr)
		return srv.Run(ctx, cfg.Server.Addr)
	})

	if *withTray {
		t := newTray(a, "http://"+cfg.Server.Addr, stop)
		g.Go(func() error {
			<-ctx.Done()
			t.Quit()
			return nil
		})
		g.Go(func() error {
			followGesture(ctx, a, t)
			return nil
		})
		// systray needs the main thread.
		t.Run()
		stop()
	}

	if err := g.Wait(); err != nil {
		log.Printf("Server failed: %v", err)
	}
}

func appConfig(cfg *config.Config, st *store.Store) app.Config {
	det := detector.DefaultConfig()
	det.Script = cfg.Tracking.MediaPipeScript

	return app.Config{
		Store:   st,
		Palette: cfg.Palette,
		Camera: capture.Config{
			DeviceID: cfg.Camera.DeviceID,
			Width:    cfg.Camera.Width,
			Height:   cfg.Camera.Height,
			FPS:      cfg.Tracking.IdleFPS,
			Mirror:   cfg.Camera.Mirror,
		},
		Detector:        det,
		MotionThresh:    cfg.Tracking.MotionThreshold,
		IdleFPS:         cfg.Tracking.IdleFPS,
		ActiveFPS:       cfg.Tracking.ActiveFPS,
		IdleCooldown:    cfg.Tracking.IdleCooldown,
		SmoothingSize:   cfg.Tracking.SmoothingSize,
		Threshold:       cfg.Classifier.Threshold,
		StrictThreshold: cfg.Classifier.StrictThreshold,
	}
}

func newTray(a *app.App, url string, quit func()) *tray.Tray {
	t := tray.New()
	t.SetEnabled(a.IsEnabled())
	t.OnToggle(a.SetEnabled)
	t.OnClear(a.Clear)
	t.OnBackground(a.SwitchBackground)
	t.OnOpen(func() {
		if err := openBrowser(url); err != nil {
			log.Printf("Failed to open browser: %v", err)
		}
	})
	t.OnQuit(quit)
	return t
}

// followGesture mirrors the live gesture into the tray menu.
func followGesture(ctx context.Context, a *app.App, t *tray.Tray) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if g, ok := a.LastGesture(); ok {
				t.SetGesture(g.Kind.String())
			} else {
				t.SetGesture("")
			}
		}
	}
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// findWebDir resolves the static directory. It checks the configured path,
// then "web", "../web", "../../web" and finally <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(configured, dataDir string) string {
	candidates := []string{configured, "web", "../web", "../../web", filepath.Join(dataDir, "web")}
	for _, p := range candidates {
		if p == "" {
			continue
		}
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}
	return ""
}
