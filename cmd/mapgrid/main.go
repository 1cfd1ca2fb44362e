package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/mapgrid/config"
	"github.com/milk9111/mapgrid/editor"
	"github.com/milk9111/mapgrid/prefs"
	"github.com/milk9111/mapgrid/viewport"
)

func main() {
	configPath := flag.String("config", "", "Editor config YAML (defaults to ./"+config.DefaultPath+" when present)")
	backgroundPath := flag.String("background", "", "Background image, overrides the config")
	loadPath := flag.String("load", "", "Resume from a previously exported map JSON")
	outDir := flag.String("out", "", "Directory exports are written to, overrides the config")
	useClipboard := flag.Bool("clipboard", true, "Also copy exports to the clipboard")
	flag.Parse()

	log.Println("mapgrid starting...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *backgroundPath != "" {
		cfg.Background = *backgroundPath
	}
	if *outDir != "" {
		cfg.Export.Dir = *outDir
	}

	game := &Game{
		canvas:         newGridCanvas(cfg.MapSize(), cfg.Limits()),
		bg:             &background{},
		configPath:     *configPath,
		backgroundPath: cfg.Background,
	}
	if game.configPath == "" {
		game.configPath = config.DefaultPath
	}

	game.ed = editor.New(cfg, editor.Host{
		Canvas:     game.canvas,
		Panner:     game,
		Sink:       buildSink(cfg.Export.Dir, *useClipboard),
		Background: game.bg,
	}, nil)

	if *loadPath != "" {
		if err := game.ed.ResumeFile(*loadPath); err != nil {
			log.Printf("resume: %v", err)
		} else {
			log.Printf("resumed from %s", *loadPath)
		}
	}

	store := prefs.Open()
	if p, ok, err := store.Load(); err != nil {
		log.Printf("prefs: %v", err)
	} else if ok {
		game.ed.ApplyPrefs(p)
	}

	game.ui, game.toolbar = buildUI(toolbarCallbacks{
		onMode:   func(m viewport.Mode) { game.ed.SetMode(m) },
		onBrush:  func(name string) { game.ed.SelectBrushName(name) },
		onExport: game.export,
	}, game.ed.Mode(), game.ed.Brush(), game.ed.ZoomLabel(), game.ed.CanExport())

	if w, err := config.NewWatcher(game.configPath, game.backgroundPath); err != nil {
		log.Printf("watch: %v", err)
	} else {
		game.watcher = w
		defer w.Close()
	}

	ebiten.SetWindowTitle("Map Grid Editor")
	ebiten.SetWindowSize(1280, 800)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}

	if err := store.Save(game.ed.Prefs()); err != nil {
		log.Printf("prefs: %v", err)
	}
}

func humanBytes(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.1f KiB", float64(n)/1024)
}
