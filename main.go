package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/MitrB/my-cgfs/pkg/core"
	"github.com/MitrB/my-cgfs/pkg/material"
	"github.com/MitrB/my-cgfs/pkg/output"
	"github.com/MitrB/my-cgfs/pkg/renderer"
	"github.com/MitrB/my-cgfs/pkg/scene"
)

// options holds the parsed command line
type options struct {
	sceneType  string
	configPath string
	scenesDir  string
	outPath    string
	format     string
	width      int
	height     int
	seed       int64
	bounces    int
	workers    int
	tileSize   int
	list       bool
	dumpConfig string
	quiet      bool
	help       bool
}

func parseFlags(args []string, stderr io.Writer) (options, *flag.FlagSet, error) {
	var opts options
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.sceneType, "scene", "default", "Scene: built-in name, 'file:<name>' from -scenes-dir, or a .json path")
	fs.StringVar(&opts.configPath, "config", "", "JSON settings file (overrides -scene)")
	fs.StringVar(&opts.scenesDir, "scenes-dir", "scenes", "Directory holding JSON scene files")
	fs.StringVar(&opts.outPath, "out", "", "Output image path (.ppm or .png); default output/<scene>/render_<timestamp>.<format>")
	fs.StringVar(&opts.format, "format", "ppm", "Image format when -out is not given: ppm or png")
	fs.IntVar(&opts.width, "width", 0, "Override the canvas width")
	fs.IntVar(&opts.height, "height", 0, "Override the canvas height")
	fs.Int64Var(&opts.seed, "seed", 0, "Override the random seed (0 keeps the configured seed)")
	fs.IntVar(&opts.bounces, "bounces", -1, "Override the reflection bounce count")
	fs.IntVar(&opts.workers, "workers", 0, "Number of parallel workers (0 = use CPU count)")
	fs.IntVar(&opts.tileSize, "tile", renderer.DefaultConfig().TileSize, "Tile size in pixels")
	fs.BoolVar(&opts.list, "list", false, "List available scenes and exit")
	fs.StringVar(&opts.dumpConfig, "dump-config", "", "Write the effective settings as JSON to this path and exit")
	fs.BoolVar(&opts.quiet, "quiet", false, "Suppress progress output")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	err := fs.Parse(args)
	return opts, fs, err
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes the command line and returns the first error. No image is
// written when the scene cannot be built or rendered.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, fs, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if opts.help {
		printHelp(fs, stdout)
		return nil
	}
	if opts.list {
		return listScenes(opts.scenesDir, stdout)
	}

	var logger core.Logger = renderer.NewDefaultLogger()
	if opts.quiet {
		logger = core.NopLogger{}
	}

	settings, err := createSettings(opts.sceneType, opts.configPath, opts.scenesDir)
	if err != nil {
		return err
	}
	applyOverrides(&settings, opts)
	if opts.quiet {
		settings.Debug = false
	}

	if opts.dumpConfig != "" {
		if err := scene.SaveSettings(opts.dumpConfig, settings); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Settings written to %s\n", opts.dumpConfig)
		return nil
	}

	outPath := opts.outPath
	if outPath == "" {
		format, err := output.ParseFormat(opts.format)
		if err != nil {
			return err
		}
		outPath = defaultOutputPath(sceneName(opts.sceneType, opts.configPath), format, time.Now())
	} else if _, err := output.ParseFormat(filepath.Ext(outPath)); err != nil {
		return err
	}

	s, err := scene.Build(settings, material.DefaultTable(), logger)
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	r := renderer.NewRenderer(s, nil, renderer.Config{TileSize: opts.tileSize, NumWorkers: opts.workers}, logger)
	fb, stats, err := r.RenderWithProgress(ctx, progressLogger(logger))
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	logger.Printf("Pixels: %d (absorbed %d, escaped %d, exhausted %d)\n",
		stats.TotalPixels, stats.Absorbed, stats.Escaped, stats.Exhausted)

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := output.Save(outPath, fb); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", outPath)
	return nil
}

// createSettings resolves the scene selection into settings
func createSettings(sceneType, configPath, scenesDir string) (scene.Settings, error) {
	if configPath != "" {
		return scene.LoadSettings(configPath)
	}
	if sceneType == "" {
		return scene.Settings{}, fmt.Errorf("no scene given (available: %v)", scene.BuiltinNames())
	}
	if strings.HasSuffix(sceneType, ".json") {
		return scene.LoadSettings(sceneType)
	}
	return scene.ResolveSettings(sceneType, scenesDir)
}

// applyOverrides copies command line overrides into the settings
func applyOverrides(settings *scene.Settings, opts options) {
	if opts.width > 0 {
		settings.Resolution[0] = opts.width
	}
	if opts.height > 0 {
		settings.Resolution[1] = opts.height
	}
	if opts.seed != 0 {
		settings.Seed = opts.seed
	}
	if opts.bounces >= 0 {
		settings.ReflectionCount = opts.bounces
	}
}

// sceneName derives a directory-friendly name for the selected scene
func sceneName(sceneType, configPath string) string {
	name := sceneType
	if configPath != "" {
		name = configPath
	}
	name = strings.TrimPrefix(name, "file:")
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "scene"
	}
	return name
}

// defaultOutputPath returns output/<scene>/render_<timestamp>.<format>
func defaultOutputPath(name string, format output.Format, now time.Time) string {
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", name, fmt.Sprintf("render_%s.%s", timestamp, format))
}

// progressLogger logs every quarter of the finished tiles
func progressLogger(logger core.Logger) func(renderer.TileCompletionResult) {
	lastQuarter := 0
	return func(r renderer.TileCompletionResult) {
		quarter := r.TileNumber * 4 / r.TotalTiles
		if quarter > lastQuarter {
			lastQuarter = quarter
			logger.Printf("Progress: %d/%d tiles (%d%%)\n", r.TileNumber, r.TotalTiles, quarter*25)
		}
	}
}

func listScenes(scenesDir string, stdout io.Writer) error {
	response, err := scene.ListAllScenes(scenesDir)
	if err != nil {
		return err
	}
	for _, group := range response.Groups {
		fmt.Fprintf(stdout, "%s:\n", group.Name)
		for _, info := range group.Scenes {
			if info.Description != "" {
				fmt.Fprintf(stdout, "  %-20s %s\n", info.ID, info.Description)
			} else {
				fmt.Fprintf(stdout, "  %s\n", info.ID)
			}
		}
	}
	return nil
}

func printHelp(fs *flag.FlagSet, stdout io.Writer) {
	fmt.Fprintln(stdout, "Sphere Raytracer")
	fmt.Fprintln(stdout, "Usage: raytracer [options]")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Options:")
	fs.SetOutput(stdout)
	fs.PrintDefaults()
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Available scenes:")
	for _, info := range scene.ListBuiltinScenes() {
		fmt.Fprintf(stdout, "  %-10s - %s\n", info.ID, info.Description)
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Output is saved to output/<scene>/render_<timestamp>.<format> unless -out is given")
}
