package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MitrB/my-cgfs/pkg/core"
	"github.com/MitrB/my-cgfs/pkg/integrator"
	"github.com/MitrB/my-cgfs/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// Config contains configuration for parallel rendering
type Config struct {
	TileSize   int // Size of each tile (64x64 recommended)
	NumWorkers int // Number of parallel workers (0 = use CPU count)
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		TileSize:   64,
		NumWorkers: 0,
	}
}

// TileCompletionResult contains progress information about a completed tile
type TileCompletionResult struct {
	TileID     int
	TileNumber int // Completed tiles so far (1-based)
	TotalTiles int
}

// Renderer renders a scene into a framebuffer by splitting the canvas into
// tiles and tracing them on a worker pool.
type Renderer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	config     Config
	logger     core.Logger
}

// NewRenderer creates a renderer. A nil integrator selects Whitted tracing
// and a nil logger discards output.
func NewRenderer(s *scene.Scene, integratorInst integrator.Integrator, config Config, logger core.Logger) *Renderer {
	if integratorInst == nil {
		integratorInst = integrator.NewWhitted()
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	if config.TileSize <= 0 {
		config.TileSize = DefaultConfig().TileSize
	}
	return &Renderer{
		scene:      s,
		integrator: integratorInst,
		config:     config,
		logger:     logger,
	}
}

// Render traces every pixel of the scene
func (r *Renderer) Render(ctx context.Context) (*Framebuffer, RenderStats, error) {
	return r.RenderWithProgress(ctx, nil)
}

// RenderWithProgress traces every pixel of the scene and calls onTile from
// the calling goroutine after each finished tile. The first tile error or a
// cancelled context aborts the render; no partial framebuffer is returned.
func (r *Renderer) RenderWithProgress(ctx context.Context, onTile func(TileCompletionResult)) (*Framebuffer, RenderStats, error) {
	if err := r.scene.Validate(); err != nil {
		return nil, RenderStats{}, err
	}

	width, height := r.scene.Canvas.Width, r.scene.Canvas.Height
	fb := NewFramebuffer(width, height)
	tiles := NewTileGrid(width, height, r.config.TileSize)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := NewWorkerPool(NewTileRenderer(r.scene, r.integrator), fb, len(tiles), r.config.NumWorkers)
	r.logger.Printf("Rendering %dx%d (%d spheres, %d lights) in %d tiles using %d workers...\n",
		width, height, len(r.scene.Spheres), len(r.scene.Lights), len(tiles), pool.GetNumWorkers())

	startTime := time.Now()
	pool.Start()
	defer pool.Stop()

	for taskID, tile := range tiles {
		pool.SubmitTask(TileTask{Ctx: ctx, Tile: tile, TaskID: taskID})
	}

	var stats RenderStats
	for i := 0; i < len(tiles); i++ {
		result, ok := pool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			// Remaining workers see the cancelled context and drain quickly
			cancel()
			if errors.Is(result.Error, context.Canceled) || errors.Is(result.Error, context.DeadlineExceeded) {
				r.logger.Printf("Rendering cancelled after %d/%d tiles\n", i, len(tiles))
			}
			return nil, RenderStats{}, result.Error
		}
		stats.merge(result.Stats)

		if onTile != nil {
			onTile(TileCompletionResult{
				TileID:     tiles[result.TaskID].ID,
				TileNumber: i + 1,
				TotalTiles: len(tiles),
			})
		}
	}

	stats.Duration = time.Since(startTime)
	r.logger.Printf("Render completed in %v: %d hits, %d misses, %.2f shading evaluations/pixel\n",
		stats.Duration, stats.Hits, stats.Misses, stats.AverageShadeCalls())

	return fb, stats, nil
}
