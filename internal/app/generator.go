package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"school-menu-calendar/internal/analyzer"
	"school-menu-calendar/internal/calendar"
	"school-menu-calendar/internal/config"
	"school-menu-calendar/internal/feed"
	"school-menu-calendar/internal/menu"
	"school-menu-calendar/internal/metrics"
	"school-menu-calendar/internal/preferences"
)

// ErrSuperseded is returned to a caller whose generation was canceled by a
// newer call.
var ErrSuperseded = errors.New("generation superseded by a newer request")

// PreferencesLoader provides the current saved preferences.
type PreferencesLoader interface {
	Load() (*preferences.Preferences, error)
}

// MetricsRecorder persists one record per finished generation.
type MetricsRecorder interface {
	Record(ctx context.Context, m metrics.GenerationMetric) error
}

// Request selects the month to generate.
type Request struct {
	Year  int
	Month time.Month
}

// Result is a finished calendar.
type Result struct {
	HTML     string
	Month    analyzer.ProcessedMonth
	FileName string
}

// Generator runs fetch, analyze and render. Calls are serialized and a new
// call cancels the one in flight.
type Generator struct {
	cfg     *config.Config
	source  feed.Source
	prefs   PreferencesLoader
	codes   calendar.CodeGenerator
	metrics MetricsRecorder
	now     func() time.Time

	runMu sync.Mutex

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewGenerator wires a Generator. codes and recorder may be nil.
func NewGenerator(
	cfg *config.Config,
	source feed.Source,
	prefs PreferencesLoader,
	codes calendar.CodeGenerator,
	recorder MetricsRecorder,
) *Generator {
	return &Generator{
		cfg:     cfg,
		source:  source,
		prefs:   prefs,
		codes:   codes,
		metrics: recorder,
		now:     time.Now,
	}
}

// Generate produces the calendar for req. The pipeline runs on its own
// goroutine; the caller gets the whole document or an error.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	runCtx, id := g.supersede(ctx)
	defer g.release(id)

	g.runMu.Lock()
	if runCtx.Err() != nil {
		g.runMu.Unlock()
		return nil, g.canceled(ctx)
	}

	type outcome struct {
		res *Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		defer g.runMu.Unlock()
		res, err := g.run(runCtx, req)
		done <- outcome{res, err}
	}()

	select {
	case out := <-done:
		if out.err != nil && runCtx.Err() != nil {
			return nil, g.canceled(ctx)
		}
		return out.res, out.err
	case <-runCtx.Done():
		return nil, g.canceled(ctx)
	}
}

// supersede cancels the in-flight call and registers a new one.
func (g *Generator) supersede(parent context.Context) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(parent)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
	}
	g.seq++
	g.cancel = cancel
	return ctx, g.seq
}

func (g *Generator) release(id uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.seq == id && g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}

func (g *Generator) canceled(parent context.Context) error {
	if err := parent.Err(); err != nil {
		return err
	}
	return ErrSuperseded
}

func (g *Generator) run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	prefs, err := g.prefs.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	first, last := menu.MonthRange(req.Year, req.Month)
	raw, err := g.source.Fetch(ctx, g.cfg.BuildingID, g.cfg.DistrictID, first, last)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch menu: %w", err)
	}

	catalog, err := g.source.FetchAllergenCatalog(ctx, g.cfg.DistrictID)
	switch {
	case feed.IsKind(err, feed.KindNotFound):
		log.Printf("⚠️ Allergen catalog unavailable, header will omit names: %v", err)
	case err != nil:
		return nil, fmt.Errorf("failed to fetch allergen catalog: %w", err)
	}

	month := analyzer.Analyze(raw, prefs.Selections(), req.Year, req.Month, g.cfg.SessionName, g.cfg.BuildingName)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := BuildOptions(prefs, g.now(), g.cfg.MenuPageURL)
	if opts.ShowShareFooter {
		opts.ShareCodes = calendar.BuildShareCodes(ctx, g.codes, g.cfg.MenuPageURL, g.cfg.ProjectURL)
	}

	html := calendar.Render(month, AllergenNames(prefs.AllergenIDs, catalog), prefs.ForcedHome(), prefs.ThemeFor(req.Month), opts)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	latency := time.Since(start)
	log.Printf("🗓️ Generated %s %d calendar (%d days, %s layout) in %v", req.Month, req.Year, len(month.Days), opts.Layout, latency)

	if g.metrics != nil {
		m := metrics.GenerationMetric{
			Building:  g.cfg.BuildingID,
			Month:     fmt.Sprintf("%04d-%02d", req.Year, int(req.Month)),
			DayCount:  len(month.Days),
			Layout:    string(opts.Layout),
			LatencyMS: latency.Milliseconds(),
		}
		if err := g.metrics.Record(context.WithoutCancel(ctx), m); err != nil {
			log.Printf("Warning: failed to record generation metric: %v", err)
		}
	}

	return &Result{
		HTML:     html,
		Month:    month,
		FileName: fmt.Sprintf("menu-%04d-%02d.html", req.Year, int(req.Month)),
	}, nil
}
