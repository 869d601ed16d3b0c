// Package pdfexport converts rendered HTML into PDF bytes using a
// headless Chrome instance.
package pdfexport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Export failure classes. Callers map these to distinct API errors.
var (
	ErrBrowserLaunch = errors.New("failed to launch browser")
	ErrContentLoad   = errors.New("timed out loading statement content")
	ErrRender        = errors.New("failed to render pdf")
)

// A4 paper in inches, margins converted from CSS pixels at 96 dpi.
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
	marginInches      = 40.0 / 96.0
)

// Exporter renders HTML documents to PDF. Each export launches a
// browser scoped to that call and tears it down when the call returns;
// slots caps how many browsers run at once.
type Exporter struct {
	chromePath    string
	loadTimeout   time.Duration
	renderTimeout time.Duration
	slots         chan struct{}

	exportCount    metric.Int64Counter
	exportDuration metric.Float64Histogram
}

// Config controls browser location, per-phase timeouts and concurrency.
type Config struct {
	ChromePath    string
	LoadTimeout   time.Duration
	RenderTimeout time.Duration
	MaxConcurrent int
}

// NewExporter creates a PDF exporter.
func NewExporter(cfg Config) (*Exporter, error) {
	if cfg.MaxConcurrent < 1 {
		return nil, fmt.Errorf("max concurrent exports must be at least 1, got %d", cfg.MaxConcurrent)
	}
	if cfg.LoadTimeout <= 0 || cfg.RenderTimeout <= 0 {
		return nil, fmt.Errorf("load and render timeouts must be positive")
	}

	meter := otel.Meter("horizon/pdfexport")
	exportCount, err := meter.Int64Counter(
		"pdf.exports.total",
		metric.WithDescription("Total number of PDF export attempts"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create export counter: %w", err)
	}
	exportDuration, err := meter.Float64Histogram(
		"pdf.export.duration",
		metric.WithDescription("Duration of PDF exports"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create export histogram: %w", err)
	}

	return &Exporter{
		chromePath:     cfg.ChromePath,
		loadTimeout:    cfg.LoadTimeout,
		renderTimeout:  cfg.RenderTimeout,
		slots:          make(chan struct{}, cfg.MaxConcurrent),
		exportCount:    exportCount,
		exportDuration: exportDuration,
	}, nil
}

// Export renders html to PDF bytes. Blocks while all export slots are
// busy; honors ctx cancellation while waiting.
func (e *Exporter) Export(ctx context.Context, html string) ([]byte, error) {
	select {
	case e.slots <- struct{}{}:
		defer func() { <-e.slots }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	start := time.Now()
	pdf, err := e.export(ctx, html)
	e.exportCount.Add(ctx, 1)
	e.exportDuration.Record(ctx, time.Since(start).Seconds())
	return pdf, err
}

func (e *Exporter) export(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("disable-setuid-sandbox", true),
	)
	if e.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(e.chromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// Empty run forces the browser to start so launch failures are
	// distinguishable from load failures.
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserLaunch, err)
	}

	loadCtx, cancelLoad := context.WithTimeout(browserCtx, e.loadTimeout)
	defer cancelLoad()
	if err := chromedp.Run(loadCtx, setContent(html)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentLoad, err)
	}

	renderCtx, cancelRender := context.WithTimeout(browserCtx, e.renderTimeout)
	defer cancelRender()

	var pdf []byte
	print := chromedp.ActionFunc(func(ctx context.Context) error {
		buf, _, err := page.PrintToPDF().
			WithPaperWidth(paperWidthInches).
			WithPaperHeight(paperHeightInches).
			WithMarginTop(marginInches).
			WithMarginBottom(marginInches).
			WithPrintBackground(true).
			WithDisplayHeaderFooter(false).
			Do(ctx)
		if err != nil {
			return err
		}
		pdf = buf
		return nil
	})
	if err := chromedp.Run(renderCtx, print); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	return pdf, nil
}

// setContent loads html into the current page and waits for the body.
func setContent(html string) chromedp.Tasks {
	return chromedp.Tasks{
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
	}
}
