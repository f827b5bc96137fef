package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Snapshot formats
const (
	SnapshotPNG = "png"
	SnapshotPDF = "pdf"
)

const (
	snapshotTimeout = 45 * time.Second
	snapshotWidth   = 1280
	snapshotHeight  = 2000
)

// waitForImagesScript resolves once every image has loaded or failed, 5s max per image
const waitForImagesScript = `
	(function() {
		return Promise.all([
			document.fonts.ready,
			Promise.all(Array.from(document.querySelectorAll('img')).map(img => {
				return new Promise((resolve) => {
					if (img.complete) {
						resolve();
						return;
					}
					const timeout = setTimeout(() => resolve(), 5000);
					img.addEventListener('load', () => { clearTimeout(timeout); resolve(); });
					img.addEventListener('error', () => { clearTimeout(timeout); resolve(); });
				});
			}))
		]).then(() => true);
	})();
`

// SnapshotServiceInterface defines the contract for catalog page captures
type SnapshotServiceInterface interface {
	Capture(ctx context.Context, format string) ([]byte, error)
}

// SnapshotService captures the catalog page with a headless browser
type SnapshotService struct {
	pageURL    string
	chromePath string
	logger     *zap.Logger
}

// NewSnapshotService creates a new SnapshotService.
// pageURL is the static rendering of the catalog page.
func NewSnapshotService(pageURL, chromePath string, logger *zap.Logger) *SnapshotService {
	return &SnapshotService{
		pageURL:    pageURL,
		chromePath: chromePath,
		logger:     logger,
	}
}

// Ensure SnapshotService implements SnapshotServiceInterface
var _ SnapshotServiceInterface = (*SnapshotService)(nil)

// detectChromePath returns the configured browser when it exists, then checks common installation paths
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Capture renders the catalog page as a PNG screenshot or a PDF
func (s *SnapshotService) Capture(ctx context.Context, format string) ([]byte, error) {
	if format != SnapshotPNG && format != SnapshotPDF {
		return nil, fmt.Errorf("unsupported snapshot format %q", format)
	}

	ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath := detectChromePath(s.chromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	s.logger.Info("📸 Capturing catalog", zap.String("format", format), zap.String("url", s.pageURL))

	var buf []byte
	var loaded bool
	capture := chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		if format == SnapshotPDF {
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				Do(ctx)
			return err
		}
		return chromedp.FullScreenshot(&buf, 100).Do(ctx)
	})

	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(snapshotWidth, snapshotHeight),
		chromedp.Navigate(s.pageURL),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(waitForImagesScript, &loaded, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		capture,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to capture %s: %w", format, err)
	}

	s.logger.Info("✓ Catalog captured", zap.String("format", format), zap.Int("bytes", len(buf)))
	return buf, nil
}
