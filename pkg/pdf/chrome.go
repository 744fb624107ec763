package pdf

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

type Options struct {
	PoolSize    int
	ChromePath  string
	AcquireWait time.Duration
}

// A4 with 15mm top/bottom and 20mm side margins, in inches.
const (
	a4Width        = 8.27
	a4Height       = 11.69
	marginVertical = 15 / 25.4
	marginSide     = 20 / 25.4
)

// NewChromePool starts one headless browser and renders in up to
// opts.PoolSize tabs of it.
func NewChromePool(ctx context.Context, opts Options, logger *zap.Logger) (*Pool, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ChromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	logger.Info("headless browser started", zap.Int("poolSize", opts.PoolSize))

	open := func() (session, error) {
		tabCtx, cancel := chromedp.NewContext(browserCtx)
		if err := chromedp.Run(tabCtx); err != nil {
			cancel()
			return nil, err
		}
		return &chromeTab{ctx: tabCtx, cancel: cancel}, nil
	}

	p := newPool(opts.PoolSize, open, opts.AcquireWait, logger)
	p.shutdown = func() {
		cancelBrowser()
		cancelAlloc()
	}
	return p, nil
}

type chromeTab struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// bind runs chromedp actions on the tab while honouring ctx's deadline and
// cancellation.
func (t *chromeTab) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if deadline, ok := ctx.Deadline(); ok {
		runCtx, cancel = context.WithDeadline(t.ctx, deadline)
	} else {
		runCtx, cancel = context.WithCancel(t.ctx)
	}
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

func (t *chromeTab) render(ctx context.Context, html string) ([]byte, error) {
	runCtx, cancel := t.bind(ctx)
	defer cancel()

	var buf []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				WithMarginTop(marginVertical).
				WithMarginBottom(marginVertical).
				WithMarginLeft(marginSide).
				WithMarginRight(marginSide).
				Do(ctx)
			return err
		}),
	)
	return buf, err
}

func (t *chromeTab) healthy(ctx context.Context) bool {
	if t.ctx.Err() != nil {
		return false
	}
	runCtx, cancel := t.bind(ctx)
	defer cancel()

	var n int
	return chromedp.Run(runCtx, chromedp.Evaluate(`1+1`, &n)) == nil && n == 2
}

func (t *chromeTab) close() {
	t.cancel()
}
