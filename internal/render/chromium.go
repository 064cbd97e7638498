package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const (
	connectAttempts = 3
	connectDelay    = 2 * time.Second
	renderTimeout   = 2 * time.Minute
)

// Chromium renders HTML through a headless Chromium print. One browser
// process is shared across jobs; each render opens its own tab.
type Chromium struct {
	logger *slog.Logger

	mu      sync.Mutex
	lnch    *launcher.Launcher
	browser *rod.Browser
}

// NewChromium creates a Chromium renderer. Call Start before rendering and
// Close on shutdown.
func NewChromium(logger *slog.Logger) *Chromium {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chromium{logger: logger.With("component", "render")}
}

// Start launches the browser and connects to it. The connect is retried a
// few times; Chromium startup on a cold host can lose the first attempt.
func (c *Chromium) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browser != nil {
		return nil
	}

	return retry.Do(
		func() error {
			lnch := launcher.New().Headless(true)
			url, err := lnch.Launch()
			if err != nil {
				return fmt.Errorf("launch chromium: %w", err)
			}

			browser := rod.New().ControlURL(url)
			if err := browser.Connect(); err != nil {
				lnch.Kill()
				return fmt.Errorf("connect chromium: %w", err)
			}

			c.lnch = lnch
			c.browser = browser
			c.logger.Info("chromium renderer ready", "control_url", url)
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(connectAttempts),
		retry.Delay(connectDelay),
	)
}

// Close disconnects from the browser and kills the process.
func (c *Chromium) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browser != nil {
		if err := c.browser.Close(); err != nil {
			c.logger.Warn("browser close failed", "error", err)
		}
		c.browser = nil
	}
	if c.lnch != nil {
		c.lnch.Kill()
		c.lnch = nil
	}
	return nil
}

// Render prints the HTML file to a PDF and validates the result.
func (c *Chromium) Render(ctx context.Context, htmlPath, pdfPath string) error {
	c.mu.Lock()
	browser := c.browser
	c.mu.Unlock()
	if browser == nil {
		return fmt.Errorf("renderer not started")
	}

	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return fmt.Errorf("resolve markup path: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + abs})
	if err != nil {
		return fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	if err := page.Context(ctx).WaitLoad(); err != nil {
		return fmt.Errorf("load markup: %w", err)
	}

	stream, err := page.Context(ctx).PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
	})
	if err != nil {
		return fmt.Errorf("print to pdf: %w", err)
	}
	defer stream.Close()

	out, err := os.Create(pdfPath)
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}
	if _, err := io.Copy(out, stream); err != nil {
		out.Close()
		os.Remove(pdfPath)
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}

	if err := validatePDF(pdfPath); err != nil {
		os.Remove(pdfPath)
		return err
	}
	return nil
}
