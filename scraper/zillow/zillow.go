package zillow

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"zillow-scraper/config"
	"zillow-scraper/models"
	"zillow-scraper/utils"
)

// stealthScript hides the automation flag before any page script runs.
const stealthScript = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined});`

// runFunc executes chromedp actions against a session context. It is a
// field on Scraper so tests can substitute a recorder for a live browser.
type runFunc func(ctx context.Context, actions ...chromedp.Action) error

// timing groups the fixed delays and poll windows used across the scrape.
// The values are empirical; there is no dynamic back-off.
type timing struct {
	pageSettle  time.Duration
	mainWait    time.Duration
	mainPoll    time.Duration
	settle      time.Duration
	appearWait  time.Duration
	appearPoll  time.Duration
	readyExpand time.Duration
	readyStep   time.Duration
	readyPoll   time.Duration
	scrollStep  time.Duration
	itemStep    time.Duration
	navClick    time.Duration
	finalStep   time.Duration
}

func defaultTiming() timing {
	return timing{
		pageSettle:  5 * time.Second,
		mainWait:    10 * time.Second,
		mainPoll:    500 * time.Millisecond,
		settle:      500 * time.Millisecond,
		appearWait:  5 * time.Second,
		appearPoll:  500 * time.Millisecond,
		readyExpand: 3 * time.Second,
		readyStep:   time.Second,
		readyPoll:   300 * time.Millisecond,
		scrollStep:  2 * time.Second,
		itemStep:    200 * time.Millisecond,
		navClick:    500 * time.Millisecond,
		finalStep:   1500 * time.Millisecond,
	}
}

// Scraper drives one headless browser session per listing URL. Sessions are
// never shared between requests.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
	run    runFunc
	tm     timing
}

// New creates a ready-to-use Zillow Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		logger: logger,
		run:    chromedp.Run,
		tm:     defaultTiming(),
	}
}

// Scrape loads the listing page and walks the extraction pipeline: scalar
// fields, gallery expansion, image collection, record assembly. The browser
// process is released on every exit path. A launch or navigation failure is
// fatal to the request; everything downstream is best-effort.
func (s *Scraper) Scrape(parent context.Context, url string) (*models.PropertyRecord, error) {
	s.logger.Info("[zillow] Starting scrape: %s", url)

	chromeBin := findChromeBinary(s.cfg.ChromeBin)
	if chromeBin != "" {
		s.logger.Debug("[zillow] Using browser binary: %s", chromeBin)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("window-size", fmt.Sprintf("%d,%d", s.cfg.WindowWidth, s.cfg.WindowHeight)),
		chromedp.UserAgent(s.cfg.UserAgent),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	ctx, cancelTimeout := context.WithTimeout(browserCtx, s.cfg.ScrapeTimeout)
	defer cancelTimeout()

	err := s.run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
			return err
		}),
		chromedp.Navigate(url),
		chromedp.Sleep(s.tm.pageSettle),
	)
	if err != nil {
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}

	if s.waitForMain(ctx) {
		s.logger.Info("[zillow] Main content loaded")
	} else {
		s.logger.Warn("[zillow] Timeout waiting for main content, continuing")
	}

	fields := s.extractFields(ctx)
	s.expandGallery(ctx)
	images := s.collectImages(ctx)

	record := assembleRecord(url, fields, images, time.Now())
	s.logger.Info("[zillow] Scrape complete: %d images, address %q", len(record.Images), record.Address)
	return record, nil
}

// waitForMain polls for the page's <main> landmark. Timing out is not fatal.
func (s *Scraper) waitForMain(ctx context.Context) bool {
	return utils.Poll(ctx, s.tm.mainWait, s.tm.mainPoll, func() bool {
		var present bool
		if err := s.run(ctx, chromedp.Evaluate(`document.querySelector('main') !== null`, &present)); err != nil {
			return false
		}
		return present
	})
}

// selectorText returns the trimmed text of the first element matching the
// selector, or "" when the element is absent.
func (s *Scraper) selectorText(ctx context.Context, selector string) string {
	js := fmt.Sprintf(
		`(() => { const el = document.querySelector(%q); return el && el.textContent ? el.textContent.trim() : ''; })()`,
		selector)

	var text string
	if err := s.run(ctx, chromedp.Evaluate(js, &text)); err != nil {
		s.logger.Debug("[zillow] selector %q failed: %v", selector, err)
		return ""
	}
	return strings.TrimSpace(text)
}

// selectorTexts returns the trimmed text of every element matching the
// selector, in document order.
func (s *Scraper) selectorTexts(ctx context.Context, selector string) []string {
	js := fmt.Sprintf(
		`(() => Array.from(document.querySelectorAll(%q)).map(el => (el.textContent || '').trim()))()`,
		selector)

	var texts []string
	if err := s.run(ctx, chromedp.Evaluate(js, &texts)); err != nil {
		s.logger.Debug("[zillow] selector %q failed: %v", selector, err)
		return nil
	}
	return texts
}

// evalQuiet evaluates a script for its side effect only.
func (s *Scraper) evalQuiet(ctx context.Context, js string) {
	if err := s.run(ctx, chromedp.Evaluate(js, nil)); err != nil {
		s.logger.Debug("[zillow] evaluate failed: %v", err)
	}
}

// evalInto evaluates a script and decodes its result into out.
func (s *Scraper) evalInto(ctx context.Context, js string, out interface{}) error {
	return s.run(ctx, chromedp.Evaluate(js, out))
}

// poll runs predicate on the session's cadence until it succeeds or the
// window closes.
func (s *Scraper) poll(ctx context.Context, timeout, interval time.Duration, predicate func() bool) bool {
	return utils.Poll(ctx, timeout, interval, predicate)
}

// sleep pauses between actions without outliving the session context.
func (s *Scraper) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// assembleRecord merges the extracted pieces into the final record. Images
// is never nil so an empty gallery serializes as [].
func assembleRecord(url string, fields PartialFields, images []string, at time.Time) *models.PropertyRecord {
	if images == nil {
		images = []string{}
	}
	return &models.PropertyRecord{
		Address:     fields.Address,
		MonthlyRent: fields.MonthlyRent,
		Bedrooms:    fields.Bedrooms,
		Bathrooms:   fields.Bathrooms,
		Area:        fields.Area,
		Images:      images,
		URL:         url,
		ScrapedAt:   at.Format(models.ScrapedAtLayout),
	}
}

// findChromeBinary locates a Chrome/Chromium binary. An explicitly
// configured path wins; otherwise well-known names and install paths are
// probed.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
