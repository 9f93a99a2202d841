package zillow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// galleryPhase tracks progress through gallery expansion.
type galleryPhase int

const (
	phaseCollapsed galleryPhase = iota
	phaseExpanding
	phaseScrolling
	phaseDone
)

func (p galleryPhase) String() string {
	switch p {
	case phaseCollapsed:
		return "collapsed"
	case phaseExpanding:
		return "expanding"
	case phaseScrolling:
		return "scrolling"
	case phaseDone:
		return "done"
	default:
		return "unknown"
	}
}

const (
	// seeAllClickJS locates and clicks the control that opens the full
	// photo gallery. It tries stable test ids first, then aria labels,
	// then falls back to scanning button text. Returns the matched
	// selector, or '' when nothing was clicked.
	seeAllClickJS = `(() => {
		const candidates = [
			"button[data-testid='see-all-photos']",
			"button[data-testid='media-stream-see-all']",
			"button[data-testid='gallery-see-all']",
			"button[data-testid='photos-see-all']",
			"button[aria-label*='See all']",
			"button[aria-label*='View all']",
		];
		for (const sel of candidates) {
			const btn = document.querySelector(sel);
			if (btn) { btn.click(); return sel; }
		}
		const buttons = document.querySelectorAll('button');
		for (const btn of buttons) {
			const text = (btn.textContent || '').toLowerCase();
			if (text.includes('see all') || text.includes('view all') || text.includes('show all')) {
				btn.click();
				return 'text-scan';
			}
		}
		return '';
	})()`

	// loadProgressJS counts gallery CDN images and how many of them have
	// finished decoding.
	loadProgressJS = `(() => {
		const imgs = Array.from(document.querySelectorAll("img[src*='photos.zillowstatic.com']"))
			.filter(img => !(img.src || '').includes('placeholder'));
		const loaded = imgs.filter(img => img.complete && img.naturalHeight > 0).length;
		return { total: imgs.length, loaded: loaded };
	})()`

	// navClickLimit bounds the next-arrow walk through carousel variants.
	navClickLimit = 10

	// minGalleryImages is how many loaded photos count as an opened gallery.
	minGalleryImages = 3
)

// galleryContainerSelectors lists the known renderings of the expanded
// gallery container in preference order. Zillow rotates the obfuscated
// styled-component class names between builds, and some pages expose the
// container only through its data-testid attribute.
var galleryContainerSelectors = []string{
	"ul.hollywood-vertical-media-wall-container",
	".hollywood-vertical-media-wall-container",
	"ul.StyledVerticalMediaWall-fshdp-8-111-1__sc-1liu0fm-3",
	".StyledVerticalMediaWall-fshdp-8-111-1__sc-1liu0fm-3",
	"[data-testid='hollywood-vertical-media-wall']",
	".StyledVerticalMediaWall__StyledModalBody-fshdp-8-111-1__sc-1liu0fm-1",
	"[data-testid='media-stream']",
	".media-stream",
}

// galleryFindJS returns the selector of the first present gallery
// container, or '' when none has rendered yet.
var galleryFindJS = fmt.Sprintf(`(() => {
	const candidates = [%s];
	for (const sel of candidates) {
		if (document.querySelector(sel)) return sel;
	}
	return '';
})()`, quoteJSList(galleryContainerSelectors))

// quoteJSList renders selectors as a comma-separated list of JS string
// literals for embedding in a script.
func quoteJSList(sels []string) string {
	quoted := make([]string, len(sels))
	for i, sel := range sels {
		quoted[i] = strconv.Quote(sel)
	}
	return strings.Join(quoted, ", ")
}

// nextClickJSTmpl advances a carousel one step. It prefers explicit next
// controls and falls back to clicking the image at the given index. Always
// returns a boolean.
const nextClickJSTmpl = `(() => {
	const next = document.querySelector("button[aria-label*='next'], button[aria-label*='Next'], .next, .arrow-right");
	if (next) { next.click(); return true; }
	const imgs = document.querySelectorAll("img[src*='photos.zillowstatic.com']");
	if (imgs.length > %[1]d) { imgs[%[1]d].click(); return true; }
	return false;
})()`

// galleryIntoViewJSTmpl centers the gallery container in the viewport
// before any scroll pass runs.
const galleryIntoViewJSTmpl = `(() => {
	const g = document.querySelector(%q);
	if (!g) return false;
	g.scrollIntoView({ block: 'center' });
	return true;
})()`

// galleryScrollJSTmpl scrolls the gallery container itself to a fraction of
// its scroll height.
const galleryScrollJSTmpl = `(() => {
	const g = document.querySelector(%[1]q);
	if (!g) return false;
	g.scrollTop = Math.floor(g.scrollHeight * %[2]g);
	return true;
})()`

// scrollItemJSTmpl scrolls a single gallery list item into view.
const scrollItemJSTmpl = `(() => {
	const items = document.querySelectorAll(%[1]q);
	if (items.length <= %[2]d) return false;
	items[%[2]d].scrollIntoView({ block: 'center' });
	return true;
})()`

var (
	pageScrollFractions  = []float64{0.2, 0.4, 0.6, 0.8, 1.0}
	finalScrollFractions = []float64{0.1, 0.3, 0.5, 0.7, 0.9}
)

// loadProgress is the decoded result of loadProgressJS.
type loadProgress struct {
	Total  int `json:"total"`
	Loaded int `json:"loaded"`
}

// galleryReady reports whether the gallery has rendered at least minLoaded
// images and every discovered image has finished loading.
func galleryReady(p loadProgress, minLoaded int) bool {
	return p.Total > 0 && p.Loaded >= minLoaded && p.Loaded == p.Total
}

// expandGallery drives the page from its collapsed hero state to a fully
// scrolled gallery so lazy images resolve to real CDN URLs. Every step is
// best effort; a failed click or scroll moves to the next phase rather than
// failing the scrape.
func (s *Scraper) expandGallery(ctx context.Context) {
	phase := phaseCollapsed
	for phase != phaseDone {
		if ctx.Err() != nil {
			s.logger.Warn("[zillow] Gallery expansion cut short: %v", ctx.Err())
			return
		}
		switch phase {
		case phaseCollapsed:
			s.clickSeeAll(ctx)
			phase = phaseExpanding
		case phaseExpanding:
			if sel := s.waitForGallery(ctx); sel != "" {
				s.pollImagesLoaded(ctx, s.tm.readyExpand, minGalleryImages)
				s.scrollBattery(ctx, sel)
			} else {
				s.logger.Warn("[zillow] Gallery container never appeared, scrolling page anyway")
				s.scrollBattery(ctx, "")
			}
			phase = phaseScrolling
		case phaseScrolling:
			p := s.pollImagesLoaded(ctx, s.tm.readyExpand, 1)
			s.logger.Info("[zillow] Gallery settled with %d/%d images loaded", p.Loaded, p.Total)
			phase = phaseDone
		}
	}
}

// clickSeeAll opens the full gallery when a see-all control exists. Pages
// that render the gallery inline have no such control and are left as is.
func (s *Scraper) clickSeeAll(ctx context.Context) {
	var matched string
	if err := s.evalInto(ctx, seeAllClickJS, &matched); err != nil {
		s.logger.Warn("[zillow] See-all click failed: %v", err)
		return
	}
	if matched == "" {
		s.logger.Info("[zillow] No see-all button found, assuming gallery is inline")
		return
	}
	s.logger.Info("[zillow] Clicked gallery button via %s", matched)
	s.sleep(ctx, s.tm.settle)
}

// waitForGallery polls for a known gallery container and returns its
// selector, or "" when the wait times out.
func (s *Scraper) waitForGallery(ctx context.Context) string {
	var found string
	s.poll(ctx, s.tm.appearWait, s.tm.appearPoll, func() bool {
		var sel string
		if err := s.evalInto(ctx, galleryFindJS, &sel); err != nil {
			return false
		}
		found = sel
		return sel != ""
	})
	if found != "" {
		s.logger.Info("[zillow] Found gallery container: %s", found)
	}
	return found
}

// scrollBattery runs the full scroll sequence: window passes, gallery
// container passes, per-item nudges, carousel clicks, and a final sweep.
func (s *Scraper) scrollBattery(ctx context.Context, gallerySel string) {
	if gallerySel != "" {
		s.evalQuiet(ctx, fmt.Sprintf(galleryIntoViewJSTmpl, gallerySel))
		s.sleep(ctx, s.tm.scrollStep)
	}

	for _, f := range pageScrollFractions {
		s.evalQuiet(ctx, fmt.Sprintf(`window.scrollTo(0, Math.floor(document.body.scrollHeight * %g))`, f))
		s.sleep(ctx, s.tm.scrollStep)
		s.pollImagesLoaded(ctx, s.tm.readyStep, 1)
	}

	if gallerySel != "" {
		for _, f := range pageScrollFractions {
			s.evalQuiet(ctx, fmt.Sprintf(galleryScrollJSTmpl, gallerySel, f))
			s.sleep(ctx, s.tm.scrollStep)
		}
		s.scrollListItems(ctx, gallerySel)
	}

	s.clickThroughGallery(ctx)
	s.finalScrollPass(ctx, gallerySel)
}

// scrollListItems nudges every tenth gallery item into view so item-level
// lazy loaders fire even when container scrolling is swallowed.
func (s *Scraper) scrollListItems(ctx context.Context, gallerySel string) {
	itemSel := gallerySel + " li"
	var count int
	if err := s.evalInto(ctx, fmt.Sprintf(`document.querySelectorAll(%q).length`, itemSel), &count); err != nil || count == 0 {
		return
	}
	s.logger.Info("[zillow] Scrolling through %d gallery items", count)
	for i := 0; i < count; i += 10 {
		s.evalQuiet(ctx, fmt.Sprintf(scrollItemJSTmpl, itemSel, i))
		s.sleep(ctx, s.tm.itemStep)
	}
}

// clickThroughGallery advances carousel-style galleries a bounded number of
// steps. Vertical galleries have no next control and fall through on the
// image-click fallback, which is harmless.
func (s *Scraper) clickThroughGallery(ctx context.Context) {
	for i := 0; i < navClickLimit; i++ {
		var advanced bool
		if err := s.evalInto(ctx, fmt.Sprintf(nextClickJSTmpl, i), &advanced); err != nil || !advanced {
			return
		}
		s.sleep(ctx, s.tm.navClick)
	}
}

// finalScrollPass sweeps both the window and the gallery once more at
// interior fractions to catch stragglers near pane boundaries.
func (s *Scraper) finalScrollPass(ctx context.Context, gallerySel string) {
	for _, f := range finalScrollFractions {
		s.evalQuiet(ctx, fmt.Sprintf(`window.scrollTo(0, Math.floor(document.body.scrollHeight * %g))`, f))
		if gallerySel != "" {
			s.evalQuiet(ctx, fmt.Sprintf(galleryScrollJSTmpl, gallerySel, f))
		}
		s.sleep(ctx, s.tm.finalStep)
	}
}

// pollImagesLoaded waits until every discovered gallery image has finished
// loading, up to timeout, and returns the last observed progress.
func (s *Scraper) pollImagesLoaded(ctx context.Context, timeout time.Duration, minLoaded int) loadProgress {
	var last loadProgress
	s.poll(ctx, timeout, s.tm.readyPoll, func() bool {
		var p loadProgress
		if err := s.evalInto(ctx, loadProgressJS, &p); err != nil {
			return false
		}
		last = p
		return galleryReady(p, minLoaded)
	})
	return last
}
