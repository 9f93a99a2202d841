package zillow

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

const (
	// photoCDNHost identifies real listing photos; everything else on the
	// page (maps, avatars, logos) lives on other hosts.
	photoCDNHost = "photos.zillowstatic.com"

	// fullSizeMarker appears only in full-resolution photo URLs. Thumbnail
	// variants carry different markers and are dropped.
	fullSizeMarker = "cc_ft_"

	// minImageURLLen rejects truncated or templated URLs.
	minImageURLLen = 50
)

// excludedMarkers are substrings of known non-photo assets on the photo
// CDN: elevation and placeholder tiles, interactive plans, and branding.
var excludedMarkers = []string{
	"-p_e.jpg",
	"-h_e.jpg",
	"-p_i.jpg",
	"-p_c.jpg",
	"zillow_web_logo",
	"placeholder",
}

// imageQuerySelectors are tried in order against the live DOM. Overlap
// between them is expected; dedup happens after collection.
var imageQuerySelectors = []string{
	"ul.hollywood-vertical-media-wall-container img",
	".hollywood-vertical-media-wall-container img",
	"ul.StyledVerticalMediaWall-fshdp-8-111-1__sc-1liu0fm-3 img",
	"[data-testid='media-stream'] img",
	"img[src*='photos.zillowstatic.com']",
	".hollywood-vertical-media-wall-container li img",
}

// srcQueryJSTmpl gathers the src of every element matching a selector.
const srcQueryJSTmpl = `(() => Array.from(document.querySelectorAll(%q)).map(img => img.src || '').filter(Boolean))()`

// lazySrcQueryJS gathers URLs still parked in lazy-load attributes.
const lazySrcQueryJS = `(() => Array.from(document.querySelectorAll('img[data-src], img[data-lazy-src]'))
	.map(img => img.getAttribute('data-src') || img.getAttribute('data-lazy-src') || '')
	.filter(Boolean))()`

// collectImages unions every collection strategy against the expanded page:
// per-selector DOM queries, then lazy-load attributes, then a static
// snapshot parsed offline. The union is filtered and sorted before return.
func (s *Scraper) collectImages(ctx context.Context) []string {
	var raw []string

	for _, sel := range imageQuerySelectors {
		var urls []string
		if err := s.evalInto(ctx, fmt.Sprintf(srcQueryJSTmpl, sel), &urls); err != nil {
			s.logger.Debug("[zillow] image query %q failed: %v", sel, err)
			continue
		}
		raw = append(raw, urls...)
	}

	var lazy []string
	if err := s.evalInto(ctx, lazySrcQueryJS, &lazy); err == nil {
		raw = append(raw, lazy...)
	}

	// A static snapshot catches URLs the live queries raced past.
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		s.logger.Debug("[zillow] page snapshot failed: %v", err)
	} else {
		raw = append(raw, collectFromHTML(html)...)
	}

	images := filterAndSort(raw)
	s.logger.Info("[zillow] Collected %d images (%d raw candidates)", len(images), len(raw))
	return images
}

// collectFromHTML scans a rendered page snapshot for image URLs in src and
// lazy-load attributes.
func collectFromHTML(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var urls []string
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		for _, attr := range []string{"src", "data-src", "data-lazy-src"} {
			if v, ok := sel.Attr(attr); ok && v != "" {
				urls = append(urls, v)
			}
		}
	})
	return urls
}

// filterAndSort dedups the raw candidates, keeps only full-size CDN photos,
// and returns them in ascending order.
func filterAndSort(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	images := make([]string, 0, len(raw))
	for _, u := range raw {
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		if keepImageURL(u) {
			images = append(images, u)
		}
	}
	sort.Strings(images)
	return images
}

// keepImageURL reports whether a URL is a full-size listing photo. The
// exclusion list wins over every other signal.
func keepImageURL(u string) bool {
	if len(u) <= minImageURLLen {
		return false
	}
	if !strings.Contains(u, photoCDNHost) {
		return false
	}
	lower := strings.ToLower(u)
	if !strings.Contains(lower, ".jpg") && !strings.Contains(lower, ".jpeg") {
		return false
	}
	if !strings.Contains(u, fullSizeMarker) {
		return false
	}
	for _, marker := range excludedMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}
