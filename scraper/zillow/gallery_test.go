package zillow

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

func TestGalleryReady(t *testing.T) {
	tests := []struct {
		name string
		p    loadProgress
		min  int
		want bool
	}{
		{"all loaded", loadProgress{Total: 5, Loaded: 5}, 1, true},
		{"still loading", loadProgress{Total: 5, Loaded: 3}, 1, false},
		{"nothing found", loadProgress{}, 1, false},
		{"below minimum", loadProgress{Total: 2, Loaded: 2}, 3, false},
		{"exactly minimum", loadProgress{Total: 3, Loaded: 3}, 3, true},
	}

	for _, tt := range tests {
		if got := galleryReady(tt.p, tt.min); got != tt.want {
			t.Errorf("%s: galleryReady(%+v, %d) = %v; want %v", tt.name, tt.p, tt.min, got, tt.want)
		}
	}
}

func TestGalleryPhaseString(t *testing.T) {
	tests := []struct {
		phase galleryPhase
		want  string
	}{
		{phaseCollapsed, "collapsed"},
		{phaseExpanding, "expanding"},
		{phaseScrolling, "scrolling"},
		{phaseDone, "done"},
	}

	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("galleryPhase(%d).String() = %q; want %q", tt.phase, got, tt.want)
		}
	}
}

func TestGalleryContainerSelectorsCoverKnownVariants(t *testing.T) {
	// One page per rendering the detector must recognize. Which container
	// markup Zillow serves depends on the build, and some pages expose
	// the gallery only through its data-testid attribute.
	pages := []struct {
		name string
		html string
	}{
		{
			"class-named media wall",
			`<ul class="hollywood-vertical-media-wall-container"><li><img src="a.jpg"></li></ul>`,
		},
		{
			"data-testid media wall",
			`<ul data-testid="hollywood-vertical-media-wall"><li><img src="a.jpg"></li></ul>`,
		},
		{
			"obfuscated styled wall",
			`<ul class="StyledVerticalMediaWall-fshdp-8-111-1__sc-1liu0fm-3"><li></li></ul>`,
		},
		{
			"obfuscated modal body",
			`<div class="StyledVerticalMediaWall__StyledModalBody-fshdp-8-111-1__sc-1liu0fm-1"></div>`,
		},
		{
			"media stream",
			`<div data-testid="media-stream"></div>`,
		},
	}

	for _, tt := range pages {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + tt.html + "</body></html>"))
		if err != nil {
			t.Fatalf("%s: parse: %v", tt.name, err)
		}
		matched := ""
		for _, sel := range galleryContainerSelectors {
			if doc.Find(sel).Length() > 0 {
				matched = sel
				break
			}
		}
		if matched == "" {
			t.Errorf("%s: no container selector matched", tt.name)
		}
	}
}

func TestGalleryFindScriptEmbedsAllCandidates(t *testing.T) {
	for _, sel := range galleryContainerSelectors {
		if !strings.Contains(galleryFindJS, strconv.Quote(sel)) {
			t.Errorf("galleryFindJS does not scan for %q", sel)
		}
	}
}

func TestExpandGalleryAbsorbsActionFailures(t *testing.T) {
	// Every browser action fails, as it would after a tab crash. The
	// expansion must still walk all phases to completion without
	// panicking.
	var calls int
	s := newStubScraper(func(ctx context.Context, actions ...chromedp.Action) error {
		calls++
		return errors.New("tab crashed")
	})

	s.expandGallery(context.Background())

	if calls < 5 {
		t.Errorf("expected the battery to keep trying after failures, got %d calls", calls)
	}
}

func TestExpandGalleryStopsOnCancelledContext(t *testing.T) {
	var calls int
	s := newStubScraper(func(ctx context.Context, actions ...chromedp.Action) error {
		calls++
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.expandGallery(ctx)

	if calls != 0 {
		t.Errorf("expected no actions on a dead context, got %d calls", calls)
	}
}
