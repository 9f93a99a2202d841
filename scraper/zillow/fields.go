package zillow

import (
	"context"
	"regexp"
	"strings"
)

// PartialFields holds whichever scalar fields survived extraction. An empty
// string means no strategy matched; that is a gap, not an error.
type PartialFields struct {
	Address     string
	MonthlyRent string
	Bedrooms    string
	Bathrooms   string
	Area        string
}

const (
	// minAddressLen filters heading text too short to be a street address.
	minAddressLen = 10

	// factContainerSelector matches one container per bed/bath/area fact.
	factContainerSelector = `[data-testid="bed-bath-sqft-fact-container"]`

	// factFallbackSelector is the obfuscated value-text span used when the
	// fact containers are missing from the markup.
	factFallbackSelector = `span.Text-c11n-8-109-3__sc-aiai24-0.styles__StyledValueText-fshdp-8-111-1__sc-12ivusx-1.cEHZrB.hCiIMl.--medium`

	areaUnitSuffix = " sqft"
)

var (
	priceRegexp = regexp.MustCompile(`\$?\s*(\d[\d,]*)`)
	bedsRegexp  = regexp.MustCompile(`(\d+)`)
	bathsRegexp = regexp.MustCompile(`(\d+(?:\.\d+)?)`)
	areaRegexp  = regexp.MustCompile(`(\d[\d,]*)`)
)

// fieldProbe is one candidate strategy for locating a scalar field: a CSS
// selector plus a cleaner that validates and normalizes the matched text.
type fieldProbe struct {
	selector string
	clean    func(string) (string, bool)
}

// Probe lists are evaluated in order. The first candidate whose element
// exists and whose text passes its cleaner wins; later candidates are
// ignored.
var addressProbes = []fieldProbe{
	{"h1", cleanAddress},
	{`h1[data-testid="main-header"]`, cleanAddress},
	{`[data-testid="address"]`, cleanAddress},
	{".ds-address-container h1", cleanAddress},
}

var priceProbes = []fieldProbe{
	{`span[data-testid="price"]`, cleanPrice},
	{".ds-price span", cleanPrice},
	{`span[class*="price"]`, cleanPrice},
	{`[data-testid="rent-price"]`, cleanPrice},
}

// firstProbeValue walks the probes in order against textFor and returns the
// first cleaned value.
func firstProbeValue(textFor func(selector string) string, probes []fieldProbe) (string, bool) {
	for _, p := range probes {
		raw := strings.TrimSpace(textFor(p.selector))
		if raw == "" {
			continue
		}
		if v, ok := p.clean(raw); ok {
			return v, true
		}
	}
	return "", false
}

// cleanAddress accepts heading text long enough to be a street address.
func cleanAddress(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) <= minAddressLen {
		return "", false
	}
	return raw, true
}

// cleanPrice extracts the digit-and-comma run following an optional
// currency symbol, e.g. "$4,500/mo" becomes "4,500".
func cleanPrice(raw string) (string, bool) {
	m := priceRegexp.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// parseFacts maps positional fact texts onto bedrooms, bathrooms, and area.
// Each position is parsed independently as available.
func parseFacts(fields *PartialFields, facts []string) {
	if len(facts) >= 1 {
		if m := bedsRegexp.FindStringSubmatch(facts[0]); m != nil {
			fields.Bedrooms = m[1]
		}
	}
	if len(facts) >= 2 {
		if m := bathsRegexp.FindStringSubmatch(facts[1]); m != nil {
			fields.Bathrooms = m[1]
		}
	}
	if len(facts) >= 3 {
		if m := areaRegexp.FindStringSubmatch(facts[2]); m != nil {
			fields.Area = m[1] + areaUnitSuffix
		}
	}
}

// extractFields runs every probe list against the live page. Misses leave
// fields unset and never fail the scrape.
func (s *Scraper) extractFields(ctx context.Context) PartialFields {
	var fields PartialFields

	textFor := func(selector string) string { return s.selectorText(ctx, selector) }

	if v, ok := firstProbeValue(textFor, addressProbes); ok {
		fields.Address = v
		s.logger.Info("[zillow] Found address: %s", v)
	} else {
		s.logger.Warn("[zillow] Could not find address")
	}

	if v, ok := firstProbeValue(textFor, priceProbes); ok {
		fields.MonthlyRent = v
		s.logger.Info("[zillow] Found price: $%s", v)
	} else {
		s.logger.Warn("[zillow] Could not find price")
	}

	// The fact containers are only trusted when all three are present;
	// otherwise fall back to the obfuscated value spans.
	facts := s.selectorTexts(ctx, factContainerSelector)
	if len(facts) >= 3 {
		s.logger.Info("[zillow] Found %d property detail containers", len(facts))
	} else {
		facts = s.selectorTexts(ctx, factFallbackSelector)
	}
	parseFacts(&fields, facts)

	if fields.Bedrooms != "" {
		s.logger.Info("[zillow] Found bedrooms: %s", fields.Bedrooms)
	}
	if fields.Bathrooms != "" {
		s.logger.Info("[zillow] Found bathrooms: %s", fields.Bathrooms)
	}
	if fields.Area != "" {
		s.logger.Info("[zillow] Found area: %s", fields.Area)
	}

	return fields
}
