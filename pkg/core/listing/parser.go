// Package listing extracts deal inputs from a saved property listing
// page. Real listing markup varies wildly, so the parser works in
// layers: schema.org microdata first, then labeled fact rows, then
// regex sweeps over the page text.
//
// Uses github.com/PuerkitoBio/goquery for jQuery-style HTML traversal.
package listing

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

// ErrNoPrice means no asking price could be located anywhere on the
// page; without a price the listing is useless as a deal input.
var ErrNoPrice = errors.New("listing has no recognizable price")

// Listing is what a listing page yields. Zero fields mean the page did
// not carry that fact.
type Listing struct {
	Address      string          `json:"address"`
	ZipCode      string          `json:"zip_code"`
	Price        decimal.Decimal `json:"price"`
	Bedrooms     int             `json:"bedrooms"`
	Bathrooms    int             `json:"bathrooms"`
	SquareFeet   int             `json:"square_feet"`
	YearBuilt    int             `json:"year_built"`
	DaysOnMarket int             `json:"days_on_market"`
	RentEstimate decimal.Decimal `json:"rent_estimate"`
}

var (
	moneyRe  = regexp.MustCompile(`\$\s*([\d,]+(?:\.\d{2})?)`)
	digitsRe = regexp.MustCompile(`[\d,]+`)
)

// Parse reads one listing page.
func Parse(r io.Reader) (*Listing, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing html: %w", err)
	}

	l := &Listing{}
	parseMicrodata(doc, l)
	parseFactRows(doc, l)

	if l.Price.IsZero() {
		// Last resort: the first dollar amount near the top of the page
		// is almost always the asking price.
		if v, ok := parseMoney(doc.Find("body").Text()); ok {
			l.Price = v
		}
	}
	if l.Price.IsZero() {
		return nil, ErrNoPrice
	}
	return l, nil
}

// parseMicrodata reads schema.org itemprop markup, the most reliable
// source when present.
func parseMicrodata(doc *goquery.Document, l *Listing) {
	if s := doc.Find(`[itemprop="streetAddress"]`).First(); s.Length() > 0 {
		l.Address = strings.TrimSpace(s.Text())
	}
	if s := doc.Find(`[itemprop="postalCode"]`).First(); s.Length() > 0 {
		l.ZipCode = strings.TrimSpace(s.Text())
	}
	if s := doc.Find(`[itemprop="price"]`).First(); s.Length() > 0 {
		raw, exists := s.Attr("content")
		if !exists {
			raw = s.Text()
		}
		// Microdata carries the price as a bare number more often
		// than as display text.
		if v, err := decimal.NewFromString(strings.TrimSpace(raw)); err == nil && v.IsPositive() {
			l.Price = v
		} else if v, ok := parseMoney(raw); ok {
			l.Price = v
		}
	}
}

// parseFactRows walks the label/value rows listing sites render their
// fact sheets as (dt/dd pairs, table rows, list items).
func parseFactRows(doc *goquery.Document, l *Listing) {
	doc.Find("li, tr, dt, div").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" || len(text) > 120 {
			return
		}
		lower := strings.ToLower(text)
		switch {
		case l.YearBuilt == 0 && strings.Contains(lower, "year built"):
			if n, ok := parseInt(text); ok && n > 1700 && n < 2200 {
				l.YearBuilt = n
			}
		case l.DaysOnMarket == 0 && (strings.Contains(lower, "days on market") || strings.Contains(lower, "on market")):
			if n, ok := parseInt(text); ok && n < 10000 {
				l.DaysOnMarket = n
			}
		case l.Bedrooms == 0 && (strings.Contains(lower, "bedroom") || strings.Contains(lower, "beds")):
			if n, ok := parseInt(text); ok && n < 50 {
				l.Bedrooms = n
			}
		case l.Bathrooms == 0 && (strings.Contains(lower, "bathroom") || strings.Contains(lower, "baths")):
			if n, ok := parseInt(text); ok && n < 50 {
				l.Bathrooms = n
			}
		case l.SquareFeet == 0 && (strings.Contains(lower, "sq ft") || strings.Contains(lower, "sqft") || strings.Contains(lower, "square feet")):
			if n, ok := parseInt(text); ok && n > 100 {
				l.SquareFeet = n
			}
		case l.RentEstimate.IsZero() && strings.Contains(lower, "rent"):
			if v, ok := parseMoney(text); ok {
				l.RentEstimate = v
			}
		case l.Price.IsZero() && strings.Contains(lower, "price"):
			if v, ok := parseMoney(text); ok {
				l.Price = v
			}
		}
	})
}

func parseMoney(text string) (decimal.Decimal, bool) {
	m := moneyRe.FindStringSubmatch(text)
	if m == nil {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil || !v.IsPositive() {
		return decimal.Zero, false
	}
	return v, true
}

func parseInt(text string) (int, bool) {
	m := digitsRe.FindString(text)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
