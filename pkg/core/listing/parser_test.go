package listing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const microdataPage = `
<html><body>
  <div itemscope itemtype="https://schema.org/SingleFamilyResidence">
    <span itemprop="streetAddress">520 Superior Ave</span>
    <span itemprop="postalCode">53081</span>
    <meta itemprop="price" content="185000">
  </div>
  <ul>
    <li>3 Bedrooms</li>
    <li>2 Bathrooms</li>
    <li>1,450 sq ft</li>
    <li>Year Built: 1965</li>
    <li>45 days on market</li>
    <li>Estimated rent: $1,800/mo</li>
  </ul>
</body></html>`

func TestParseMicrodataPage(t *testing.T) {
	l, err := Parse(strings.NewReader(microdataPage))
	require.NoError(t, err)

	require.Equal(t, "520 Superior Ave", l.Address)
	require.Equal(t, "53081", l.ZipCode)
	require.Equal(t, "185000", l.Price.String())
	require.Equal(t, 3, l.Bedrooms)
	require.Equal(t, 2, l.Bathrooms)
	require.Equal(t, 1450, l.SquareFeet)
	require.Equal(t, 1965, l.YearBuilt)
	require.Equal(t, 45, l.DaysOnMarket)
	require.Equal(t, "1800", l.RentEstimate.String())
}

func TestParseFactRowsOnly(t *testing.T) {
	// No microdata: price comes out of a labeled row.
	page := `
	<html><body>
	  <table>
	    <tr><td>List Price</td><td>$225,500</td></tr>
	    <tr><td>Year Built</td><td>1978</td></tr>
	  </table>
	</body></html>`

	l, err := Parse(strings.NewReader(page))
	require.NoError(t, err)
	require.Equal(t, "225500", l.Price.String())
	require.Equal(t, 1978, l.YearBuilt)
}

func TestParsePriceFallback(t *testing.T) {
	// Nothing labeled at all: the first dollar amount wins.
	page := `<html><body><h1>Charming duplex</h1><p>Offered at $149,900.</p></body></html>`

	l, err := Parse(strings.NewReader(page))
	require.NoError(t, err)
	require.Equal(t, "149900", l.Price.String())
}

func TestParseNoPrice(t *testing.T) {
	page := `<html><body><p>Contact agent for pricing.</p></body></html>`

	_, err := Parse(strings.NewReader(page))
	require.ErrorIs(t, err, ErrNoPrice)
}

func TestParseMissingFactsStayZero(t *testing.T) {
	page := `<html><body><p>Offered at $100,000.</p></body></html>`

	l, err := Parse(strings.NewReader(page))
	require.NoError(t, err)
	require.Zero(t, l.YearBuilt)
	require.Zero(t, l.DaysOnMarket)
	require.True(t, l.RentEstimate.IsZero())
}
