package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Extractor builds catalog items from the storefront's menu page, so the
// engine can run against the live menu instead of the embedded table.
//
// The storefront renders one element per dish:
//
//	<article class="menu-item" data-id="e1" data-category="Ensaladas"
//	         data-price="125" data-calories="320"
//	         data-protein="8" data-carbs="25" data-fat="22">
//	  <h3 class="item-name">Manzana Nuez</h3>
//	  <p class="item-desc">Lechuga fresca...</p>
//	</article>
//
// Items missing the nutrition attributes are kept without macros; the matcher
// skips them on its own.
type Extractor struct {
	client *http.Client
}

// NewExtractor creates an Extractor with a sane request timeout.
func NewExtractor() *Extractor {
	return &Extractor{
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchMenu downloads the menu page and returns the catalog built from it.
func (e *Extractor) FetchMenu(ctx context.Context, url string) (*Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch menu page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch menu page: status %d", resp.StatusCode)
	}

	items, err := ExtractMenu(resp.Body)
	if err != nil {
		return nil, err
	}
	return New(items)
}

// ExtractMenu parses menu-item elements out of a storefront page.
func ExtractMenu(r io.Reader) ([]MenuItem, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse menu page: %w", err)
	}

	var items []MenuItem
	doc.Find(".menu-item").Each(func(_ int, s *goquery.Selection) {
		id, ok := s.Attr("data-id")
		if !ok || id == "" {
			return
		}

		item := MenuItem{
			ID:          id,
			Name:        strings.TrimSpace(s.Find(".item-name").First().Text()),
			Description: strings.TrimSpace(s.Find(".item-desc").First().Text()),
			Category:    Category(s.AttrOr("data-category", "")),
			Price:       attrInt(s, "data-price"),
			Calories:    attrInt(s, "data-calories"),
		}

		// All three macro attributes must be present for the item to count
		// as having nutrition data.
		if hasAttrs(s, "data-protein", "data-carbs", "data-fat") {
			item.Macros = &Macros{
				Protein: attrInt(s, "data-protein"),
				Carbs:   attrInt(s, "data-carbs"),
				Fat:     attrInt(s, "data-fat"),
			}
		}

		items = append(items, item)
	})

	if len(items) == 0 {
		return nil, fmt.Errorf("no menu items found in page")
	}
	return items, nil
}

func attrInt(s *goquery.Selection, name string) int {
	v, ok := s.Attr(name)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return n
}

func hasAttrs(s *goquery.Selection, names ...string) bool {
	for _, name := range names {
		if _, ok := s.Attr(name); !ok {
			return false
		}
	}
	return true
}
