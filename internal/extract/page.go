package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ppiankov/vehiclex/internal/document"
	"github.com/ppiankov/vehiclex/internal/model"
	"github.com/ppiankov/vehiclex/internal/normalize"
)

// Description returns the free-text description of the vehicle, one line per
// paragraph. The first description selector that matches wins.
func (e *Extractor) Description(doc *document.Document) string {
	if doc == nil {
		return ""
	}

	for _, selector := range e.selectors.Description {
		if selector == "" {
			continue
		}
		if sel := doc.Query().Find(selector).First(); sel.Length() > 0 {
			return document.BlockText(sel.Get(0))
		}
	}
	return ""
}

// Photos returns the absolute photo URLs of the gallery, deduplicated on the
// raw attribute value. Inline data: images are skipped.
func (e *Extractor) Photos(doc *document.Document) []string {
	photos := []string{}
	if doc == nil || e.selectors.Photos == "" {
		return photos
	}

	seen := make(map[string]bool)
	doc.Query().Find(e.selectors.Photos).Each(func(_ int, img *goquery.Selection) {
		src := imageSource(img)
		if src == "" || strings.HasPrefix(src, "data:image") || seen[src] {
			return
		}
		seen[src] = true

		if resolved := doc.ResolveURL(src); resolved != "" {
			photos = append(photos, resolved)
		}
	})
	return photos
}

// ListingCards parses the vehicle cards of a listing page. Cards without a
// name are skipped.
func (e *Extractor) ListingCards(doc *document.Document) []model.ListingCard {
	cards := []model.ListingCard{}
	if doc == nil || e.selectors.ListingCard == "" {
		return cards
	}

	doc.Query().Find(e.selectors.ListingCard).Each(func(_ int, sel *goquery.Selection) {
		card := e.listingCard(doc, sel)
		if card.Name == "" {
			return
		}
		cards = append(cards, card)
	})
	return cards
}

func (e *Extractor) listingCard(doc *document.Document, sel *goquery.Selection) model.ListingCard {
	card := model.ListingCard{Price: model.PriceUnknown}

	if title := sel.Find(e.selectors.CardTitle).First(); title.Length() > 0 {
		card.Name = document.CleanText(title.Text())
		if href, ok := title.Attr("href"); ok {
			card.LinkDetails = doc.ResolveURL(href)
		}
	}

	for _, selector := range e.selectors.CardPrice {
		if selector == "" {
			continue
		}
		if price := sel.Find(selector).First(); price.Length() > 0 {
			card.Price = cardPrice(price.Text())
			break
		}
	}

	info := sel.Find(e.selectors.CardInfo)
	switch {
	case info.Length() >= 2:
		card.Year = document.CleanText(info.Eq(0).Text())
		card.Mileage = normalize.Mileage(info.Eq(1).Text())
	case info.Length() == 1:
		text := document.CleanText(info.Text())
		card.Year = normalize.Year(text)
		card.Mileage = normalize.Mileage(submatch(mileageWithUnit, text))
	}

	if img := sel.Find(e.selectors.CardImage).First(); img.Length() > 0 {
		if src := imageSource(img); src != "" {
			card.MainImageURL = doc.ResolveURL(src)
		}
	}

	return card
}

// cardPrice normalizes a price slot that may omit the currency symbol or the
// cents. Only digits and the decimal comma are kept, so "39.900" is 39900.00.
func cardPrice(text string) string {
	kept := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ',' {
			return r
		}
		return -1
	}, text)

	whole, cents := kept, ""
	if i := strings.LastIndexByte(kept, ','); i >= 0 {
		whole, cents = strings.ReplaceAll(kept[:i], ",", ""), kept[i+1:]
	}
	whole = strings.TrimLeft(whole, "0")
	if whole == "" && strings.Trim(cents, "0") == "" {
		return model.PriceUnknown
	}
	if whole == "" {
		whole = "0"
	}

	switch {
	case len(cents) > 2:
		cents = cents[:2]
	case len(cents) < 2:
		cents += strings.Repeat("0", 2-len(cents))
	}
	return whole + "." + cents
}

// imageSource prefers src, falling back to data-src when src is missing or a
// lazy-loading placeholder.
func imageSource(img *goquery.Selection) string {
	src := strings.TrimSpace(img.AttrOr("src", ""))
	if src != "" && !strings.HasPrefix(src, "data:") {
		return src
	}
	if lazy := strings.TrimSpace(img.AttrOr("data-src", "")); lazy != "" {
		return lazy
	}
	return src
}
