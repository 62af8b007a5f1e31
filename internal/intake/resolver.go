package intake

import (
	"strings"

	"polleria_backend/internal/events"
)

// ResolveMentions maps each product mention to a catalog entry. Resolution
// order per mention: exact id, then a plural-tolerant, case-insensitive
// substring match in both directions, then an unresolved placeholder with a
// nil product and zero price. Every mention yields exactly one line; the second return value lists
// the names that did not resolve.
func ResolveMentions(mentions []ProductMention, catalog []CatalogItem) ([]events.OrderLine, []string) {
	lines := make([]events.OrderLine, 0, len(mentions))
	var unresolved []string

	for _, mention := range mentions {
		quantity := mention.Quantity
		if quantity <= 0 {
			quantity = 1
		}

		item, found := matchCatalog(mention, catalog)
		if !found {
			unresolved = append(unresolved, mention.Name)
			lines = append(lines, events.OrderLine{
				ProductID: nil,
				Name:      mention.Name,
				Quantity:  quantity,
				UnitPrice: 0,
			})
			continue
		}

		id := item.ID
		lines = append(lines, events.OrderLine{
			ProductID: &id,
			Name:      item.Name,
			Quantity:  quantity,
			UnitPrice: item.Price,
		})
	}
	return lines, unresolved
}

func matchCatalog(mention ProductMention, catalog []CatalogItem) (CatalogItem, bool) {
	if mention.ID != nil {
		for _, item := range catalog {
			if item.ID == *mention.ID {
				return item, true
			}
		}
	}

	name := normalizeName(mention.Name)
	if name == "" {
		return CatalogItem{}, false
	}
	for _, item := range catalog {
		catalogName := normalizeName(item.Name)
		if strings.Contains(catalogName, name) || strings.Contains(name, catalogName) {
			return item, true
		}
	}
	return CatalogItem{}, false
}

// normalizeName lowercases and trims the plural "s" from each word so a
// mention like "pollos fritos" matches the catalog's "Pollo Frito".
func normalizeName(name string) string {
	words := strings.Fields(strings.ToLower(name))
	for i, word := range words {
		if len(word) > 3 && strings.HasSuffix(word, "s") {
			words[i] = strings.TrimSuffix(word, "s")
		}
	}
	return strings.Join(words, " ")
}

// LinesTotal sums quantity times unit price over the resolved lines. Used
// when the interpreter does not state a total.
func LinesTotal(lines []events.OrderLine) float64 {
	var total float64
	for _, line := range lines {
		total += float64(line.Quantity) * line.UnitPrice
	}
	return total
}
