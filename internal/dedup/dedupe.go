package dedup

import (
	"strings"

	"go-alternance-automation/internal/models"
)

// Key is the equality key of a record: title, organization and link,
// lower-cased with whitespace collapsed. Accents are significant.
func Key(offer models.NormalizedOffer) string {
	return clean(offer.Title) + "\x1f" + clean(offer.Organization) + "\x1f" + clean(offer.Link)
}

func clean(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Dedupe keeps the first occurrence of each key, preserving input order.
// Callers that classify in parallel must sort by SourceIndex first.
func Dedupe(records []models.OfferRecord) []models.OfferRecord {
	seen := make(map[string]bool, len(records))
	unique := make([]models.OfferRecord, 0, len(records))
	for _, r := range records {
		k := Key(r.Offer)
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, r)
	}
	return unique
}
