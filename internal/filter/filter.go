package filter

import (
	"log"
	"regexp"
	"strings"

	"go-alternance-automation/internal/classifier"
	"go-alternance-automation/internal/models"
)

// Seen reports links already handled in a previous session.
type Seen interface {
	IsSeen(link string) bool
}

type Criteria struct {
	ExcludeKeywords []string
	// MaxApplications caps the result; zero means no cap.
	MaxApplications int
	Seen            Seen
}

// ForSubmission keeps the records worth applying to: job offers with a
// link, not excluded by keyword and not seen before. Order is preserved.
func ForSubmission(records []models.OfferRecord, c Criteria) []models.OfferRecord {
	exclude := excludeRegex(c.ExcludeKeywords)
	out := make([]models.OfferRecord, 0, len(records))
	for _, r := range records {
		if c.MaxApplications > 0 && len(out) >= c.MaxApplications {
			break
		}
		if !r.IsJobOffer() || r.Offer.Link == "" {
			continue
		}
		if exclude != nil {
			text := classifier.Fold(r.Offer.Title + " " + r.Offer.Organization + " " + r.Offer.RawText)
			if m := exclude.FindString(text); m != "" {
				log.Printf("🚫 Skipped excluded keyword '%s': %s", m, r.Offer.Title)
				continue
			}
		}
		if c.Seen != nil && c.Seen.IsSeen(r.Offer.Link) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func excludeRegex(keywords []string) *regexp.Regexp {
	var parts []string
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		parts = append(parts, regexp.QuoteMeta(classifier.Fold(k)))
	}
	if len(parts) == 0 {
		return nil
	}
	return regexp.MustCompile(`\b(` + strings.Join(parts, "|") + `)\b`)
}
