package alternance

import (
	"strings"

	"go-alternance-automation/internal/classifier"
	"go-alternance-automation/internal/models"
)

// PickSuggestion chooses which autocomplete entry to click for the "métier"
// field: the first one the classifier reads as a job rather than a training,
// falling back to the first entry. Returns -1 for an empty list.
func PickSuggestion(c *classifier.Classifier, options []string) int {
	if len(options) == 0 {
		return -1
	}
	for i, opt := range options {
		folded := classifier.Fold(opt)
		if strings.Contains(folded, "formation") || strings.Contains(folded, "diplome") {
			continue
		}
		offer := models.NormalizedOffer{Title: opt, RawText: opt}
		if c.Classify(offer).Category == models.CategoryJobOffer {
			return i
		}
	}
	return 0
}
