// Define an interface for all result-card sources
// Ensure consistency

package scraper

import (
	"context"

	"go-alternance-automation/internal/models"

	"github.com/playwright-community/playwright-go"
)

//CardSource supplies the raw result cards of one search session
type CardSource interface {
	//Cards runs the search and returns the cards in page order
	Cards(ctx context.Context, page playwright.Page) ([]models.RawCard, error)

	//Name is the portal name
	Name() string
}
