package main

import (
	"bytes"
	"strings"
	"testing"

	"go-alternance-automation/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCards(t *testing.T) {
	cards, err := readCards("cards.JSON", strings.NewReader(`[{"text":"Vendeur\nBoutique","link":"/o/1"}]`))
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "/o/1", cards[0].Link)

	_, err = readCards("cards.txt", strings.NewReader(""))
	assert.Error(t, err)
}

func TestPrintAudit(t *testing.T) {
	var buf bytes.Buffer
	printAudit(&buf, []models.OfferRecord{
		{Offer: models.NormalizedOffer{Title: "Vendeur"}, Classification: models.ClassificationResult{Category: models.CategoryJobOffer}},
		{Offer: models.NormalizedOffer{Title: "BTS MCO"}, Classification: models.ClassificationResult{Category: models.CategoryTrainingOffer}},
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Vendeur")
	assert.Contains(t, lines[1], "BTS MCO")
}

func TestRefresh(t *testing.T) {
	offers := []models.OfferRecord{
		{Offer: models.NormalizedOffer{SourceIndex: 2}},
		{Offer: models.NormalizedOffer{SourceIndex: 5}},
	}
	records := []models.OfferRecord{
		{Offer: models.NormalizedOffer{SourceIndex: 2}, ApplicationStatus: models.StatusApplied},
		{Offer: models.NormalizedOffer{SourceIndex: 5}, ApplicationStatus: models.StatusSkipped},
	}
	got := refresh(offers, records)
	assert.Equal(t, models.StatusApplied, got[0].ApplicationStatus)
	assert.Equal(t, models.StatusSkipped, got[1].ApplicationStatus)
}
