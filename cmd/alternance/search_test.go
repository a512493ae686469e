package main

import (
	"testing"

	"go-alternance-automation/internal/dedup"
	"go-alternance-automation/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offer(idx int, link string) models.OfferRecord {
	return models.OfferRecord{Offer: models.NormalizedOffer{Title: "Vendeur", Link: link, SourceIndex: idx}}
}

func TestMarkSeen(t *testing.T) {
	cache := dedup.NewSeenCache(t.TempDir())
	require.NoError(t, cache.Add([]string{"https://x/offres/1"}))

	added, err := markSeen(cache, []models.OfferRecord{
		offer(0, "https://x/offres/1"),
		offer(1, "https://x/offres/2"),
		offer(2, ""),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, 2, cache.Len())
}

func TestUnseen(t *testing.T) {
	cache := dedup.NewSeenCache(t.TempDir())
	require.NoError(t, cache.Add([]string{"https://x/offres/1"}))

	got := unseen(cache, []models.OfferRecord{
		offer(0, "https://x/offres/1"),
		offer(1, "https://x/offres/2"),
		offer(2, ""),
	})
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Offer.SourceIndex)
	assert.Equal(t, 2, got[1].Offer.SourceIndex)
}
