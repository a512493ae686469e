package dedup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-alternance-automation/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(idx int, title, org, link string) models.OfferRecord {
	return models.OfferRecord{
		Offer:             models.NormalizedOffer{Title: title, Organization: org, Link: link, SourceIndex: idx},
		ApplicationStatus: models.StatusNotApplied,
	}
}

func TestDedupe(t *testing.T) {
	input := []models.OfferRecord{
		record(0, "Vendeur", "Boutique XYZ", "https://x/offres/1"),
		record(1, "Commercial", "Martin SAS", ""),
		record(2, "  VENDEUR ", "boutique   xyz", "https://X/offres/1"),
		record(3, "Commercial", "Martin SAS", "https://x/offres/2"),
		record(4, "Commercial", "Martin  sas", ""),
	}

	got := Dedupe(input)
	require.Len(t, got, 3)
	assert.Equal(t, 0, got[0].Offer.SourceIndex)
	assert.Equal(t, 1, got[1].Offer.SourceIndex)
	assert.Equal(t, 3, got[2].Offer.SourceIndex)
}

func TestDedupe_Idempotent(t *testing.T) {
	inputs := [][]models.OfferRecord{
		nil,
		{record(0, "a", "", "")},
		{record(0, "a", "", ""), record(1, "A", "", ""), record(2, "b", "", ""), record(3, "a ", "", "")},
	}
	for _, in := range inputs {
		once := Dedupe(in)
		assert.Equal(t, once, Dedupe(once))
	}
}

func TestDedupe_CaseInsensitiveAccentSensitive(t *testing.T) {
	got := Dedupe([]models.OfferRecord{
		record(0, "Employé polyvalent", "Café", ""),
		record(1, "EMPLOYÉ  POLYVALENT", "CAFÉ", ""),
		record(2, "Employe polyvalent", "Cafe", ""),
	})
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Offer.SourceIndex)
	assert.Equal(t, 2, got[1].Offer.SourceIndex)
}

func TestSeenCache_AddAndReload(t *testing.T) {
	dir := t.TempDir()
	cache := NewSeenCache(dir)
	assert.False(t, cache.IsSeen("https://x/offres/1"))

	require.NoError(t, cache.Add([]string{"https://x/offres/1", "", "https://x/offres/2"}))
	assert.True(t, cache.IsSeen("https://x/offres/1"))
	assert.Equal(t, 2, cache.Len())

	reloaded := NewSeenCache(dir)
	assert.True(t, reloaded.IsSeen("https://x/offres/2"))
	assert.Equal(t, 2, reloaded.Len())
}

func TestSeenCache_ExpiredEntriesDropped(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-31 * 24 * time.Hour).UnixMilli()
	fresh := time.Now().Add(-time.Hour).UnixMilli()
	data, err := json.Marshal([]seenEntry{{Link: "old", Timestamp: old}, {Link: "fresh", Timestamp: fresh}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seen_offers.json"), data, 0644))

	cache := NewSeenCache(dir)
	assert.False(t, cache.IsSeen("old"))
	assert.True(t, cache.IsSeen("fresh"))
}

func TestSeenCache_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seen_offers.json"), []byte("{not json"), 0644))
	cache := NewSeenCache(dir)
	assert.Equal(t, 0, cache.Len())
}
