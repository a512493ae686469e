package normalizer

import (
	"strings"
	"testing"

	"go-alternance-automation/internal/models"

	"github.com/stretchr/testify/assert"
)

const baseURL = "https://labonnealternance.apprentissage.beta.gouv.fr"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		card     models.RawCard
		expected models.NormalizedOffer
	}{
		{
			name: "Job card with distance",
			card: models.RawCard{Text: "MÉTIER Vendeur\nBoutique XYZ\n10 km de Paris", Link: "/offres/1234", SourceIndex: 2},
			expected: models.NormalizedOffer{
				Title:        "MÉTIER Vendeur",
				Organization: "Boutique XYZ",
				Location:     "10 km de Paris",
				Link:         baseURL + "/offres/1234",
				RawText:      "MÉTIER Vendeur\nBoutique XYZ\n10 km de Paris",
				SourceIndex:  2,
			},
		},
		{
			name: "Organization line naming a city is a location",
			card: models.RawCard{Text: "BTS COMMERCE INTERNATIONAL\nCFA Paris\n75001 Paris"},
			expected: models.NormalizedOffer{
				Title:    "BTS COMMERCE INTERNATIONAL",
				Location: "CFA Paris",
				RawText:  "BTS COMMERCE INTERNATIONAL\nCFA Paris\n75001 Paris",
			},
		},
		{
			name: "Postal code line",
			card: models.RawCard{Text: "  Commercial B2B \n\n Entreprise Martin SAS\nCDI - 69000 Lyon", Link: "https://example.org/x"},
			expected: models.NormalizedOffer{
				Title:        "Commercial B2B",
				Organization: "Entreprise Martin SAS",
				Location:     "CDI - 69000 Lyon",
				Link:         "https://example.org/x",
				RawText:      "  Commercial B2B \n\n Entreprise Martin SAS\nCDI - 69000 Lyon",
			},
		},
		{
			name: "Date-like first line is skipped for the title",
			card: models.RawCard{Text: "12/09/2025\nAssistant RH\nSAS"},
			expected: models.NormalizedOffer{
				Title:   "Assistant RH",
				RawText: "12/09/2025\nAssistant RH\nSAS",
			},
		},
		{
			name: "Location only in the title",
			card: models.RawCard{Text: "Vendeur H/F - 75011 Paris\nBoutique XYZ"},
			expected: models.NormalizedOffer{
				Title:        "Vendeur H/F - 75011 Paris",
				Organization: "Boutique XYZ",
				Location:     "Vendeur H/F - 75011 Paris",
				RawText:      "Vendeur H/F - 75011 Paris\nBoutique XYZ",
			},
		},
		{
			name:     "Empty card",
			card:     models.RawCard{Text: "   \n  ", SourceIndex: 7},
			expected: models.NormalizedOffer{Title: UntitledOffer, RawText: "   \n  ", SourceIndex: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.card, baseURL)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalize_LongLinesFallBackToFirstLine(t *testing.T) {
	long := strings.Repeat("a", 90)
	got := Normalize(models.RawCard{Text: long + "\n" + long + "b"}, baseURL)
	assert.Equal(t, long, got.Title)
}

func TestNormalize_Deterministic(t *testing.T) {
	card := models.RawCard{Text: "Assistant commercial\nDecathlon\n31000 Toulouse", Link: "/offres/9"}
	first := Normalize(card, baseURL)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Normalize(card, baseURL))
	}
}

func TestNormalize_TitleNeverEmpty(t *testing.T) {
	inputs := []string{"", "\n\n", "12345", "   x   ", "é"}
	for _, in := range inputs {
		got := Normalize(models.RawCard{Text: in}, baseURL)
		assert.NotEmpty(t, got.Title, "input %q", in)
	}
}

func TestResolveLink(t *testing.T) {
	tests := []struct {
		link, base, expected string
	}{
		{"", baseURL, ""},
		{"/offres/1", baseURL + "/", baseURL + "/offres/1"},
		{"//cdn.example.org/a", "http://portal.local", "http://cdn.example.org/a"},
		{"https://other.example/a", baseURL, "https://other.example/a"},
		{"offres/1", baseURL, "offres/1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ResolveLink(tt.link, tt.base), tt.link)
	}
}

func TestIsLocation(t *testing.T) {
	assert.True(t, IsLocation("75001"))
	assert.True(t, IsLocation("à 12km"))
	assert.True(t, IsLocation("Marseille"))
	assert.False(t, IsLocation("Skmart"))
	assert.False(t, IsLocation("Boutique XYZ"))
	assert.False(t, IsLocation("Tel 0612"))
}
