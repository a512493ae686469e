package classifier

import (
	"os"
	"path/filepath"
	"testing"

	"go-alternance-automation/internal/models"
	"go-alternance-automation/internal/normalizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseURL = "https://labonnealternance.apprentissage.beta.gouv.fr"

func classifyText(text, link string) models.ClassificationResult {
	return Classify(normalizer.Normalize(models.RawCard{Text: text, Link: link}, baseURL))
}

func TestClassify_Scenarios(t *testing.T) {
	tests := []struct {
		name             string
		text             string
		link             string
		expected         models.Category
		reason           string
		minJob, minTrain float64
	}{
		{
			name:     "All-caps degree title",
			text:     "BTS COMMERCE INTERNATIONAL\nCFA Paris\n75001 Paris",
			expected: models.CategoryTrainingOffer,
			reason:   ReasonTrainingMargin,
			minTrain: 9,
		},
		{
			name:     "Job vocabulary",
			text:     "Commercial B2B\nEntreprise Martin SAS\nCDI - 69000 Lyon",
			expected: models.CategoryJobOffer,
			reason:   ReasonJobScore,
			minJob:   8,
		},
		{
			name:     "Job marker and offer url",
			text:     "MÉTIER Vendeur\nBoutique XYZ\n10 km de Paris",
			link:     "/offres/1234",
			expected: models.CategoryJobOffer,
			reason:   ReasonJobScore,
			minJob:   21,
		},
		{
			name:     "Lowercase formation is not the marker",
			text:     "Formation en alternance commercial",
			expected: models.CategoryJobOffer,
			reason:   ReasonJobScore,
			minJob:   2,
		},
		{
			name:     "No keyword at all",
			text:     "Offre générique sans mot-clé",
			expected: models.CategoryJobOffer,
			reason:   ReasonDefaultJob,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyText(tt.text, tt.link)
			assert.Equal(t, tt.expected, got.Category)
			assert.Equal(t, tt.reason, got.DecisionReason)
			assert.GreaterOrEqual(t, got.JobScore, tt.minJob)
			assert.GreaterOrEqual(t, got.TrainingScore, tt.minTrain)
		})
	}
}

func TestClassify_ExactScores(t *testing.T) {
	got := classifyText("Commercial B2B\nEntreprise Martin SAS\nCDI - 69000 Lyon", "")
	assert.Equal(t, 8.0, got.JobScore)
	assert.Equal(t, 0.0, got.TrainingScore)

	got = classifyText("MÉTIER Vendeur\nBoutique XYZ\n10 km de Paris", "/offres/1234")
	assert.Equal(t, 21.0, got.JobScore)
	assert.Equal(t, 0.0, got.TrainingScore)
	require.Len(t, got.MatchedSignals, 2)
	assert.Equal(t, "marker:MÉTIER", got.MatchedSignals[0].Name)
	assert.Equal(t, "url:/offres/", got.MatchedSignals[1].Name)
}

func TestClassify_TrainingMarkerDominates(t *testing.T) {
	got := classifyText("FORMATION Assistant de gestion\nInstitut Sud\n13001 Marseille", "")
	assert.Equal(t, models.CategoryTrainingOffer, got.Category)
	assert.GreaterOrEqual(t, got.TrainingScore, 15.0)
}

func TestClassify_DegreeTagAndTrainingURL(t *testing.T) {
	got := classifyText("Gestion de la PME (BTS)\nLycée Jean Moulin", "/formations/42")
	assert.Equal(t, models.CategoryTrainingOffer, got.Category)
	// bts(3) + (bts)(3) + tag(10) + url(6)
	assert.Equal(t, 22.0, got.TrainingScore)
}

func TestClassify_AccentInsensitiveVocabulary(t *testing.T) {
	withAccent := classifyText("Alternant\nDiplôme d'État", "")
	withoutAccent := classifyText("Alternant\ndiplome d'etat", "")
	assert.Equal(t, 3.0, withAccent.TrainingScore)
	assert.Equal(t, withAccent.TrainingScore, withoutAccent.TrainingScore)
}

func TestClassify_SubstringMatching(t *testing.T) {
	tests := []struct {
		name string
		text string
		term string
	}{
		{"Inside a word", "Webmaster junior\nAgence Pixel", "strong-training:master"},
		{"Glued prefix", "Préparation postBTS\nLycée Pasteur", "strong-training:bts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyText(tt.text, "")
			assert.Equal(t, 3.0, got.TrainingScore)
			assert.Equal(t, 0.0, got.JobScore)
			assert.Equal(t, models.CategoryTrainingOffer, got.Category)
			assert.Equal(t, ReasonTrainingMargin, got.DecisionReason)
			require.Len(t, got.MatchedSignals, 1)
			assert.Equal(t, tt.term, got.MatchedSignals[0].Name)
		})
	}
}

func TestClassify_DecomposedMarker(t *testing.T) {
	// "E" followed by U+0301 COMBINING ACUTE ACCENT
	got := classifyText("ME\u0301TIER Serveur\nBrasserie", "")
	assert.Equal(t, 15.0, got.JobScore)
}

func TestClassify_TieBreaks(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected models.Category
		reason   string
	}{
		{"Upper-case degree marker", "Alternant\nBTS cfa cdi", models.CategoryTrainingOffer, ReasonTieTrainingMarker},
		{"Hiring phrase", "Alternant\nbts cfa cdi", models.CategoryJobOffer, ReasonTieJobMarker},
		{"Training ahead without margin", "Alternant\nbts licence cfa cdi manager", models.CategoryJobOffer, ReasonTieJobMarker},
		{"Nothing decisive", "Alternant\nmanager cfa école", models.CategoryJobOffer, ReasonDefaultJob},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyText(tt.text, "")
			assert.Equal(t, got.JobScore <= got.TrainingScore, true)
			assert.Equal(t, tt.expected, got.Category)
			assert.Equal(t, tt.reason, got.DecisionReason)
		})
	}
}

func TestClassify_CustomRulesTieMarkers(t *testing.T) {
	c := New(RuleSet{
		TrainingMargin:     1.2,
		JobMarker:          Marker{Word: "MÉTIER"},
		TieTrainingMarkers: []string{"UNIVERSIT"},
		TieJobPhrases:      []string{"poste de"},
	})

	got := c.Classify(models.NormalizedOffer{Title: "x", RawText: "UNIVERSITÉ de Lille"})
	assert.Equal(t, ReasonTieTrainingMarker, got.DecisionReason)

	got = c.Classify(models.NormalizedOffer{Title: "x", RawText: "MÉTIER Boulanger"})
	assert.Equal(t, ReasonTieJobMarker, got.DecisionReason)
	assert.Equal(t, 0.0, got.JobScore)

	got = c.Classify(models.NormalizedOffer{Title: "x", RawText: "Poste de cuisinier"})
	assert.Equal(t, models.CategoryJobOffer, got.Category)
	assert.Equal(t, ReasonTieJobMarker, got.DecisionReason)
}

func TestClassify_Totality(t *testing.T) {
	inputs := []models.NormalizedOffer{
		{},
		{Title: "", RawText: "\x00\xff"},
		{Title: "((((", RawText: "(((( ++ ** [[", Link: "/"},
	}
	for _, in := range inputs {
		got := Classify(in)
		assert.Contains(t, []models.Category{models.CategoryJobOffer, models.CategoryTrainingOffer}, got.Category)
		assert.NotEmpty(t, got.DecisionReason)
		assert.NotNil(t, got.MatchedSignals)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	offer := normalizer.Normalize(models.RawCard{Text: "Chargé de clientèle H/F\nBanque Populaire\nCDD - 33000 Bordeaux", Link: "/offres/7"}, baseURL)
	first := Classify(offer)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(offer))
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := "strong_job:\n  weight: 10\n  terms: [cdi]\ntraining_margin: 2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, 10.0, rules.StrongJob.Weight)
	assert.Equal(t, []string{"cdi"}, rules.StrongJob.Terms)
	assert.Equal(t, 2.0, rules.TrainingMargin)
	// untouched sections keep defaults
	assert.Equal(t, DefaultRules().WeakJob, rules.WeakJob)

	got := New(rules).Classify(models.NormalizedOffer{Title: "Vendeur", RawText: "Vendeur\nCDI"})
	assert.Equal(t, 10.0, got.JobScore)
}

func TestLoadRules_Errors(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strong_job: [unclosed"), 0644))
	rules, err := LoadRules(path)
	assert.Error(t, err)
	assert.Equal(t, DefaultRules().TrainingMargin, rules.TrainingMargin)
}

func TestDescribe(t *testing.T) {
	offer := models.NormalizedOffer{Title: "Vendeur", SourceIndex: 3}
	line := Describe(offer, models.ClassificationResult{
		Category:       models.CategoryJobOffer,
		JobScore:       4,
		DecisionReason: ReasonJobScore,
		MatchedSignals: []models.Signal{{Name: "strong-job:cdi", Weight: 4}},
	})
	assert.Contains(t, line, "#3")
	assert.Contains(t, line, "strong-job:cdi(+4)")
	assert.Contains(t, line, "JobOffer [job-score]")
}
