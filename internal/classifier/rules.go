package classifier

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WeightedTerms is a vocabulary family: each term found adds Weight once.
type WeightedTerms struct {
	Weight float64  `yaml:"weight"`
	Terms  []string `yaml:"terms"`
}

// Marker is a category label the portal sometimes prints verbatim.
type Marker struct {
	Word   string  `yaml:"word"`
	Weight float64 `yaml:"weight"`
}

// Pattern is a single-shot signal: Weight is added once if any term matches.
type Pattern struct {
	Weight float64  `yaml:"weight"`
	Terms  []string `yaml:"terms"`
}

// RuleSet is the scoring table. Weights are tuned against one portal and are
// meant to be replaced through a YAML file when the markup changes.
type RuleSet struct {
	TrainingMarker Marker        `yaml:"training_marker"`
	JobMarker      Marker        `yaml:"job_marker"`
	StrongTraining WeightedTerms `yaml:"strong_training"`
	WeakTraining   WeightedTerms `yaml:"weak_training"`
	StrongJob      WeightedTerms `yaml:"strong_job"`
	WeakJob        WeightedTerms `yaml:"weak_job"`
	// DegreeTitle fires on an all-caps title holding one of the acronyms.
	DegreeTitle Pattern `yaml:"degree_title"`
	// HiringTitle fires on a mixed-case title holding one of the phrases.
	HiringTitle Pattern `yaml:"hiring_title"`
	DegreeTag   Pattern `yaml:"degree_tag"`
	JobURL      Pattern `yaml:"job_url"`
	TrainingURL Pattern `yaml:"training_url"`

	// TrainingMargin is the factor by which the training score must beat
	// the job score. Job offers need no margin.
	TrainingMargin float64 `yaml:"training_margin"`

	TieTrainingMarkers []string `yaml:"tie_training_markers"`
	TieJobPhrases      []string `yaml:"tie_job_phrases"`
}

var degreeTags = []string{"(bts)", "(master)", "(bachelor)", "(licence)", "(mba)", "(dut)", "(tp)", "(lp)"}

func DefaultRules() RuleSet {
	return RuleSet{
		TrainingMarker: Marker{Word: "FORMATION", Weight: 15},
		JobMarker:      Marker{Word: "MÉTIER", Weight: 15},
		StrongTraining: WeightedTerms{
			Weight: 3,
			Terms:  append([]string{"bts", "master", "licence", "dut", "diplôme", "rncp"}, degreeTags...),
		},
		WeakTraining: WeightedTerms{
			Weight: 1,
			Terms:  []string{"école", "cfa", "université", "bac+", "apprentissage"},
		},
		StrongJob: WeightedTerms{
			Weight: 4,
			Terms:  []string{"cdi", "cdd", "recrute", "poste", "salaire", "expérience"},
		},
		WeakJob: WeightedTerms{
			Weight: 2,
			Terms:  []string{"entreprise", "commercial", "manager", "responsable"},
		},
		DegreeTitle: Pattern{Weight: 8, Terms: []string{"BTS", "MASTER", "LICENCE", "BACHELOR", "CAP", "MBA", "DUT"}},
		HiringTitle: Pattern{Weight: 7, Terms: []string{"recrute", "recherche", "cdi", "cdd", "poste"}},
		DegreeTag:   Pattern{Weight: 10, Terms: degreeTags},
		JobURL:      Pattern{Weight: 6, Terms: []string{"/offres/"}},
		TrainingURL: Pattern{Weight: 6, Terms: []string{"/formations/"}},

		TrainingMargin: 1.2,

		TieTrainingMarkers: []string{"UNIVERSIT", "FORMATION", "BTS", "LICENCE", "BACHELOR"},
		TieJobPhrases:      []string{"cdi", "cdd", "recrute", "poste de"},
	}
}

// LoadRules reads a YAML rule table. Sections absent from the file keep
// their default values.
func LoadRules(path string) (RuleSet, error) {
	rules := DefaultRules()
	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("failed to read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return DefaultRules(), fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	if rules.TrainingMargin <= 0 {
		rules.TrainingMargin = 1.2
	}
	return rules, nil
}
