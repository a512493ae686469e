// Package classifier decides whether a result card is a job offer or a
// training programme by additive weighted scoring over independent signal
// families.
package classifier

import (
	"fmt"
	"strings"

	"go-alternance-automation/internal/models"
)

// Decision reasons, one per branch of the decision rule.
const (
	ReasonTrainingMargin    = "training-margin"
	ReasonJobScore          = "job-score"
	ReasonTieTrainingMarker = "tie-training-marker"
	ReasonTieJobMarker      = "tie-job-marker"
	ReasonDefaultJob        = "default-job"
)

// Classifier scores normalized offers against a RuleSet. It holds no state
// besides the compiled rules and is safe for concurrent use.
type Classifier struct {
	rules RuleSet

	strongTraining []matcher
	weakTraining   []matcher
	strongJob      []matcher
	weakJob        []matcher
	degreeTitle    []matcher
	hiringTitle    []matcher
	degreeTag      []matcher
	tieTraining    []matcher
	tieJob         []matcher
}

func New(rules RuleSet) *Classifier {
	return &Classifier{
		rules:          rules,
		strongTraining: compileTerms(rules.StrongTraining.Terms, true),
		weakTraining:   compileTerms(rules.WeakTraining.Terms, true),
		strongJob:      compileTerms(rules.StrongJob.Terms, true),
		weakJob:        compileTerms(rules.WeakJob.Terms, true),
		degreeTitle:    compileTerms(rules.DegreeTitle.Terms, false),
		hiringTitle:    compileTerms(rules.HiringTitle.Terms, true),
		degreeTag:      compileTerms(rules.DegreeTag.Terms, true),
		tieTraining:    compileTerms(rules.TieTrainingMarkers, false),
		tieJob:         compileTerms(rules.TieJobPhrases, true),
	}
}

var defaultClassifier = New(DefaultRules())

// Classify labels offer with the default rule table.
func Classify(offer models.NormalizedOffer) models.ClassificationResult {
	return defaultClassifier.Classify(offer)
}

// score accumulates both sides and the audit trail.
type score struct {
	job, training float64
	signals       []models.Signal
}

func (s *score) add(name string, weight float64, target models.Category) {
	if target == models.CategoryJobOffer {
		s.job += weight
	} else {
		s.training += weight
	}
	s.signals = append(s.signals, models.Signal{Name: name, Weight: weight, Target: target})
}

func (c *Classifier) Classify(offer models.NormalizedOffer) models.ClassificationResult {
	raw := canonical(offer.RawText)
	folded := Fold(offer.RawText)
	title := canonical(offer.Title)
	s := &score{signals: []models.Signal{}}

	//explicit markers, verbatim
	if m := c.rules.TrainingMarker; m.Word != "" && strings.Contains(raw, canonical(m.Word)) {
		s.add("marker:"+m.Word, m.Weight, models.CategoryTrainingOffer)
	}
	if m := c.rules.JobMarker; m.Word != "" && strings.Contains(raw, canonical(m.Word)) {
		s.add("marker:"+m.Word, m.Weight, models.CategoryJobOffer)
	}

	//vocabulary families, each term counted once
	c.addTerms(s, "strong-training", c.strongTraining, folded, c.rules.StrongTraining.Weight, models.CategoryTrainingOffer)
	c.addTerms(s, "weak-training", c.weakTraining, folded, c.rules.WeakTraining.Weight, models.CategoryTrainingOffer)
	c.addTerms(s, "strong-job", c.strongJob, folded, c.rules.StrongJob.Weight, models.CategoryJobOffer)
	c.addTerms(s, "weak-job", c.weakJob, folded, c.rules.WeakJob.Weight, models.CategoryJobOffer)

	//title conventions
	if isUpper(title) {
		if name, ok := firstMatch(c.degreeTitle, title); ok {
			s.add("title-degree:"+name, c.rules.DegreeTitle.Weight, models.CategoryTrainingOffer)
		}
	} else if name, ok := firstMatch(c.hiringTitle, Fold(title)); ok {
		s.add("title-hiring:"+name, c.rules.HiringTitle.Weight, models.CategoryJobOffer)
	}

	if name, ok := firstMatch(c.degreeTag, folded); ok {
		s.add("degree-tag:"+name, c.rules.DegreeTag.Weight, models.CategoryTrainingOffer)
	}

	//url path segments
	link := strings.ToLower(offer.Link)
	if seg, ok := containsAny(link, c.rules.JobURL.Terms); ok {
		s.add("url:"+seg, c.rules.JobURL.Weight, models.CategoryJobOffer)
	} else if seg, ok := containsAny(link, c.rules.TrainingURL.Terms); ok {
		s.add("url:"+seg, c.rules.TrainingURL.Weight, models.CategoryTrainingOffer)
	}

	category, reason := c.decide(s, raw, folded)
	return models.ClassificationResult{
		Category:       category,
		JobScore:       s.job,
		TrainingScore:  s.training,
		MatchedSignals: s.signals,
		DecisionReason: reason,
	}
}

func (c *Classifier) addTerms(s *score, family string, ms []matcher, text string, weight float64, target models.Category) {
	for _, m := range ms {
		if m.re.MatchString(text) {
			s.add(family+":"+m.name, weight, target)
		}
	}
}

func (c *Classifier) decide(s *score, raw, folded string) (models.Category, string) {
	if s.training > s.job*c.rules.TrainingMargin {
		return models.CategoryTrainingOffer, ReasonTrainingMargin
	}
	if s.job > s.training {
		return models.CategoryJobOffer, ReasonJobScore
	}

	//near tie
	if _, ok := firstMatch(c.tieTraining, raw); ok {
		return models.CategoryTrainingOffer, ReasonTieTrainingMarker
	}
	if m := c.rules.JobMarker.Word; m != "" && strings.Contains(raw, canonical(m)) {
		return models.CategoryJobOffer, ReasonTieJobMarker
	}
	if _, ok := firstMatch(c.tieJob, folded); ok {
		return models.CategoryJobOffer, ReasonTieJobMarker
	}
	return models.CategoryJobOffer, ReasonDefaultJob
}

func containsAny(text string, needles []string) (string, bool) {
	for _, n := range needles {
		if n != "" && strings.Contains(text, strings.ToLower(n)) {
			return n, true
		}
	}
	return "", false
}

// Describe renders a one-line audit summary of a classification.
func Describe(offer models.NormalizedOffer, result models.ClassificationResult) string {
	title := offer.Title
	if r := []rune(title); len(r) > 50 {
		title = string(r[:50]) + "..."
	}
	names := make([]string, 0, len(result.MatchedSignals))
	for _, sig := range result.MatchedSignals {
		names = append(names, fmt.Sprintf("%s(%+g)", sig.Name, sig.Weight))
	}
	return fmt.Sprintf("#%d %q job=%g training=%g -> %s [%s] %s",
		offer.SourceIndex, title, result.JobScore, result.TrainingScore,
		result.Category, result.DecisionReason, strings.Join(names, " "))
}
