// Package pipeline turns the raw cards of one search session into an
// ordered, deduplicated list of classified offer records.
package pipeline

import (
	"context"
	"log"
	"runtime"
	"sort"

	"go-alternance-automation/internal/classifier"
	"go-alternance-automation/internal/dedup"
	"go-alternance-automation/internal/models"
	"go-alternance-automation/internal/normalizer"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	// BaseURL is the portal origin used to resolve relative links.
	BaseURL string
	// Workers caps parallel classification. Zero means GOMAXPROCS.
	Workers    int
	Classifier *classifier.Classifier
	// Quiet disables the per-card audit log.
	Quiet bool
}

type Result struct {
	SessionID      uuid.UUID
	Records        []models.OfferRecord
	JobOffers      int
	TrainingOffers int
	Duplicates     int
}

// Jobs returns the job offer records, the only ones forwarded to submission.
func (r *Result) Jobs() []models.OfferRecord {
	return JobOffers(r.Records)
}

// Process normalizes and classifies every card, restores SourceIndex order
// and removes duplicates. Every returned record is NotApplied. The only
// error is ctx cancellation.
func Process(ctx context.Context, cards []models.RawCard, opts Options) (*Result, error) {
	c := opts.Classifier
	if c == nil {
		c = classifier.New(classifier.DefaultRules())
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	records := make([]models.OfferRecord, len(cards))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, card := range cards {
		if gCtx.Err() != nil {
			break
		}
		i, card := i, card
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			offer := normalizer.Normalize(card, opts.BaseURL)
			records[i] = models.OfferRecord{
				Offer:             offer,
				Classification:    c.Classify(offer),
				ApplicationStatus: models.StatusNotApplied,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	//first occurrence wins, so order must be deterministic before dedup
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Offer.SourceIndex < records[j].Offer.SourceIndex
	})
	unique := dedup.Dedupe(records)

	result := &Result{
		SessionID:  uuid.New(),
		Records:    unique,
		Duplicates: len(records) - len(unique),
	}
	for _, r := range unique {
		if !opts.Quiet {
			log.Printf("🔎 %s", classifier.Describe(r.Offer, r.Classification))
		}
		if r.IsJobOffer() {
			result.JobOffers++
		} else {
			result.TrainingOffers++
		}
	}
	log.Printf("📦 Session %s: %d cards -> %d offers (%d jobs, %d trainings, %d duplicates)",
		result.SessionID, len(cards), len(unique), result.JobOffers, result.TrainingOffers, result.Duplicates)
	return result, nil
}

// JobOffers keeps the JobOffer records, preserving order.
func JobOffers(records []models.OfferRecord) []models.OfferRecord {
	jobs := make([]models.OfferRecord, 0, len(records))
	for _, r := range records {
		if r.IsJobOffer() {
			jobs = append(jobs, r)
		}
	}
	return jobs
}
