package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"go-alternance-automation/internal/apply"
	"go-alternance-automation/internal/browser"
	"go-alternance-automation/internal/config"
	"go-alternance-automation/internal/database"
	"go-alternance-automation/internal/dedup"
	"go-alternance-automation/internal/filter"
	"go-alternance-automation/internal/models"
	"go-alternance-automation/internal/pipeline"
	"go-alternance-automation/internal/scraper"
	"go-alternance-automation/internal/scraper/alternance"

	"github.com/playwright-community/playwright-go"
	"github.com/spf13/cobra"
)

const cookieFile = "cookies-alternance.json"

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a live search on the portal",
	Long:  "Opens the portal in Chromium, runs the search, classifies every result card and applies to the job offers when auto_apply is on.",
	RunE:  runSearch,
}

var (
	searchMetier  string
	searchLieu    string
	searchApply   bool
	searchTimeout time.Duration
)

func init() {
	searchCmd.Flags().StringVar(&searchMetier, "metier", "", "Job search term (overrides search.metier)")
	searchCmd.Flags().StringVar(&searchLieu, "lieu", "", "Location (overrides search.lieu)")
	searchCmd.Flags().BoolVar(&searchApply, "apply", false, "Enable auto_apply for this run")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 10*time.Minute, "Overall run timeout")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if searchMetier != "" {
		cfg.Search.Metier = searchMetier
	}
	if searchLieu != "" {
		cfg.Search.Lieu = searchLieu
	}
	if searchApply {
		cfg.AutoApply = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log.Printf("🔧 Config loaded. Metier: %q, Lieu: %q", cfg.Search.Metier, cfg.Search.Lieu)

	c, err := loadClassifier(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	repo, err := openRepository(ctx, cfg)
	if err != nil {
		log.Printf("⚠️ Database disabled: %v", err)
	}
	if repo != nil {
		defer repo.Close()
	}

	log.Println("🚀 Starting alternance search...")
	pwManager, err := browser.NewPlaywright(ctx, !cfg.ShowBrowser)
	if err != nil {
		return fmt.Errorf("failed to init playwright: %w", err)
	}
	defer pwManager.Close()

	cookies, err := browser.LoadCookies(filepath.Join(cfg.CookiesPath, cookieFile))
	if err != nil {
		log.Printf("⚠️ Could not load cookies: %v. Continuing.", err)
	} else {
		log.Printf("🍪 Loaded %d cookies", len(cookies))
	}

	browserCtx, err := pwManager.NewContext(cookies)
	if err != nil {
		return err
	}
	page, err := browserCtx.NewPage()
	if err != nil {
		return fmt.Errorf("failed to create new page: %w", err)
	}
	log.Println("✅ Browser initialized successfully!")

	var source scraper.CardSource = alternance.NewScraper(cfg, c)
	cards, err := source.Cards(ctx, page)
	if err != nil {
		err = fmt.Errorf("scraper %s: %w", source.Name(), err)
		notifyError(cfg, err)
		return err
	}
	log.Printf("📦 %s returned %d cards", source.Name(), len(cards))

	result, err := pipeline.Process(ctx, cards, pipeline.Options{
		BaseURL:    cfg.Search.BaseURL,
		Workers:    cfg.Workers,
		Classifier: c,
	})
	if err != nil {
		return err
	}
	saveRecords(ctx, repo, result)

	cache := dedup.NewSeenCache(cfg.CachePath)
	log.Printf("🗂️ Seen cache holds %d offers", cache.Len())
	fresh := unseen(cache, result.Jobs())
	log.Printf("🔍 Deduplication: %d job offers -> %d unseen", result.JobOffers, len(fresh))

	if cfg.AutoApply {
		if err := submitAll(ctx, cfg, browserCtx, repo, cache, result); err != nil {
			log.Printf("⚠️ %v", err)
		}
		fresh = refresh(fresh, result.Records)
	}

	summary, err := writeReport(cfg, result)
	if err != nil {
		return err
	}
	notify(cfg, fresh, summary)

	added, err := markSeen(cache, fresh)
	if err != nil {
		log.Printf("⚠️ Failed to save seen cache: %v", err)
	}
	log.Printf("💾 Marked %d offers as seen (%d in cache)", added, cache.Len())
	return nil
}

// unseen keeps the offers whose link is not in the cache. Offers without a
// link cannot be remembered and are always kept.
func unseen(cache *dedup.SeenCache, offers []models.OfferRecord) []models.OfferRecord {
	var out []models.OfferRecord
	for _, rec := range offers {
		if rec.Offer.Link == "" || !cache.IsSeen(rec.Offer.Link) {
			out = append(out, rec)
		}
	}
	return out
}

// markSeen adds the offer links to the cache and returns how many were new.
func markSeen(cache *dedup.SeenCache, offers []models.OfferRecord) (int, error) {
	before := cache.Len()
	links := make([]string, 0, len(offers))
	for _, rec := range offers {
		links = append(links, rec.Offer.Link)
	}
	err := cache.Add(links)
	return cache.Len() - before, err
}

// submitAll applies to the eligible job offers and writes each outcome back
// into result.Records.
func submitAll(ctx context.Context, cfg *config.Config, browserCtx playwright.BrowserContext,
	repo *database.Repository, cache *dedup.SeenCache, result *pipeline.Result) error {
	submitter, err := apply.NewSubmitter(cfg)
	if err != nil {
		return err
	}
	candidates := filter.ForSubmission(result.Records, filter.Criteria{
		ExcludeKeywords: cfg.ExcludeKeywords,
		MaxApplications: cfg.MaxApplications,
		Seen:            cache,
	})
	log.Printf("📨 %d offers selected for submission", len(candidates))

	position := make(map[int]int, len(result.Records))
	for i, rec := range result.Records {
		position[rec.Offer.SourceIndex] = i
	}

	for _, rec := range candidates {
		status, err := submitter.Apply(ctx, browserCtx, rec)
		if err != nil {
			log.Printf("❌ %s: %v", rec.Offer.Title, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		result.Records[position[rec.Offer.SourceIndex]].ApplicationStatus = status
		if repo != nil {
			if err := repo.UpdateApplicationStatus(ctx, rec.Offer, status); err != nil {
				log.Printf("⚠️ %v", err)
			}
		}
	}
	return nil
}

// refresh copies the application status of records back into offers.
func refresh(offers, records []models.OfferRecord) []models.OfferRecord {
	status := make(map[int]models.ApplicationStatus, len(records))
	for _, rec := range records {
		status[rec.Offer.SourceIndex] = rec.ApplicationStatus
	}
	for i := range offers {
		offers[i].ApplicationStatus = status[offers[i].Offer.SourceIndex]
	}
	return offers
}
