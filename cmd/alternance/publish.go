package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-alternance-automation/internal/classifier"
	"go-alternance-automation/internal/config"
	"go-alternance-automation/internal/database"
	"go-alternance-automation/internal/models"
	"go-alternance-automation/internal/pipeline"
	"go-alternance-automation/internal/reporter"
	"go-alternance-automation/internal/telegram"
)

func loadClassifier(cfg *config.Config) (*classifier.Classifier, error) {
	if cfg.RulesPath == "" {
		return classifier.New(classifier.DefaultRules()), nil
	}
	rules, err := classifier.LoadRules(cfg.RulesPath)
	if err != nil {
		return nil, err
	}
	log.Printf("📐 Scoring rules loaded from %s", cfg.RulesPath)
	return classifier.New(rules), nil
}

// openRepository returns nil without error when no database is configured.
func openRepository(ctx context.Context, cfg *config.Config) (*database.Repository, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}
	repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		repo.Close()
		return nil, err
	}
	log.Println("🗄️ Database connected.")
	return repo, nil
}

func saveRecords(ctx context.Context, repo *database.Repository, result *pipeline.Result) {
	if repo == nil {
		return
	}
	saved := 0
	for _, rec := range result.Records {
		if err := repo.SaveOffer(ctx, result.SessionID, rec); err != nil {
			log.Printf("⚠️ %v", err)
			continue
		}
		saved++
	}
	log.Printf("💾 Saved %d/%d offers to database", saved, len(result.Records))
}

// notify sends the given job offers and a closing status to Telegram.
func notify(cfg *config.Config, offers []models.OfferRecord, summary reporter.Summary) {
	if !cfg.TelegramEnabled() {
		return
	}
	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Printf("⚠️ %v", err)
		return
	}
	for _, rec := range offers {
		if err := bot.SendOffer(rec); err != nil {
			log.Printf("⚠️ Failed to send offer to Telegram: %v", err)
		}
		//1 second delay to avoid 429
		time.Sleep(1 * time.Second)
	}
	if err := bot.SendStatus(summary.String()); err != nil {
		log.Printf("⚠️ Failed to send status: %v", err)
	}
}

func notifyError(cfg *config.Config, runErr error) {
	if !cfg.TelegramEnabled() {
		return
	}
	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Printf("⚠️ %v", err)
		return
	}
	if err := bot.SendError(runErr); err != nil {
		log.Printf("⚠️ Failed to send error: %v", err)
	}
}

func writeReport(cfg *config.Config, result *pipeline.Result) (reporter.Summary, error) {
	summary := reporter.Summarize(result.SessionID, result.Records, result.Duplicates)
	path, err := reporter.SaveRecords(cfg.OutputDir, summary, result.Records, time.Now())
	if err != nil {
		return summary, fmt.Errorf("failed to write report: %w", err)
	}
	log.Printf("📄 Report written to %s", path)
	log.Printf("📊 %s", summary)
	return summary, nil
}
