package alternance

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go-alternance-automation/internal/classifier"
	"go-alternance-automation/internal/config"
	"go-alternance-automation/internal/models"
	"go-alternance-automation/utils"

	"github.com/playwright-community/playwright-go"
)

const (
	navigationTimeout = 45000
	resultsTimeout    = 40 * time.Second
)

var (
	metierSelectors    = []string{"#metier", "input[name='metier']", "input[placeholder*='métier']"}
	lieuSelectors      = []string{"#lieu", "input[name='lieu']", "input[placeholder*='lieu']"}
	suggestionSelector = "[role='option'], #ac-metier-item-list li, #ac-lieu-item-list li"
	formationsCheckbox = "input[type='checkbox'][name*='formation'], input[type='checkbox'][id*='formation']"
	submitSelectors    = []string{"button[type='submit']", "button:has-text(\"C'est parti\")", "button:has-text('Rechercher')"}
	consentSelectors   = []string{"#tarteaucitronPersonalize2", "button:has-text('Tout accepter')"}
	noResultSelector   = "text=/aucun résultat/i"
)

// Scraper drives the search form of the alternance portal and reads the
// result cards rendered by the embedded results widget.
type Scraper struct {
	cfg        *config.Config
	classifier *classifier.Classifier
	shots      *utils.ScreenShotDebugger
}

func NewScraper(cfg *config.Config, c *classifier.Classifier) *Scraper {
	return &Scraper{
		cfg:        cfg,
		classifier: c,
		shots:      utils.NewScreenShotDebugger(cfg.ScreenshotDir),
	}
}

func (s *Scraper) Name() string {
	return "La bonne alternance"
}

func (s *Scraper) Cards(ctx context.Context, page playwright.Page) ([]models.RawCard, error) {
	log.Printf("📋 Searching %s: %q near %q", s.Name(), s.cfg.Search.Metier, s.cfg.Search.Lieu)

	if _, err := page.Goto(s.cfg.Search.SearchURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(navigationTimeout),
	}); err != nil {
		return nil, fmt.Errorf("error navigating to %s: %w", s.cfg.Search.SearchURL, err)
	}
	utils.RandomDelay(1500, 3000)
	s.acceptConsent(page)

	if err := s.fillSearchForm(ctx, page); err != nil {
		_ = s.shots.CaptureAndLog(page, "search-form", "🚨 Search form could not be filled")
		return nil, err
	}

	frame, selector, err := s.waitForResults(ctx, page)
	if err != nil {
		_ = s.shots.CaptureAndLog(page, "no-results", "🚨 Results widget did not render")
		return nil, err
	}
	if frame == nil {
		log.Println("ℹ️ Portal reports no result for this search")
		return nil, nil
	}

	utils.MouseJiggle(page)
	utils.SmoothScroll(page)

	return s.collectCards(ctx, frame, selector)
}

func (s *Scraper) acceptConsent(page playwright.Page) {
	for _, sel := range consentSelectors {
		btn := page.Locator(sel).First()
		if visible, _ := btn.IsVisible(); visible {
			if err := btn.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(3000)}); err == nil {
				log.Println("🍪 Cookie banner accepted")
				return
			}
		}
	}
}

func (s *Scraper) fillSearchForm(ctx context.Context, page playwright.Page) error {
	frame, metier := findInFrames(page, metierSelectors)
	if metier == nil {
		return fmt.Errorf("search field 'metier' not found")
	}
	if err := s.typeAndPick(ctx, frame, metier, s.cfg.Search.Metier, true); err != nil {
		return fmt.Errorf("failed to fill 'metier': %w", err)
	}

	if s.cfg.Search.Lieu != "" {
		if lieuFrame, lieu := findInFrames(page, lieuSelectors); lieu != nil {
			if err := s.typeAndPick(ctx, lieuFrame, lieu, s.cfg.Search.Lieu, false); err != nil {
				log.Printf("⚠️ Failed to fill 'lieu': %v", err)
			}
		} else {
			log.Println("⚠️ Search field 'lieu' not found, searching without location")
		}
	}

	s.uncheckFormations(frame)

	for _, sel := range submitSelectors {
		btn := frame.Locator(sel).First()
		if n, _ := btn.Count(); n == 0 {
			continue
		}
		if err := btn.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(5000)}); err == nil {
			log.Println("🚀 Search submitted")
			return nil
		}
	}
	//last resort: Enter in the last field
	return metier.Press("Enter")
}

// typeAndPick types value like a user and clicks an autocomplete suggestion.
// For the métier field the suggestion is chosen with PickSuggestion.
func (s *Scraper) typeAndPick(ctx context.Context, frame playwright.Frame, field playwright.Locator, value string, job bool) error {
	if err := field.Click(); err != nil {
		return err
	}
	if err := field.Fill(""); err != nil {
		return err
	}
	if err := field.PressSequentially(value, playwright.LocatorPressSequentiallyOptions{
		Delay: playwright.Float(float64(utils.RandomDuration(60, 140).Milliseconds())),
	}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	options := frame.Locator(suggestionSelector)
	if err := options.First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(5000),
	}); err != nil {
		log.Printf("⚠️ No suggestion for %q, keeping typed value", value)
		return nil
	}

	texts, err := options.AllInnerTexts()
	if err != nil || len(texts) == 0 {
		return field.Press("Enter")
	}
	idx := 0
	if job {
		idx = PickSuggestion(s.classifier, texts)
	}
	log.Printf("   ↳ suggestion %d/%d: %s", idx+1, len(texts), strings.ReplaceAll(texts[idx], "\n", " "))
	return options.Nth(idx).Click()
}

func (s *Scraper) uncheckFormations(frame playwright.Frame) {
	boxes, err := frame.Locator(formationsCheckbox).All()
	if err != nil {
		return
	}
	for _, box := range boxes {
		checked, err := box.IsChecked()
		if err != nil || !checked {
			continue
		}
		if err := box.Uncheck(playwright.LocatorUncheckOptions{Force: playwright.Bool(true)}); err != nil {
			log.Printf("⚠️ Could not uncheck 'Formations': %v", err)
			continue
		}
		log.Println("✅ 'Formations' filter unchecked")
	}
}

// waitForResults polls every frame until one of them renders result cards.
// A nil frame with a nil error means the portal answered "no result".
func (s *Scraper) waitForResults(ctx context.Context, page playwright.Page) (playwright.Frame, string, error) {
	deadline := time.Now().Add(resultsTimeout)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		for _, frame := range page.Frames() {
			for _, sel := range cardSelectors {
				if n, err := frame.Locator(sel).Count(); err == nil && n > 0 {
					log.Printf("📦 Found %d cards (%s)", n, sel)
					return frame, sel, nil
				}
			}
			if visible, _ := frame.Locator(noResultSelector).First().IsVisible(); visible {
				return nil, "", nil
			}
		}
		if time.Now().After(deadline) {
			return nil, "", fmt.Errorf("no result card after %s", resultsTimeout)
		}
		select {
		case <-ctx.Done():
			return nil, "", ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Scraper) collectCards(ctx context.Context, frame playwright.Frame, selector string) ([]models.RawCard, error) {
	elements, err := frame.Locator(selector).All()
	if err != nil {
		return nil, fmt.Errorf("error listing cards: %w", err)
	}

	var cards []models.RawCard
	for i, el := range elements {
		if len(cards) >= s.cfg.Search.MaxCards {
			break
		}
		if err := ctx.Err(); err != nil {
			return cards, err
		}
		text, err := el.InnerText(playwright.LocatorInnerTextOptions{Timeout: playwright.Float(2000)})
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		link, _ := el.Locator("a[href]").First().GetAttribute("href", playwright.LocatorGetAttributeOptions{
			Timeout: playwright.Float(500),
		})
		if link == "" {
			link, _ = el.GetAttribute("href", playwright.LocatorGetAttributeOptions{Timeout: playwright.Float(500)})
		}
		cards = append(cards, models.RawCard{Text: text, Link: link, SourceIndex: i})
	}
	log.Printf("✅ Collected %d cards", len(cards))
	return cards, nil
}

func findInFrames(page playwright.Page, selectors []string) (playwright.Frame, playwright.Locator) {
	for _, frame := range page.Frames() {
		for _, sel := range selectors {
			loc := frame.Locator(sel).First()
			if n, err := loc.Count(); err == nil && n > 0 {
				return frame, loc
			}
		}
	}
	return nil, nil
}
