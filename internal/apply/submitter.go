// Package apply fills (and optionally sends) the application form of a job
// offer on the portal.
package apply

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"text/template"
	"time"

	"go-alternance-automation/internal/config"
	"go-alternance-automation/internal/models"
	"go-alternance-automation/utils"

	"github.com/playwright-community/playwright-go"
)

const DefaultMessage = `Bonjour,

Je suis vivement intéressé(e) par votre offre « {{.Title}} »{{if .Organization}} chez {{.Organization}}{{end}}, qui correspond à mon projet professionnel en alternance.

Je serais ravi(e) de pouvoir échanger avec vous pour vous présenter ma motivation.

Cordialement,
{{.FullName}}`

var (
	applyButtonSelectors = []string{
		"[data-testid='postuler-button']",
		"button:has-text(\"J'envoie ma candidature\")",
		"button:has-text('Postuler')",
		"a:has-text('Postuler')",
	}
	sendButtonSelectors = []string{
		"form button[type='submit']",
		"button:has-text(\"J'envoie ma candidature\")",
		"button:has-text('Envoyer')",
	}
	confirmationSelector = "text=/candidature a bien été envoyée|candidature envoyée/i"
	errorSelector        = "form [role='alert'], .fr-error-text"
)

type formField struct {
	Name      string
	Value     string
	Selectors []string
}

type messageData struct {
	Title        string
	Organization string
	FullName     string
}

// Submitter is the application-submission collaborator. It only ever moves
// a record out of NotApplied.
type Submitter struct {
	cfg   *config.Config
	tmpl  *template.Template
	shots *utils.ScreenShotDebugger
}

func NewSubmitter(cfg *config.Config) (*Submitter, error) {
	text := cfg.Applicant.Message
	if text == "" {
		text = DefaultMessage
	}
	tmpl, err := template.New("message").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("invalid applicant message template: %w", err)
	}
	return &Submitter{
		cfg:   cfg,
		tmpl:  tmpl,
		shots: utils.NewScreenShotDebugger(cfg.ScreenshotDir),
	}, nil
}

// Message renders the cover message for one offer.
func (s *Submitter) Message(record models.OfferRecord) (string, error) {
	var buf bytes.Buffer
	err := s.tmpl.Execute(&buf, messageData{
		Title:        record.Offer.Title,
		Organization: record.Offer.Organization,
		FullName:     s.cfg.Applicant.FullName(),
	})
	return buf.String(), err
}

func (s *Submitter) fields(message string) []formField {
	a := s.cfg.Applicant
	return []formField{
		{"lastName", a.LastName, []string{"input[data-testid='lastName']", "#lastName", "input[name='applicant_last_name']"}},
		{"firstName", a.FirstName, []string{"input[data-testid='firstName']", "#firstName", "input[name='applicant_first_name']"}},
		{"email", a.Email, []string{"input[data-testid='email']", "#email", "input[name='applicant_email']"}},
		{"phone", a.Phone, []string{"input[data-testid='phone']", "#phone", "input[name='applicant_phone']"}},
		{"message", message, []string{"textarea[data-testid='message']", "textarea[name='applicant_message']", "#message"}},
	}
}

// Eligible reports whether a record can be submitted at all.
func Eligible(record models.OfferRecord) bool {
	return record.IsJobOffer() && record.Offer.Link != "" && record.ApplicationStatus == models.StatusNotApplied
}

// Apply opens the offer in a new page of browserCtx and runs the form.
func (s *Submitter) Apply(ctx context.Context, browserCtx playwright.BrowserContext, record models.OfferRecord) (models.ApplicationStatus, error) {
	if !Eligible(record) {
		return models.StatusSkipped, nil
	}
	if err := ctx.Err(); err != nil {
		return models.StatusNotApplied, err
	}
	title := record.Offer.Title
	log.Printf("📝 Applying to: %s chez %s", title, record.Offer.Organization)

	page, err := browserCtx.NewPage()
	if err != nil {
		return models.StatusFailed, fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()

	if _, err := page.Goto(record.Offer.Link, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(45000),
	}); err != nil {
		return models.StatusFailed, fmt.Errorf("error navigating to %s: %w", record.Offer.Link, err)
	}
	utils.RandomDelay(1000, 2000)

	button := firstVisible(page, applyButtonSelectors)
	if button == nil {
		log.Printf("ℹ️ No application form on %s", record.Offer.Link)
		return models.StatusSkipped, nil
	}
	if err := button.Click(); err != nil {
		s.capture(page, "apply-button-"+title)
		return models.StatusFailed, fmt.Errorf("failed to open application form: %w", err)
	}

	message, err := s.Message(record)
	if err != nil {
		return models.StatusFailed, fmt.Errorf("failed to render message: %w", err)
	}
	filled := 0
	for _, f := range s.fields(message) {
		field := firstVisibleWait(page, f.Selectors, 10*time.Second)
		if field == nil {
			log.Printf("⚠️ Field %s not found", f.Name)
			continue
		}
		if err := field.Fill(f.Value); err != nil {
			log.Printf("⚠️ Failed to fill %s: %v", f.Name, err)
			continue
		}
		filled++
		utils.RandomDelay(200, 500)
	}
	if filled == 0 {
		s.capture(page, "apply-form-"+title)
		return models.StatusFailed, fmt.Errorf("application form has no fillable field")
	}
	log.Printf("✅ %d form fields filled", filled)

	if !s.cfg.AutoSubmit {
		log.Println("⏸️ auto_submit is off, form left unsent")
		return models.StatusSkipped, nil
	}

	send := firstVisible(page, sendButtonSelectors)
	if send == nil {
		s.capture(page, "apply-send-"+title)
		return models.StatusFailed, fmt.Errorf("send button not found")
	}
	if err := send.Click(); err != nil {
		s.capture(page, "apply-send-"+title)
		return models.StatusFailed, fmt.Errorf("failed to send application: %w", err)
	}

	confirm := page.Locator(confirmationSelector).First()
	if err := confirm.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(15000),
	}); err == nil {
		log.Printf("✅ Application sent: %s", title)
		return models.StatusApplied, nil
	}
	if visible, _ := page.Locator(errorSelector).First().IsVisible(); visible {
		msg, _ := page.Locator(errorSelector).First().InnerText()
		s.capture(page, "apply-error-"+title)
		return models.StatusFailed, fmt.Errorf("form rejected: %s", msg)
	}
	log.Printf("⚠️ Sent without confirmation message: %s", title)
	return models.StatusApplied, nil
}

func (s *Submitter) capture(page playwright.Page, name string) {
	_ = s.shots.CaptureAndLog(page, name, "🚨 Application step failed")
}

func firstVisible(page playwright.Page, selectors []string) playwright.Locator {
	for _, sel := range selectors {
		loc := page.Locator(sel).First()
		if visible, _ := loc.IsVisible(); visible {
			return loc
		}
	}
	return nil
}

func firstVisibleWait(page playwright.Page, selectors []string, timeout time.Duration) playwright.Locator {
	deadline := time.Now().Add(timeout)
	for {
		if loc := firstVisible(page, selectors); loc != nil {
			return loc
		}
		if time.Now().After(deadline) {
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}
}
