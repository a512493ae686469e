package reporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-alternance-automation/internal/models"

	"github.com/google/uuid"
)

// Summary counts a session's records by category and application status.
type Summary struct {
	SessionID      uuid.UUID                        `json:"session_id"`
	Total          int                              `json:"total"`
	JobOffers      int                              `json:"job_offers"`
	TrainingOffers int                              `json:"training_offers"`
	Duplicates     int                              `json:"duplicates"`
	ByStatus       map[models.ApplicationStatus]int `json:"by_status"`
}

type report struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Summary     Summary              `json:"summary"`
	Records     []models.OfferRecord `json:"records"`
}

func Summarize(sessionID uuid.UUID, records []models.OfferRecord, duplicates int) Summary {
	s := Summary{
		SessionID:  sessionID,
		Total:      len(records),
		Duplicates: duplicates,
		ByStatus:   map[models.ApplicationStatus]int{},
	}
	for _, r := range records {
		if r.IsJobOffer() {
			s.JobOffers++
		} else {
			s.TrainingOffers++
		}
		status := r.ApplicationStatus
		if status == "" {
			status = models.StatusNotApplied
		}
		s.ByStatus[status]++
	}
	return s
}

func (s Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Session %s: %d offres (%d emplois, %d formations, %d doublons)",
		s.SessionID.String()[:8], s.Total, s.JobOffers, s.TrainingOffers, s.Duplicates)
	for _, status := range []models.ApplicationStatus{models.StatusApplied, models.StatusSkipped, models.StatusFailed} {
		if n := s.ByStatus[status]; n > 0 {
			fmt.Fprintf(&sb, ", %s: %d", status, n)
		}
	}
	return sb.String()
}

// SaveRecords writes offers-<date>-<session>.json into dir and returns its path.
func SaveRecords(dir string, summary Summary, records []models.OfferRecord, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	if records == nil {
		records = []models.OfferRecord{}
	}

	data, err := json.MarshalIndent(report{GeneratedAt: at, Summary: summary, Records: records}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	name := fmt.Sprintf("offers-%s-%s.json", at.Format("2006-01-02"), summary.SessionID.String()[:8])
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
