package models

// Category is the label the classifier puts on a result card.
type Category string

const (
	CategoryJobOffer      Category = "JobOffer"
	CategoryTrainingOffer Category = "TrainingOffer"
)

type ApplicationStatus string

const (
	StatusNotApplied ApplicationStatus = "NotApplied"
	StatusApplied    ApplicationStatus = "Applied"
	StatusSkipped    ApplicationStatus = "Skipped"
	StatusFailed     ApplicationStatus = "Failed"
)

// RawCard is one result element as captured from the results widget.
type RawCard struct {
	Text        string `json:"text"`
	Link        string `json:"link,omitempty"`
	SourceIndex int    `json:"source_index"`
}

// NormalizedOffer is the line-role view of a RawCard. Title is never empty.
type NormalizedOffer struct {
	Title        string `json:"title"`
	Organization string `json:"organization"`
	Location     string `json:"location"`
	Link         string `json:"link"`
	RawText      string `json:"raw_text"`
	SourceIndex  int    `json:"source_index"`
}

type Signal struct {
	Name   string   `json:"name"`
	Weight float64  `json:"weight"`
	Target Category `json:"target"`
}

type ClassificationResult struct {
	Category       Category `json:"category"`
	JobScore       float64  `json:"job_score"`
	TrainingScore  float64  `json:"training_score"`
	MatchedSignals []Signal `json:"matched_signals"`
	DecisionReason string   `json:"decision_reason"`
}

type OfferRecord struct {
	Offer             NormalizedOffer      `json:"offer"`
	Classification    ClassificationResult `json:"classification"`
	ApplicationStatus ApplicationStatus    `json:"application_status"`
}

func (r OfferRecord) IsJobOffer() bool {
	return r.Classification.Category == CategoryJobOffer
}
