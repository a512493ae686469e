// Package normalizer assigns roles (title, organization, location) to the
// lines of a scraped result card.
package normalizer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go-alternance-automation/internal/models"
)

// UntitledOffer is used when a card carries no readable line at all.
const UntitledOffer = "Titre non disponible"

const maxTitleLength = 80

var (
	postalCodeRegex = regexp.MustCompile(`\b\d{5}\b`)
	distanceRegex   = regexp.MustCompile(`(?i)(?:^|[^\p{L}])km(?:$|[^\p{L}])`)
	cityRegex       = regexp.MustCompile(`\b(Paris|Lyon|Marseille|Toulouse|Nice|Nantes|Strasbourg|Montpellier|Bordeaux|Lille|Rennes)\b`)
	dateLikeRegex   = regexp.MustCompile(`^[\d\s/.:,+\-]+$`)
)

// Normalize turns one raw card into a NormalizedOffer. It never fails.
func Normalize(raw models.RawCard, baseURL string) models.NormalizedOffer {
	lines := Lines(raw.Text)

	offer := models.NormalizedOffer{
		RawText:     raw.Text,
		SourceIndex: raw.SourceIndex,
		Link:        ResolveLink(raw.Link, baseURL),
	}

	titleIdx := titleIndex(lines)
	if titleIdx < 0 {
		offer.Title = UntitledOffer
		return offer
	}
	offer.Title = lines[titleIdx]

	//organization: first line after the title that is not a location
	for _, line := range lines[titleIdx+1:] {
		if IsLocation(line) {
			continue
		}
		if utf8.RuneCountInString(line) > 3 {
			offer.Organization = line
			break
		}
	}

	//location: first matching line, title included
	for _, line := range lines {
		if IsLocation(line) {
			offer.Location = line
			break
		}
	}

	return offer
}

// Lines splits text into trimmed, non-blank lines with inner whitespace
// collapsed, preserving order.
func Lines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// IsLocation reports whether a line looks like a place: a postal code, a
// distance in km or a known city.
func IsLocation(line string) bool {
	return postalCodeRegex.MatchString(line) ||
		distanceRegex.MatchString(line) ||
		cityRegex.MatchString(line)
}

// ResolveLink makes a root-relative href absolute against baseURL.
func ResolveLink(link, baseURL string) string {
	link = strings.TrimSpace(link)
	switch {
	case link == "":
		return ""
	case strings.HasPrefix(link, "//"):
		scheme := "https:"
		if i := strings.Index(baseURL, "//"); i > 0 {
			scheme = baseURL[:i]
		}
		return scheme + link
	case strings.HasPrefix(link, "/"):
		return strings.TrimRight(baseURL, "/") + link
	default:
		return link
	}
}

func titleIndex(lines []string) int {
	if len(lines) == 0 {
		return -1
	}
	for i, line := range lines {
		if utf8.RuneCountInString(line) < maxTitleLength && !dateLikeRegex.MatchString(line) {
			return i
		}
	}
	return 0
}
