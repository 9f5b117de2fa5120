package content

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/greenlightd/greenlight/internal/model"
	"github.com/greenlightd/greenlight/internal/policy"
)

const (
	// minContentLength is the floor below which a reply is treated as
	// effectively empty.
	minContentLength = 10

	// lowToneThreshold flags a tone mismatch as an issue.
	lowToneThreshold = 0.3

	// lowProfThreshold flags missing professionalism markers for
	// professional and friendly tones.
	lowProfThreshold = 0.2
)

// Scorer performs lexical scoring of natural-language artifacts against a
// tone and safety policy. Pure: no side effects, deterministic.
type Scorer struct{}

// NewScorer creates a Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score checks a text artifact against the universal forbidden set, the
// policy's forbidden phrases, length bounds, and tone/professionalism
// indicators. Both scores are always within [0,1].
func (s *Scorer) Score(text string, pol policy.RiskPolicy) model.ContentReport {
	var issues []string
	lower := strings.ToLower(text)

	for _, phrase := range universalForbidden {
		if strings.Contains(lower, phrase) {
			issues = append(issues, fmt.Sprintf("forbidden phrase detected: %q", phrase))
		}
	}

	for _, phrase := range pol.ForbiddenPhrases {
		if phrase == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(phrase)) {
			issues = append(issues, fmt.Sprintf("policy-forbidden phrase: %q", phrase))
		}
	}

	// Length bounds count characters, not bytes, so multibyte content is
	// measured the same as ASCII.
	length := utf8.RuneCountInString(text)
	if pol.MaxContentLength > 0 && length > pol.MaxContentLength {
		issues = append(issues, fmt.Sprintf("response too long: %d > %d", length, pol.MaxContentLength))
	}
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minContentLength {
		issues = append(issues, "response too short or empty")
	}

	toneScore := toneScore(lower, pol.RequiredTone)
	profScore := professionalismScore(lower)

	if toneScore < lowToneThreshold {
		issues = append(issues, fmt.Sprintf("tone mismatch: expected %q", pol.RequiredTone))
	}
	if (pol.RequiredTone == model.ToneProfessional || pol.RequiredTone == model.ToneFriendly) && profScore < lowProfThreshold {
		issues = append(issues, "response lacks professionalism markers")
	}

	return model.ContentReport{
		Passed:               len(issues) == 0,
		Issues:               issues,
		ToneScore:            toneScore,
		ProfessionalismScore: profScore,
	}
}

// toneScore counts indicator matches for the required tone and normalizes
// against a floor of 3 so short indicator lists do not inflate the score.
func toneScore(lower string, tone model.Tone) float64 {
	indicators := professionalIndicators
	if tone == model.ToneFriendly || tone == model.ToneCasual {
		indicators = friendlyIndicators
	}

	matches := 0
	for _, ind := range indicators {
		if strings.Contains(lower, ind) {
			matches++
		}
	}

	denom := float64(len(indicators)) * 0.3
	if denom < 3 {
		denom = 3
	}
	score := float64(matches) / denom
	return clamp01(score)
}

// professionalismScore starts at 0.5, adds 0.2 per professional indicator
// and subtracts 0.3 per informal marker, clipped to [0,1].
func professionalismScore(lower string) float64 {
	positive := 0
	for _, ind := range professionalIndicators {
		if strings.Contains(lower, ind) {
			positive++
		}
	}
	negative := 0
	for _, w := range informalMarkers {
		if strings.Contains(lower, w) {
			negative++
		}
	}
	return clamp01(0.5 + float64(positive)*0.2 - float64(negative)*0.3)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
