package stage

import (
	"strings"
	"unicode"
)

// Confidence curve: a single generic keyword is weak evidence, but
// corroborating signals compound quickly and saturate at 1.0.
const (
	confidenceBase    = 0.3
	confidencePerHit  = 0.4
	minMeaningfulText = 3
)

// Detection is one stage inference from a single message.
type Detection struct {
	Stage      string  `json:"stage"`
	Confidence float64 `json:"confidence"`
}

// Detect scans message text for each configured stage's keywords and
// returns every stage with at least one hit, in pipeline order. A message
// may evidence several stages at once; no mutual exclusivity is assumed.
//
// Near-empty text (under 3 non-whitespace characters) yields no detections;
// filler messages are not evidence of anything.
func (p *Pipeline) Detect(text string) []Detection {
	if countNonSpace(text) < minMeaningfulText {
		return nil
	}
	lower := strings.ToLower(text)

	var detections []Detection
	for _, s := range p.Stages {
		hits := 0
		seen := make(map[string]bool)
		for _, kw := range s.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" || seen[kw] {
				continue
			}
			seen[kw] = true
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		confidence := confidenceBase + confidencePerHit*float64(hits)
		if confidence > 1.0 {
			confidence = 1.0
		}
		detections = append(detections, Detection{Stage: s.Name, Confidence: confidence})
	}
	return detections
}

func countNonSpace(text string) int {
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
