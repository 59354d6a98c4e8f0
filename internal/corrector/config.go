package corrector

import "fmt"

// SpellingResult summarizes a batch evaluation run.
type SpellingResult struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

func (r SpellingResult) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

func (r SpellingResult) String() string {
	return fmt.Sprintf("Correct: %d, Total: %d, Accuracy: %.4f%%", r.Correct, r.Total, r.Accuracy()*100)
}

// CorrectionResult is the wire form returned by the HTTP handlers.
type CorrectionResult struct {
	Original  []string `json:"original"`
	Corrected []string `json:"corrected"`
	Position  int      `json:"position"`
	Changed   bool     `json:"changed"`
}
