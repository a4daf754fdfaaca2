package models

type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// Metric is one overview card. Trend and Progress are omitted when there is
// nothing to compare against.
type Metric struct {
	Title    string  `json:"title"`
	Value    string  `json:"value"`
	Change   float64 `json:"change"`
	Trend    *Trend  `json:"trend,omitempty"`
	Progress *int    `json:"progress,omitempty"`
}
