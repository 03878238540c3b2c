package model

import "time"

// Run is a persisted record of one analysis, kept for history and dashboards.
type Run struct {
	ID           string          `json:"id"`
	Fingerprint  Fingerprint     `json:"fingerprint"`
	Field        string          `json:"field"`
	BackendTier  Tier            `json:"backend_tier"`
	QualityScore float64         `json:"quality_score"`
	Result       *AnalysisResult `json:"result,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
