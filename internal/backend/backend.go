// Package backend implements the capability registry and the interchangeable
// extraction and similarity backends behind the analysis pipeline. Backends
// are probed once at startup, ranked by tier, and tried high-to-low with
// per-call failure containment.
package backend

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/talentlens/resume-cli/internal/model"
)

// errDisabled marks a backend switched off by configuration; its probe fails
// so the registry records it unavailable.
var errDisabled = eris.New("backend: disabled by configuration")

// Kind names a backend capability.
type Kind string

const (
	KindExtraction Kind = "extraction"
	KindSimilarity Kind = "similarity"
)

// Extractor pulls skills, an experience-level hint, and section completeness
// out of plain resume text. Implementations are stateless aside from loaded
// resources and must be safe for concurrent use.
type Extractor interface {
	Name() string
	Tier() model.Tier
	// Probe performs a lightweight availability check. It must respect ctx
	// deadlines; an error marks the backend unavailable, never fatal.
	Probe(ctx context.Context) error
	Extract(ctx context.Context, text string) (*model.Extraction, error)
}

// Similarity scores how close two texts are in [0,1]. The meaning of the
// score depends on the tier (embedding cosine vs token overlap), so results
// must stay tagged with the producing tier.
type Similarity interface {
	Name() string
	Tier() model.Tier
	Probe(ctx context.Context) error
	Compare(ctx context.Context, a, b string) (float64, error)
}

// Descriptor records the probed state of one backend.
type Descriptor struct {
	Name      string     `json:"name"`
	Kind      Kind       `json:"kind"`
	Tier      model.Tier `json:"tier"`
	Available bool       `json:"available"`
	ProbeErr  string     `json:"probe_error,omitempty"`
}
