package analyzer

import (
	"github.com/talentlens/resume-cli/internal/model"
	"github.com/talentlens/resume-cli/internal/taxonomy"
)

// salaryFallbackField supplies bands for fields the taxonomy carries no
// salary table for.
const salaryFallbackField = "web_development"

// salaryProjection benchmarks the field's salary bands at the detected
// experience level. Returns nil when neither the field nor the fallback has
// bands (custom taxonomies may omit them entirely).
func (a *Analyzer) salaryProjection(field string, def taxonomy.Field, level model.ExperienceLevel) *model.SalaryProjection {
	bands := def.Salary
	if len(bands) == 0 {
		if fb, err := a.tax.Lookup(salaryFallbackField); err == nil {
			bands = fb.Salary
		}
	}
	if len(bands) == 0 {
		return nil
	}

	band := salaryBand(level)
	return &model.SalaryProjection{
		Field:     field,
		Level:     level,
		Band:      band,
		Projected: bands[band],
		Bands:     bands,
	}
}

// salaryBand folds the five experience levels into the four salary bands;
// fresher and junior share the entry band.
func salaryBand(level model.ExperienceLevel) string {
	switch level {
	case model.LevelExpert:
		return "expert"
	case model.LevelSenior:
		return "senior"
	case model.LevelMid:
		return "mid"
	default:
		return "entry"
	}
}
