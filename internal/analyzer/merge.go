package analyzer

import (
	"github.com/talentlens/resume-cli/internal/model"
)

// mergeExtractions folds multiple backend outputs into one canonical
// extraction. Skills merge by name keeping the maximum confidence (and the
// tier that produced it); the experience level comes from the highest-tier
// backend, with equal-tier ties resolved by majority vote and unresolved
// ties falling back to the more conservative level; sections use OR
// semantics. Deterministic and idempotent: merging an extraction with
// itself changes nothing.
func mergeExtractions(extractions []model.Extraction) model.Extraction {
	if len(extractions) == 0 {
		return model.Extraction{Sections: map[string]bool{}}
	}
	if len(extractions) == 1 {
		return normalizeExtraction(extractions[0])
	}

	merged := model.Extraction{
		Sections: make(map[string]bool),
	}

	byName := make(map[string]model.ExtractedSkill)
	for _, ex := range extractions {
		for _, s := range ex.Skills {
			prev, ok := byName[s.Name]
			if !ok || s.Confidence > prev.Confidence {
				byName[s.Name] = s
			}
		}
		for name, present := range ex.Sections {
			if present {
				merged.Sections[name] = true
			}
		}
		if ex.Tier > merged.Tier {
			merged.Tier = ex.Tier
		}
	}

	merged.Skills = make([]model.ExtractedSkill, 0, len(byName))
	for _, s := range byName {
		merged.Skills = append(merged.Skills, s)
	}
	model.SortSkills(merged.Skills)

	merged.Level = mergeLevels(extractions)
	return merged
}

// mergeLevels resolves the experience level across backends. The highest
// tier with any hint wins; within that tier a majority vote decides, and a
// tied vote takes the lowest level.
func mergeLevels(extractions []model.Extraction) model.ExperienceLevel {
	topTier := model.TierLow
	hasAny := false
	for _, ex := range extractions {
		if !hasAny || ex.Tier > topTier {
			topTier = ex.Tier
			hasAny = true
		}
	}
	if !hasAny {
		return model.LevelFresher
	}

	votes := make(map[model.ExperienceLevel]int)
	for _, ex := range extractions {
		if ex.Tier == topTier {
			votes[ex.Level]++
		}
	}

	best := model.LevelExpert
	bestCount := 0
	for level, count := range votes {
		if count > bestCount || (count == bestCount && level < best) {
			best = level
			bestCount = count
		}
	}
	return best
}

// normalizeExtraction dedupes skills by name and sorts them so single-backend
// results pass through the same canonical shape as merged ones.
func normalizeExtraction(ex model.Extraction) model.Extraction {
	byName := make(map[string]model.ExtractedSkill, len(ex.Skills))
	for _, s := range ex.Skills {
		prev, ok := byName[s.Name]
		if !ok || s.Confidence > prev.Confidence {
			byName[s.Name] = s
		}
	}

	out := model.Extraction{
		Level:    ex.Level,
		Tier:     ex.Tier,
		Sections: make(map[string]bool, len(ex.Sections)),
	}
	for name, present := range ex.Sections {
		if present {
			out.Sections[name] = true
		}
	}
	out.Skills = make([]model.ExtractedSkill, 0, len(byName))
	for _, s := range byName {
		out.Skills = append(out.Skills, s)
	}
	model.SortSkills(out.Skills)
	return out
}
