package backend

import (
	"regexp"
	"strings"

	"github.com/talentlens/resume-cli/internal/model"
)

// yearsPattern captures explicit "N years of experience" style mentions.
var yearsPattern = regexp.MustCompile(`(\d+)\s*\+?\s*(?:years?|yrs?)\s*(?:of\s*)?(?:experience|exp)?`)

// levelKeywords maps seniority signal phrases to experience levels.
var levelKeywords = map[model.ExperienceLevel][]string{
	model.LevelFresher: {"fresher", "recent graduate", "entry level", "internship", "no experience"},
	model.LevelJunior:  {"junior", "associate"},
	model.LevelMid:     {"mid level", "mid-level", "experienced"},
	model.LevelSenior:  {"senior", "lead", "manager"},
	model.LevelExpert:  {"architect", "principal", "director", "staff engineer"},
}

// DetectExperienceLevel derives a seniority hint from explicit year counts
// and keyword signals. Year counts win over keywords; among keywords, the
// highest signaled level wins.
func DetectExperienceLevel(text string) model.ExperienceLevel {
	lower := strings.ToLower(text)

	maxYears := 0
	for _, m := range yearsPattern.FindAllStringSubmatch(lower, -1) {
		years := 0
		for _, c := range m[1] {
			years = years*10 + int(c-'0')
		}
		if years > maxYears {
			maxYears = years
		}
	}

	if maxYears > 0 {
		switch {
		case maxYears <= 2:
			return model.LevelJunior
		case maxYears <= 4:
			return model.LevelMid
		case maxYears <= 8:
			return model.LevelSenior
		default:
			return model.LevelExpert
		}
	}

	best := model.LevelFresher
	found := false
	for level, words := range levelKeywords {
		for _, w := range words {
			if strings.Contains(lower, w) {
				if !found || level > best {
					best = level
				}
				found = true
			}
		}
	}
	return best
}

// sectionSignals maps canonical section names to the header phrases that
// indicate their presence.
var sectionSignals = map[string][]string{
	"contact":    {"email", "phone", "@", "linkedin"},
	"summary":    {"summary", "objective", "profile"},
	"experience": {"experience", "employment", "work history"},
	"education":  {"education", "degree", "university", "college"},
	"skills":     {"skills", "technologies", "tech stack"},
	"projects":   {"projects", "portfolio"},
}

// DetectSections reports which canonical resume sections appear in the text.
func DetectSections(text string) map[string]bool {
	lower := strings.ToLower(text)
	out := make(map[string]bool, len(sectionSignals))
	for name, signals := range sectionSignals {
		for _, sig := range signals {
			if strings.Contains(lower, sig) {
				out[name] = true
				break
			}
		}
	}
	return out
}

// containsTerm reports whether lowerText contains lowerTerm as a whole
// token, so "go" does not fire inside "golang" but "c++" still matches.
func containsTerm(lowerText, lowerTerm string) bool {
	idx := 0
	for {
		i := strings.Index(lowerText[idx:], lowerTerm)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(lowerTerm)
		if boundaryAt(lowerText, start-1) && boundaryAt(lowerText, end) {
			return true
		}
		idx = start + 1
	}
}

func boundaryAt(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	c := s[i]
	return !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9')
}

// countTerm counts whole-token occurrences of term in lowerText.
func countTerm(lowerText, lowerTerm string) int {
	count := 0
	idx := 0
	for {
		i := strings.Index(lowerText[idx:], lowerTerm)
		if i < 0 {
			return count
		}
		start := idx + i
		end := start + len(lowerTerm)
		if boundaryAt(lowerText, start-1) && boundaryAt(lowerText, end) {
			count++
		}
		idx = start + 1
	}
}
