// Package taxonomy loads the versioned career-field taxonomy: per-field
// required skills, expected resume sections, and the skill vocabulary the
// extraction backends match against.
package taxonomy

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ErrFieldNotFound is returned when a requested career field is not in the
// taxonomy.
var ErrFieldNotFound = eris.New("taxonomy: field not found")

// Field describes what the taxonomy expects of a resume targeting a career
// field. Salary maps band name ("entry", "mid", "senior", "expert") to annual
// USD; fields without bands borrow another field's at projection time.
type Field struct {
	RequiredSkills []string       `yaml:"required_skills"`
	Sections       []string       `yaml:"sections"`
	Salary         map[string]int `yaml:"salary,omitempty"`
	CareerPaths    []string       `yaml:"career_paths,omitempty"`
}

// Taxonomy is the versioned mapping from career field to expectations, plus
// the categorized skill vocabulary. The version participates in every cache
// key, so edits must bump it.
type Taxonomy struct {
	Version    string              `yaml:"version"`
	Fields     map[string]Field    `yaml:"fields"`
	Vocabulary map[string][]string `yaml:"vocabulary"`
}

// Load reads a taxonomy from a YAML file. A missing path returns the built-in
// default taxonomy.
func Load(path string) (*Taxonomy, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "taxonomy: read %s", path)
	}

	var t Taxonomy
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, eris.Wrap(err, "taxonomy: parse")
	}
	if t.Version == "" {
		return nil, eris.New("taxonomy: missing version")
	}
	if len(t.Vocabulary) == 0 {
		t.Vocabulary = Default().Vocabulary
	}
	return &t, nil
}

// Lookup returns the field definition for a career field key.
func (t *Taxonomy) Lookup(field string) (Field, error) {
	f, ok := t.Fields[strings.ToLower(strings.TrimSpace(field))]
	if !ok {
		return Field{}, eris.Wrapf(ErrFieldNotFound, "field %q", field)
	}
	return f, nil
}

// AllSkills returns the flattened vocabulary across every category.
func (t *Taxonomy) AllSkills() []string {
	var out []string
	seen := make(map[string]bool)
	for _, cat := range vocabularyOrder {
		for _, s := range t.Vocabulary[cat] {
			key := strings.ToLower(s)
			if !seen[key] {
				seen[key] = true
				out = append(out, s)
			}
		}
	}
	// Categories not in the canonical order (custom taxonomies) come last.
	for cat, skills := range t.Vocabulary {
		if inOrder(cat) {
			continue
		}
		for _, s := range skills {
			key := strings.ToLower(s)
			if !seen[key] {
				seen[key] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// CategoryOf returns the vocabulary category containing the skill, or "".
func (t *Taxonomy) CategoryOf(skill string) string {
	lower := strings.ToLower(skill)
	for cat, skills := range t.Vocabulary {
		for _, s := range skills {
			if strings.ToLower(s) == lower {
				return cat
			}
		}
	}
	return ""
}

var vocabularyOrder = []string{
	"programming", "web_development", "data_science", "databases",
	"cloud", "mobile", "soft_skills",
}

func inOrder(cat string) bool {
	for _, c := range vocabularyOrder {
		if c == cat {
			return true
		}
	}
	return false
}

// Default returns the built-in taxonomy used when no file is configured.
func Default() *Taxonomy {
	return &Taxonomy{
		Version: "builtin-1",
		Vocabulary: map[string][]string{
			"programming": {
				"Python", "Java", "JavaScript", "C++", "C#", "Ruby", "Go",
				"Rust", "Swift", "Kotlin", "PHP", "Scala", "TypeScript",
			},
			"web_development": {
				"HTML", "CSS", "React", "Angular", "Vue", "Node.js",
				"Express", "Django", "Flask", "Spring",
			},
			"data_science": {
				"Machine Learning", "Deep Learning", "TensorFlow", "PyTorch",
				"Pandas", "NumPy", "scikit-learn", "NLP", "Statistics",
			},
			"databases": {
				"MySQL", "PostgreSQL", "MongoDB", "Redis", "Elasticsearch",
				"Cassandra", "Oracle", "SQLite", "SQL",
			},
			"cloud": {
				"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Terraform",
				"Ansible", "Jenkins",
			},
			"mobile": {
				"Android", "iOS", "React Native", "Flutter", "Xamarin",
			},
			"soft_skills": {
				"Leadership", "Communication", "Teamwork", "Problem Solving",
				"Project Management",
			},
		},
		Fields: map[string]Field{
			"software_development": {
				RequiredSkills: []string{"Python", "Java", "JavaScript", "Go", "SQL", "Docker", "Git"},
				Sections:       []string{"contact", "summary", "experience", "education", "skills", "projects"},
			},
			"web_development": {
				RequiredSkills: []string{"JavaScript", "React", "Node.js", "HTML", "CSS", "TypeScript"},
				Sections:       []string{"contact", "summary", "experience", "education", "skills", "projects"},
				Salary:         map[string]int{"entry": 65000, "mid": 85000, "senior": 115000, "expert": 160000},
				CareerPaths: []string{
					"Junior Developer > Developer > Senior Developer > Tech Lead",
					"Frontend Developer > Full Stack Developer > Engineering Manager",
					"Backend Developer > System Architect > CTO",
				},
			},
			"data_science": {
				RequiredSkills: []string{"Python", "Machine Learning", "Pandas", "NumPy", "SQL", "TensorFlow"},
				Sections:       []string{"contact", "summary", "experience", "education", "skills", "projects"},
				Salary:         map[string]int{"entry": 70000, "mid": 95000, "senior": 130000, "expert": 180000},
				CareerPaths: []string{
					"Data Analyst > Data Scientist > Senior Data Scientist > Principal Data Scientist",
					"Data Analyst > ML Engineer > Senior ML Engineer > ML Architect",
					"Data Scientist > Data Science Manager > Director of Data Science",
				},
			},
			"devops": {
				RequiredSkills: []string{"Docker", "Kubernetes", "AWS", "Terraform", "Jenkins", "Ansible"},
				Sections:       []string{"contact", "summary", "experience", "education", "skills"},
				Salary:         map[string]int{"entry": 75000, "mid": 100000, "senior": 140000, "expert": 190000},
			},
			"mobile_development": {
				RequiredSkills: []string{"Kotlin", "Swift", "React Native", "Flutter"},
				Sections:       []string{"contact", "summary", "experience", "education", "skills", "projects"},
				Salary:         map[string]int{"entry": 70000, "mid": 90000, "senior": 125000, "expert": 170000},
			},
		},
	}
}

// FieldForCategories infers the dominant career field from per-category skill
// counts, mirroring the product's primary-field heuristic. Returns "" when no
// category has any skills.
func FieldForCategories(counts map[string]int) string {
	mapping := map[string]string{
		"programming":     "software_development",
		"web_development": "web_development",
		"data_science":    "data_science",
		"cloud":           "devops",
		"mobile":          "mobile_development",
		"databases":       "software_development",
	}

	best, bestCount := "", 0
	for _, cat := range vocabularyOrder {
		if counts[cat] > bestCount {
			if f, ok := mapping[cat]; ok {
				best, bestCount = f, counts[cat]
			}
		}
	}
	return best
}
