package challenge

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// seedDoc is the on-disk form of a challenge definition.
type seedDoc struct {
	Schema      string       `yaml:"schema"`
	Slug        string       `yaml:"slug"`
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Difficulty  string       `yaml:"difficulty"`
	Points      int          `yaml:"points"`
	Hints       []string     `yaml:"hints"`
	Constraints Constraints  `yaml:"constraints"`
	Metrics     []MetricSpec `yaml:"metrics"`
}

// LoadDir reads every .yaml/.yml file in dir as one challenge
// definition. Definitions are validated and slugs must be unique;
// results are ordered by slug.
func LoadDir(dir string) ([]Challenge, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read challenge dir: %w", err)
	}

	var challenges []Challenge
	seen := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		c, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[c.Slug]; dup {
			return nil, fmt.Errorf("%s: duplicate slug %q (already defined in %s)", path, c.Slug, prev)
		}
		seen[c.Slug] = entry.Name()
		challenges = append(challenges, c)
	}

	sort.Slice(challenges, func(i, j int) bool { return challenges[i].Slug < challenges[j].Slug })
	return challenges, nil
}

func loadFile(path string) (Challenge, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Challenge{}, fmt.Errorf("read %s: %w", path, err)
	}
	var doc seedDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Challenge{}, fmt.Errorf("parse %s: %w", path, err)
	}

	c := Challenge{
		Slug:        strings.TrimSpace(doc.Slug),
		Title:       strings.TrimSpace(doc.Title),
		Description: strings.TrimSpace(doc.Description),
		Difficulty:  strings.ToLower(strings.TrimSpace(doc.Difficulty)),
		Points:      doc.Points,
		Hints:       doc.Hints,
		Spec: Spec{
			Schema:      strings.TrimSpace(doc.Schema),
			Constraints: doc.Constraints,
			Metrics:     doc.Metrics,
		},
	}
	if c.Points == 0 {
		c.Points = 100
	}
	if err := c.Validate(); err != nil {
		return Challenge{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
