package research

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

//go:embed categories.yaml
var categoriesYAML []byte

// CategoryOther is assigned when no category keyword matches at all.
const CategoryOther = "Other Supply Chain Risk"

// Category is one entry of the risk taxonomy.
type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// DefaultCategories is the embedded ten-category taxonomy.
var DefaultCategories []Category

func init() {
	cats, err := LoadCategories(categoriesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded category table is invalid: %v", err))
	}
	DefaultCategories = cats
}

// LoadCategories parses a category table from YAML.
func LoadCategories(data []byte) ([]Category, error) {
	var doc struct {
		Categories []Category `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse category table: %w", err)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("category table is empty")
	}
	return doc.Categories, nil
}

// Classifier assigns taxonomy categories to free text by keyword matching.
type Classifier struct {
	categories []Category
}

// NewClassifier creates a classifier over the given table.
func NewClassifier(categories []Category) *Classifier {
	return &Classifier{categories: categories}
}

// Categories returns the table in its fixed order.
func (c *Classifier) Categories() []Category {
	return c.categories
}

// Classify returns the category whose keywords match text most often,
// case-insensitively. Ties resolve to the first listed category; no match
// at all yields CategoryOther.
func (c *Classifier) Classify(text string) string {
	lowered := strings.ToLower(text)

	best := ""
	highest := 0
	for _, cat := range c.categories {
		count := 0
		for _, keyword := range cat.Keywords {
			if strings.Contains(lowered, strings.ToLower(keyword)) {
				count++
			}
		}
		if count > highest {
			highest = count
			best = cat.Name
		}
	}

	if best == "" {
		return CategoryOther
	}
	return best
}
