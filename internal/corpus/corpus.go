// Package corpus loads the ESRS regulatory reference documents and exposes
// the regulatory context used to ground each section analysis.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/marion/csrd-analyzer/internal/types"
)

// Category identifies one bucket of regulatory documents.
type Category string

// Document categories, derived from the ESRS file naming convention.
const (
	CategoryEnvironmental  Category = "environmental"   // ESRS E1-E5
	CategorySocial         Category = "social"          // ESRS S1-S4
	CategoryGovernance     Category = "governance"      // ESRS G1
	CategoryCrossCutting   Category = "cross_cutting"   // ESRS 1-2
	CategoryAnnexes        Category = "annexes"         // supporting annexes
	CategoryClarifications Category = "clarifications"  // Q&A and published clarifications
)

// separator joins documents when building a regulatory context string.
const separator = "\n\n---\n\n"

// Reserved base names routed to the clarifications bucket. The published
// Q&A file carries an accented name; the ASCII spelling is accepted too.
var clarificationNames = map[string]bool{
	"Questions_réponses": true,
	"Questions_reponses": true,
	"precisions_esrs":    true,
}

// Categories returns all document categories in a fixed order.
func Categories() []Category {
	return []Category{
		CategoryEnvironmental,
		CategorySocial,
		CategoryGovernance,
		CategoryCrossCutting,
		CategoryAnnexes,
		CategoryClarifications,
	}
}

// Corpus is the loaded set of regulatory documents, bucketed by category.
// It is read-only after Load and safe to share across concurrent analyses.
type Corpus struct {
	docs map[Category]map[string]string
}

// LoadWarning records one document that could not be read during Load.
type LoadWarning struct {
	Path  string
	Cause error
}

func (w LoadWarning) String() string {
	return fmt.Sprintf("skipped regulatory document %s: %v", w.Path, w.Cause)
}

// Load scans root for *.txt regulatory documents and buckets each by its
// base-name prefix. A missing root directory yields an empty corpus with
// every category present, not an error; unreadable files are skipped and
// reported as warnings. Files whose names match no rule are dropped.
func Load(root string) (*Corpus, []LoadWarning) {
	c := empty()

	entries, err := os.ReadDir(root)
	if err != nil {
		// Absent or unreadable directory degrades to an empty corpus.
		return c, nil
	}

	var warnings []LoadWarning
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}

		stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		category, ok := Classify(stem)
		if !ok {
			continue
		}

		path := filepath.Join(root, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			warnings = append(warnings, LoadWarning{Path: path, Cause: err})
			continue
		}

		c.docs[category][stem] = string(content)
	}

	return c, warnings
}

// Classify maps a document base name to its category. The prefix rules are
// ordered: topical standards first, then cross-cutting standards (ESRS
// followed by a digit), then annexes and the reserved clarification names.
func Classify(stem string) (Category, bool) {
	switch {
	case strings.HasPrefix(stem, "ESRS_E"):
		return CategoryEnvironmental, true
	case strings.HasPrefix(stem, "ESRS_S"):
		return CategorySocial, true
	case strings.HasPrefix(stem, "ESRS_G"):
		return CategoryGovernance, true
	case len(stem) > 4 && strings.HasPrefix(stem, "ESRS") && stem[4] >= '0' && stem[4] <= '9':
		return CategoryCrossCutting, true
	case strings.HasPrefix(stem, "ANNEXE"):
		return CategoryAnnexes, true
	case clarificationNames[stem]:
		return CategoryClarifications, true
	}
	return "", false
}

// Context builds the regulatory context string for a section: cross-cutting
// documents first (main sections only), then the section's own documents,
// then all clarifications. Document order within a category is sorted by
// name so repeated calls yield byte-identical output. A nil corpus yields
// an empty string.
func (c *Corpus) Context(section types.Section) string {
	if c == nil {
		return ""
	}

	var parts []string
	if section.IsMain() {
		parts = append(parts, c.sortedContents(CategoryCrossCutting)...)
	}
	parts = append(parts, c.sortedContents(sectionCategory(section))...)
	parts = append(parts, c.sortedContents(CategoryClarifications)...)

	return strings.Join(parts, separator)
}

// DocumentNames returns the sorted document names in a category.
func (c *Corpus) DocumentNames(category Category) []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.docs[category]))
	for name := range c.docs[category] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the total number of loaded documents.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, bucket := range c.docs {
		total += len(bucket)
	}
	return total
}

func (c *Corpus) sortedContents(category Category) []string {
	names := c.DocumentNames(category)
	contents := make([]string, 0, len(names))
	for _, name := range names {
		contents = append(contents, c.docs[category][name])
	}
	return contents
}

func sectionCategory(section types.Section) Category {
	switch section {
	case types.SectionEnvironmental:
		return CategoryEnvironmental
	case types.SectionSocial:
		return CategorySocial
	case types.SectionGovernance:
		return CategoryGovernance
	}
	return Category(section)
}

func empty() *Corpus {
	c := &Corpus{docs: make(map[Category]map[string]string, len(Categories()))}
	for _, category := range Categories() {
		c.docs[category] = make(map[string]string)
	}
	return c
}
