// Package keywords extracts finishing-process and OEM-brand evidence from
// free text across the languages of the markets we sell into. All patterns
// for a table are compiled into a single Aho-Corasick automaton so every
// downstream scorer pays one O(n) pass per text.
package keywords

import (
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Table holds the configurable keyword vocabulary: per-language finishing
// terms plus the two-tier OEM brand list.
type Table struct {
	Languages map[string][]string `yaml:"languages"`
	OEMTier1  []string            `yaml:"oem_tier1"`
	OEMTier2  []string            `yaml:"oem_tier2"`
}

// DefaultTable returns the compiled-in vocabulary. Load falls back to it when
// no table file is configured or the file is unreadable; the extractor must
// never run with zero capability.
func DefaultTable() *Table {
	return &Table{
		Languages: map[string][]string{
			"en": {
				"stenter", "tenter frame", "heat setting", "heat-setting",
				"dyeing", "dye house", "dyehouse", "fabric finishing",
				"mercerizing", "sanforizing", "singeing", "continuous dyeing",
				"textile printing", "fabric coating", "calendering",
			},
			"tr": {
				"ramöz", "ramoz", "ram makinesi", "fikse", "terbiye",
				"boyahane", "boya tesisi", "apre", "şardon", "sanfor",
				"kasar", "emprime", "kumaş boyama",
			},
			"pt": {
				"rama têxtil", "tinturaria", "acabamento têxtil", "estamparia",
				"beneficiamento", "termofixação", "alvejamento", "mercerização",
			},
			"es": {
				"rama textil", "tintorería", "acabado textil", "estampado",
				"termofijado", "mercerizado", "blanqueo textil",
			},
			"fr": {
				"rame textile", "teinture", "finissage", "apprêt",
				"thermofixation", "ennoblissement", "blanchiment textile",
			},
			"vi": {
				"máy văng sấy", "nhuộm vải", "hoàn tất vải",
				"định hình nhiệt", "xưởng nhuộm",
			},
			"ru": {
				"стентер", "ширильная машина", "красильня",
				"отделка ткани", "термофиксация", "красильный цех",
			},
		},
		OEMTier1: []string{
			"monforts", "brückner", "bruckner", "babcock", "krantz",
			"artos", "famatex", "montex", "wumag",
		},
		OEMTier2: []string{
			"santex", "ilsung", "unitech texmaco", "harish", "yamuna",
			"tube-tex", "tubetex", "motex", "elitex", "textima", "mersan",
		},
	}
}

// Load reads a keyword table from a YAML file. A missing or unreadable file
// degrades to DefaultTable with a warning rather than aborting the run.
func Load(path string) *Table {
	if path == "" {
		return DefaultTable()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		zap.L().Warn("keywords: table file unreadable, using built-in defaults",
			zap.String("path", path), zap.Error(err))
		return DefaultTable()
	}

	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		zap.L().Warn("keywords: table file invalid, using built-in defaults",
			zap.String("path", path), zap.Error(err))
		return DefaultTable()
	}

	if len(t.Languages) == 0 {
		zap.L().Warn("keywords: table file has no languages, using built-in defaults",
			zap.String("path", path))
		return DefaultTable()
	}

	return &t
}

// Validate checks a table for empty pattern lists. Used by config loading to
// surface misconfiguration early.
func (t *Table) Validate() error {
	if len(t.Languages) == 0 {
		return eris.New("keywords: table has no languages")
	}
	for lang, terms := range t.Languages {
		if len(terms) == 0 {
			return eris.Errorf("keywords: language %q has no terms", lang)
		}
	}
	return nil
}
