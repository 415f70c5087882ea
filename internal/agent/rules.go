package agent

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RulesFileName is the per-project selection override file, looked up
// from the working directory upward.
const RulesFileName = ".cogent.yaml"

// rulesConfig represents the .cogent.yaml file structure. Rules listed
// there are merged in front of the built-in table, so overrides for an
// agent win over its defaults.
type rulesConfig struct {
	Selection struct {
		Rules []Rule `yaml:"rules"`
	} `yaml:"selection"`
}

// LoadRules reads selection rule overrides from a .cogent.yaml file and
// merges them with the built-in table.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg rulesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return MergeRules(cfg.Selection.Rules, DefaultRules()), nil
}

// MergeRules prepends overrides to the defaults, dropping default rules
// for agents an override already covers.
func MergeRules(overrides, defaults []Rule) []Rule {
	overridden := make(map[string]bool, len(overrides))
	merged := make([]Rule, 0, len(overrides)+len(defaults))
	for _, r := range overrides {
		if r.Agent == "" || len(r.Keywords) == 0 {
			continue
		}
		overridden[r.Agent] = true
		merged = append(merged, r)
	}
	for _, r := range defaults {
		if !overridden[r.Agent] {
			merged = append(merged, r)
		}
	}
	return merged
}

// FindRulesFile walks from dir to the filesystem root looking for a
// .cogent.yaml, returning the empty string when none exists.
func FindRulesFile(dir string) string {
	for {
		candidate := filepath.Join(dir, RulesFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
