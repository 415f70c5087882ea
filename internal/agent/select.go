package agent

import "strings"

// Rule binds one agent to the keyword family that triggers it.
type Rule struct {
	Agent    string   `yaml:"agent"`
	Keywords []string `yaml:"keywords"`
}

// DefaultRules is the built-in keyword table, in selection order.
// Coordinator is absent on purpose: it is appended structurally, not
// matched by keywords.
func DefaultRules() []Rule {
	return []Rule{
		{Agent: Planner, Keywords: []string{"plan", "planning", "organize", "strategy"}},
		{Agent: Research, Keywords: []string{"research", "find", "gather", "search"}},
		{Agent: Analysis, Keywords: []string{"analysis", "analyze", "data", "trend", "pattern"}},
		{Agent: Creator, Keywords: []string{"create", "generate", "build", "chart", "report"}},
	}
}

// plannerWordThreshold: descriptions longer than this many words get the
// planner even without a keyword match.
const plannerWordThreshold = 10

// minSelected is the guaranteed lower bound on the selected set size.
const minSelected = 2

// Selector picks an ordered agent list for a task description.
type Selector struct {
	rules []Rule
}

// NewSelector creates a selector. A nil or empty rule list falls back
// to the built-in table.
func NewSelector(rules []Rule) *Selector {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Selector{rules: rules}
}

// Select returns the ordered agent names for a description. Only agents
// present in the registry are eligible. Guarantees: the result has at
// least two agents, and a coordinator is appended last whenever more
// than one other agent was selected.
func (s *Selector) Select(description string, reg *Registry) []string {
	lower := strings.ToLower(description)

	var selected []string
	picked := make(map[string]bool)
	add := func(name string) {
		if name == "" || picked[name] || !reg.Has(name) {
			return
		}
		picked[name] = true
		selected = append(selected, name)
	}

	for _, rule := range s.rules {
		for _, kw := range rule.Keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				add(rule.Agent)
				break
			}
		}
	}

	// Long descriptions benefit from an explicit planning step.
	if len(strings.Fields(description)) > plannerWordThreshold {
		addFront := !picked[Planner] && reg.Has(Planner)
		if addFront {
			picked[Planner] = true
			selected = append([]string{Planner}, selected...)
		}
	}

	for _, fallback := range []string{Research, Analysis} {
		if len(selected) >= minSelected {
			break
		}
		add(fallback)
	}

	if len(selected) > 1 {
		add(Coordinator)
	}
	return selected
}
