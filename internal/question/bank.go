package question

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Starter is one of the canonical opening questions.
type Starter struct {
	Text     string   `yaml:"text"`
	Category Category `yaml:"category"`
}

// Bank holds the fixed starters and the canned fallback questions. It can be
// overridden from a yaml file; the compiled-in defaults match the shipped bank.
type Bank struct {
	Starters  []Starter `yaml:"starters"`
	Fallbacks []string  `yaml:"fallbacks"`
}

// DefaultBank returns the built-in question bank.
func DefaultBank() Bank {
	return Bank{
		Starters: []Starter{
			{Text: "Introduce yourself.", Category: CategoryIntroduction},
			{Text: "Why are you interested in this role and company?", Category: CategoryBehavioral},
			{Text: "What's your biggest weakness and how are you improving it?", Category: CategoryBehavioral},
		},
		Fallbacks: []string{
			"Describe a time when you had to work under pressure. How did you handle it?",
			"Tell me about a challenging technical problem you solved recently.",
			"How do you stay updated with new technologies in your field?",
			"Describe your approach to debugging complex issues.",
			"Tell me about a time you disagreed with a team member. How did you resolve it?",
			"What's your process for learning a new technology or framework?",
			"Describe a project where you had to work with unclear requirements.",
			"How do you ensure code quality in your projects?",
			"Tell me about a time you had to explain a technical concept to a non-technical person.",
			"What motivates you to work in this field?",
			"How do you approach testing your code?",
			"Describe a time when you had to optimize performance in an application.",
		},
	}
}

// LoadBank reads a yaml bank file, falling back to the defaults when the file
// is missing. A present-but-broken file is an error rather than a silent default.
func LoadBank(path string) (Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultBank(), nil
		}
		return Bank{}, fmt.Errorf("read question bank: %w", err)
	}
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return Bank{}, fmt.Errorf("parse question bank: %w", err)
	}
	if len(b.Starters) != 3 {
		return Bank{}, fmt.Errorf("question bank must define exactly 3 starters, got %d", len(b.Starters))
	}
	if len(b.Fallbacks) == 0 {
		b.Fallbacks = DefaultBank().Fallbacks
	}
	return b, nil
}
