package interview

import (
	"sort"
	"strings"
	"sync"

	"github.com/girishnp17/Avaa-AI/internal/profile"
	"github.com/girishnp17/Avaa-AI/internal/question"
)

// topicKeywords maps general interview topics to trigger words scanned in
// question and answer text.
var topicKeywords = map[string][]string{
	"leadership":    {"lead", "manage", "team", "mentor"},
	"challenges":    {"challenge", "problem", "difficult", "issue"},
	"learning":      {"learn", "new", "study", "research"},
	"teamwork":      {"team", "collaborate", "work together"},
	"communication": {"explain", "present", "communicate", "document"},
}

// coverageState tracks which profile elements and topics the interview has
// already referenced. Sets only grow; updates are idempotent.
type coverageState struct {
	mu       sync.Mutex
	skills   map[string]string // lower -> original casing
	projects map[string]string
	topics   map[string]struct{}
}

func newCoverageState() *coverageState {
	return &coverageState{
		skills:   make(map[string]string),
		projects: make(map[string]string),
		topics:   make(map[string]struct{}),
	}
}

// update scans question+answer text for profile skill/project mentions
// (case-insensitive substring) and for the fixed topic keyword table.
func (c *coverageState) update(prof profile.Profile, questionText, answerText string) {
	text := strings.ToLower(questionText + " " + answerText)

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, skill := range prof.Skills {
		if skill == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(skill)) {
			c.skills[strings.ToLower(skill)] = skill
		}
	}
	for _, name := range prof.ProjectNames() {
		if strings.Contains(text, strings.ToLower(name)) {
			c.projects[strings.ToLower(name)] = name
		}
	}
	for topic, keywords := range topicKeywords {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				c.topics[topic] = struct{}{}
				break
			}
		}
	}
}

// snapshot returns sorted copies of the coverage sets.
func (c *coverageState) snapshot() question.Coverage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return question.Coverage{
		SkillsDiscussed:   sortedValues(c.skills),
		ProjectsDiscussed: sortedValues(c.projects),
		TopicsCovered:     sortedKeys(c.topics),
	}
}

func sortedValues(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
