package interview

import (
	"reflect"
	"testing"
)

func TestCoverage_UpdateIsCaseInsensitiveAndIdempotent(t *testing.T) {
	cov := newCoverageState()
	prof := testProfile()

	cov.update(prof, "Tell me about KUBERNETES.", "I deployed go services and mentored the team")
	cov.update(prof, "Tell me about KUBERNETES.", "I deployed go services and mentored the team")

	snap := cov.snapshot()
	if !reflect.DeepEqual(snap.SkillsDiscussed, []string{"Go", "Kubernetes"}) {
		t.Fatalf("skills = %v", snap.SkillsDiscussed)
	}
	if !contains(snap.TopicsCovered, "leadership") {
		t.Fatalf("topics = %v, want leadership via mentor keyword", snap.TopicsCovered)
	}
}

func TestCoverage_FallbackTextClaimsTarget(t *testing.T) {
	// a fallback question embeds its target verbatim, so the delivery-time
	// scan is what claims it
	cov := newCoverageState()
	prof := testProfile()

	cov.update(prof, "Tell me about your experience with PostgreSQL and how you've applied it in your projects.", "")
	snap := cov.snapshot()
	if !reflect.DeepEqual(snap.SkillsDiscussed, []string{"PostgreSQL"}) {
		t.Fatalf("skills = %v", snap.SkillsDiscussed)
	}

	cov.update(prof, "Can you walk me through your Billing Pipeline project and the challenges you faced?", "")
	snap = cov.snapshot()
	if !reflect.DeepEqual(snap.ProjectsDiscussed, []string{"Billing Pipeline"}) {
		t.Fatalf("projects = %v", snap.ProjectsDiscussed)
	}
}
