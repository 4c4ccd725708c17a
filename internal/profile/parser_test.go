package profile

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// fakeGen unmarshals a fixed JSON blob into the parser's output.
type fakeGen struct {
	json string
	err  error
}

func (f fakeGen) GenerateJSON(ctx context.Context, system, prompt string, out interface{}) error {
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.json), out)
}

func TestParseResume(t *testing.T) {
	gen := fakeGen{json: `{
		"name": "Dana Smith",
		"skills": ["Go", "Kubernetes"],
		"projects": [{"name": "Billing Pipeline", "description": "events", "technologies": ["Go"]}],
		"experience": [{"company": "Acme", "role": "SRE", "duration": "2 years"}],
		"soft_skills": ["teamwork"]
	}`}
	p := NewParser(gen)

	prof, err := p.ParseResume(context.Background(), "Dana Smith, SRE at Acme...")
	if err != nil {
		t.Fatal(err)
	}
	if prof.Name != "Dana Smith" {
		t.Fatalf("name = %q", prof.Name)
	}
	if len(prof.Skills) != 2 || prof.Skills[0] != "Go" {
		t.Fatalf("skills = %v", prof.Skills)
	}
	if got := prof.ProjectNames(); len(got) != 1 || got[0] != "Billing Pipeline" {
		t.Fatalf("projects = %v", got)
	}
}

func TestParseResume_EmptyText(t *testing.T) {
	p := NewParser(fakeGen{json: "{}"})
	if _, err := p.ParseResume(context.Background(), "   \n"); err == nil {
		t.Fatal("expected error for empty resume")
	}
}

func TestParseResume_GenerationError(t *testing.T) {
	p := NewParser(fakeGen{err: errors.New("model unavailable")})
	_, err := p.ParseResume(context.Background(), "some resume")
	if err == nil || !strings.Contains(err.Error(), "parse resume") {
		t.Fatalf("err = %v", err)
	}
}

func TestParseJob(t *testing.T) {
	gen := fakeGen{json: `{
		"job_title": "Backend Engineer",
		"required_skills": ["Go", "PostgreSQL"],
		"experience_level": "senior",
		"interview_focus_areas": ["reliability"]
	}`}
	p := NewParser(gen)

	job, err := p.ParseJob(context.Background(), "We need a backend engineer...")
	if err != nil {
		t.Fatal(err)
	}
	if job.Title != "Backend Engineer" {
		t.Fatalf("title = %q", job.Title)
	}
	if len(job.RequiredSkills) != 2 {
		t.Fatalf("required skills = %v", job.RequiredSkills)
	}
	if job.ExperienceLevel != "senior" {
		t.Fatalf("experience level = %q", job.ExperienceLevel)
	}
}

func TestParseJob_EmptyText(t *testing.T) {
	p := NewParser(fakeGen{json: "{}"})
	if _, err := p.ParseJob(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty job description")
	}
}
