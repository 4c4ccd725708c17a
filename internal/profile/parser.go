package profile

import (
	"context"
	"fmt"
	"strings"
)

// Generator produces free-form text for a system+user prompt pair.
type Generator interface {
	GenerateJSON(ctx context.Context, system, prompt string, out interface{}) error
}

// Parser turns raw resume and job-description text into structured records.
type Parser struct {
	gen Generator
}

func NewParser(gen Generator) *Parser {
	return &Parser{gen: gen}
}

const parserSystem = "You are a precise information extraction engine. Return ONLY a JSON object, no commentary."

// ParseResume extracts a structured Profile from raw resume text.
func (p *Parser) ParseResume(ctx context.Context, resumeText string) (Profile, error) {
	var out Profile
	if strings.TrimSpace(resumeText) == "" {
		return out, fmt.Errorf("empty resume text")
	}
	prompt := fmt.Sprintf(`Analyze this resume and extract structured information as JSON:

%s

Return ONLY a JSON object with this exact structure:
{
  "name": "candidate name",
  "skills": ["technical skill 1", "technical skill 2"],
  "certifications": ["certification 1"],
  "projects": [{"name": "project name", "description": "brief description", "technologies": ["tech1"], "key_features": ["feature1"]}],
  "experience": [{"company": "company name", "role": "job title", "duration": "time period", "achievements": ["achievement1"]}],
  "education": [{"degree": "degree name", "institution": "school name", "year": "graduation year"}],
  "soft_skills": ["leadership", "teamwork"]
}`, resumeText)
	if err := p.gen.GenerateJSON(ctx, parserSystem, prompt, &out); err != nil {
		return Profile{}, fmt.Errorf("parse resume: %w", err)
	}
	return out, nil
}

// ParseJob extracts a structured JobContext from raw job-description text.
func (p *Parser) ParseJob(ctx context.Context, jobText string) (JobContext, error) {
	var out JobContext
	if strings.TrimSpace(jobText) == "" {
		return out, fmt.Errorf("empty job description")
	}
	prompt := fmt.Sprintf(`Analyze this job description and extract key requirements as JSON:

%s

Return ONLY a JSON object:
{
  "job_title": "job title",
  "required_skills": ["skill1", "skill2"],
  "preferred_skills": ["pref1"],
  "experience_level": "junior/mid/senior",
  "key_responsibilities": ["responsibility1"],
  "soft_skills_needed": ["teamwork"],
  "interview_focus_areas": ["area1"]
}`, jobText)
	if err := p.gen.GenerateJSON(ctx, parserSystem, prompt, &out); err != nil {
		return JobContext{}, fmt.Errorf("parse job description: %w", err)
	}
	return out, nil
}
