package interview

import (
	"time"

	"github.com/girishnp17/Avaa-AI/internal/question"
)

// Phase is the externally visible state of the session driver for the
// in-flight question. Preparation and transcription run concurrently in the
// background; Phase tracks what the driver is waiting on.
type Phase int

const (
	PhaseCreated Phase = iota
	PhasePreparing
	PhaseAwaitingAnswer
	PhaseTranscribing
	PhaseReporting
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseCreated:
		return "created"
	case PhasePreparing:
		return "preparing"
	case PhaseAwaitingAnswer:
		return "awaiting_answer"
	case PhaseTranscribing:
		return "transcribing"
	case PhaseReporting:
		return "reporting"
	case PhaseEnded:
		return "ended"
	}
	return "unknown"
}

// PreparedQuestion is a question staged ahead of its turn, with optional
// synthesized audio. Consumed exactly once.
type PreparedQuestion struct {
	question.Spec
	Audio []byte
}

// HasAudio reports whether synthesis produced audio for this question.
func (p PreparedQuestion) HasAudio() bool { return len(p.Audio) > 0 }

// Answer is one transcribed (or placeholder) answer.
type Answer struct {
	Ordinal   int       `json:"question_number"`
	Question  string    `json:"question"`
	Text      string    `json:"answer"`
	Failed    bool      `json:"failed,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Status is a point-in-time snapshot of session progress.
type Status struct {
	SessionID         string   `json:"session_id"`
	Phase             string   `json:"phase"`
	Asked             int      `json:"questions_asked"`
	Total             int      `json:"total_questions"`
	ProgressPercent   float64  `json:"progress_percent"`
	SkillsDiscussed   []string `json:"skills_discussed"`
	ProjectsDiscussed []string `json:"projects_discussed"`
	TopicsCovered     []string `json:"topics_covered"`
	Complete          bool     `json:"is_complete"`
}

// Report is the final evaluation produced from the transcript.
type Report struct {
	OverallScore        int      `json:"overall_score"`
	Selected            bool     `json:"selected"`
	SelectionReason     string   `json:"selection_reason"`
	Strengths           []string `json:"strengths"`
	ImprovementAreas    []string `json:"improvement_areas"`
	Recommendations     []string `json:"recommendations"`
	TechnicalCompetency string   `json:"technical_competency"`
	CommunicationSkills string   `json:"communication_skills"`
	ProblemSolving      string   `json:"problem_solving"`
	CulturalFit         string   `json:"cultural_fit"`
	Summary             string   `json:"summary"`
}

// Result is everything produced by finishing an interview.
type Result struct {
	Report       Report   `json:"report"`
	Transcript   string   `json:"transcript"`
	ArtifactPath string   `json:"artifact_path,omitempty"`
	History      []Answer `json:"qa_history"`
}
