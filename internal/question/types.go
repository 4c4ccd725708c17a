package question

// Category classifies a question within the interview plan.
type Category string

const (
	CategoryIntroduction     Category = "introduction"
	CategoryTechnicalSkills  Category = "technical_skills"
	CategoryProjectsDeepDive Category = "projects_deep_dive"
	CategoryCertifications   Category = "certifications"
	CategoryBehavioral       Category = "behavioral"
	CategorySituational      Category = "situational"
	CategoryLeadership       Category = "leadership"
	CategoryProblemSolving   Category = "problem_solving"
	CategoryCommunication    Category = "communication"
	CategoryCareerGoals      Category = "career_goals"
)

// Origin records how a question came to be.
type Origin string

const (
	OriginFixed     Origin = "fixed"
	OriginGenerated Origin = "generated"
	OriginFallback  Origin = "fallback"
)

// Spec is a single question ready for delivery.
type Spec struct {
	Text     string
	Category Category
	Ordinal  int
	Origin   Origin
}

// Exchange is one completed question/answer pair from earlier in the interview.
type Exchange struct {
	Question Spec
	Answer   string
}

// Coverage is a read-only snapshot of what the interview has already touched,
// used to steer generation away from repetition.
type Coverage struct {
	SkillsDiscussed   []string
	ProjectsDiscussed []string
	TopicsCovered     []string
}
