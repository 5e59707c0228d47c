package entity

// QuestionsInput drives mock interview question generation.
type QuestionsInput struct {
	MockType        string   `json:"mockType" validate:"required"`
	RoleOrSubject   string   `json:"roleOrSubject" validate:"required"`
	Topics          []string `json:"subjectsOrTopics" validate:"required,min=1,dive,required"`
	Companies       []string `json:"companies"`
	DurationMinutes int      `json:"duration" validate:"gte=2,lte=600"`
}

type QuizInput struct {
	Topic        string `json:"topic" validate:"required"`
	NumQuestions int    `json:"numQuestions" validate:"omitempty,gte=1,lte=50"`
	Difficulty   string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Language     string `json:"language"`
}

type FollowUpInput struct {
	LastQuestion string `json:"lastQuestion" validate:"required,min=5"`
	UserAnswer   string `json:"userAnswer" validate:"required,min=5"`
}

type FeedbackInput struct {
	Question string `json:"question" validate:"required,min=5,max=500"`
	Answer   string `json:"answer" validate:"required,min=5,max=5000"`
	JobRole  string `json:"jobRole" validate:"required,min=2,max=120"`
}

type StudyPlanInput struct {
	Goal          string  `json:"goal" validate:"required"`
	SkillLevel    string  `json:"skillLevel" validate:"required"`
	HoursPerDay   float64 `json:"hoursPerDay" validate:"gt=0,lte=24"`
	DaysPerWeek   int     `json:"daysPerWeek" validate:"gte=1,lte=7"`
	DurationWeeks int     `json:"totalDurationWeeks" validate:"gte=1,lte=104"`
}

// ResumeFormat selects structured (json) or printable (text) resume output.
type ResumeFormat string

const (
	ResumeFormatJSON ResumeFormat = "json"
	ResumeFormatText ResumeFormat = "text"
)

// ResumeInput carries either a plain-text resume or an already structured
// one. PersonalInfo is only read for structured resumes; for plain text it
// is extracted from the text itself.
type ResumeInput struct {
	JobDescription string        `json:"jobDescription" validate:"required"`
	ResumeText     string        `json:"resumeText" validate:"required_without=Resume"`
	Resume         *Resume       `json:"resume"`
	PersonalInfo   *PersonalInfo `json:"personalInfo"`
	Format         ResumeFormat  `json:"outputFormat" validate:"omitempty,oneof=json text"`
}

type JobDescriptionInput struct {
	Text string `json:"jdText" validate:"required"`
}

type ResumeParseInput struct {
	Text string `json:"resumeText" validate:"required"`
}
