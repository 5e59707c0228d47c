package entity

// Result wraps a parsed value with its provenance. Degraded results are
// placeholders produced after every provider failed; they have the same
// shape as real ones but must not be treated as authoritative.
type Result[T any] struct {
	RequestID string  `json:"request_id"`
	UseCase   UseCase `json:"use_case"`
	Provider  string  `json:"provider"`
	Degraded  bool    `json:"degraded"`
	Value     T       `json:"value"`
}

type QuizOptions struct {
	A string `json:"A"`
	B string `json:"B"`
	C string `json:"C"`
	D string `json:"D"`
}

type QuizItem struct {
	Question    string      `json:"question"`
	Options     QuizOptions `json:"options"`
	Answer      string      `json:"answer"`
	Explanation string      `json:"explanation"`
}

type SoftSkills struct {
	Confidence  string `json:"confidence"`
	Clarity     string `json:"clarity"`
	FillerWords string `json:"filler_words"`
	Tone        string `json:"tone"`
	Pace        string `json:"pace"`
}

// Feedback scores a spoken or written interview answer. Score is always
// within [0, 10].
type Feedback struct {
	Strengths    string     `json:"strengths"`
	Improvements string     `json:"improvements"`
	Overall      string     `json:"overall"`
	Score        float64    `json:"score"`
	SoftSkills   SoftSkills `json:"soft_skills"`
}

type StudyWeek struct {
	Week      int      `json:"week"`
	Topics    []string `json:"topics"`
	Projects  []string `json:"projects"`
	Resources []string `json:"resources"`
	Summary   string   `json:"summary"`
}

type FollowUp struct {
	Question string `json:"question"`
}

type Experience struct {
	Company     string   `json:"company"`
	Role        string   `json:"role"`
	Duration    string   `json:"duration"`
	Description []string `json:"description"`
}

type Resume struct {
	Summary      string       `json:"summary"`
	Skills       []string     `json:"skills"`
	Experience   []Experience `json:"experience"`
	Education    string       `json:"education"`
	Achievements []string     `json:"achievements"`
}

type PersonalInfo struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
}

// ProcessedResume is the outcome of the resume pipeline. Exactly one of
// Resume or Text is set, depending on the requested format.
type ProcessedResume struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Resume       *Resume      `json:"resume,omitempty"`
	Text         string       `json:"data,omitempty"`
}

type JobDescription struct {
	HardSkills       []string `json:"hardSkills"`
	SoftSkills       []string `json:"softSkills"`
	Responsibilities []string `json:"responsibilities"`
	Tone             string   `json:"tone"`
	Summary          string   `json:"summary"`
}

// SpeechMetrics are soft-skill signals derived from word-level transcripts.
type SpeechMetrics struct {
	FillerWordCount       int     `json:"fillerWords"`
	AverageWordConfidence float64 `json:"averageConfidence"`
	// SpeakingRate is in words per second; zero when duration is unknown.
	SpeakingRate          float64 `json:"speakingRate"`
}

// TranscriptResult is the speech-to-text output. Metrics is nil unless the
// provider exposes word-level timing and confidence.
type TranscriptResult struct {
	Text    string         `json:"transcript"`
	Metrics *SpeechMetrics `json:"softSkills"`
}
