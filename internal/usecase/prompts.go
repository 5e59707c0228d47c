package usecase

import (
	"embed"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"text/template"

	"interview-core/internal/domain/entity"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(
	template.New("prompts").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(promptFS, "prompts/*.tmpl"),
)

const (
	maxFeedbackAnswer   = 4000
	maxFeedbackQuestion = 500
)

// QuestionCount is the number of questions that fit in an interview of the
// given length, one per two minutes.
func QuestionCount(durationMinutes int) int {
	if durationMinutes < 0 {
		return 0
	}
	return durationMinutes / 2
}

// DifficultySplit partitions total into easy, medium and hard buckets at
// 30/40/30. Rounding slack always lands in the hard bucket, so the three
// counts sum to total.
func DifficultySplit(total int) (easy, medium, hard int) {
	easy = int(math.Round(float64(total) * 0.3))
	medium = int(math.Round(float64(total) * 0.4))
	hard = total - easy - medium
	return easy, medium, hard
}

func render(name string, data any) (string, error) {
	var b strings.Builder
	if err := prompts.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return strings.TrimSpace(b.String()), nil
}

// truncateRunes cuts s to at most n characters without splitting a rune.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// QuestionsPrompt builds the mock interview prompt and reports how many
// questions it asks for.
func QuestionsPrompt(in entity.QuestionsInput) (string, int, error) {
	total := QuestionCount(in.DurationMinutes)
	easy, medium, hard := DifficultySplit(total)
	prompt, err := render("questions.tmpl", map[string]any{
		"Total":         total,
		"MockType":      in.MockType,
		"RoleOrSubject": in.RoleOrSubject,
		"Topics":        in.Topics,
		"Companies":     in.Companies,
		"Duration":      in.DurationMinutes,
		"Easy":          easy,
		"Medium":        medium,
		"Hard":          hard,
		"SubjectMock":   strings.Contains(strings.ToLower(in.MockType), "subject"),
	})
	return prompt, total, err
}

func QuizPrompt(in entity.QuizInput) (string, error) {
	return render("quiz.tmpl", in)
}

func FollowUpPrompt(in entity.FollowUpInput) (string, error) {
	return render("followup.tmpl", in)
}

// FeedbackPrompt returns the system and user prompts. Long answers and
// questions are truncated first.
func FeedbackPrompt(in entity.FeedbackInput) (system, user string, err error) {
	system, err = render("feedback_system.tmpl", nil)
	if err != nil {
		return "", "", err
	}
	in.Answer = truncateRunes(in.Answer, maxFeedbackAnswer)
	in.Question = truncateRunes(in.Question, maxFeedbackQuestion)
	user, err = render("feedback.tmpl", in)
	return system, user, err
}

func StudyPlanPrompt(in entity.StudyPlanInput) (string, error) {
	return render("study_plan.tmpl", in)
}

func JobDescriptionPrompt(text string) (string, error) {
	return render("job_description.tmpl", map[string]string{"Text": text})
}

func ResumeParsePrompt(text string) (string, error) {
	return render("resume_parse.tmpl", map[string]string{"Text": text})
}

func ResumeOptimizePrompt(jobDescription string, resume entity.Resume) (string, error) {
	b, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal resume: %w", err)
	}
	return render("resume_optimize.tmpl", map[string]string{
		"JobDescription": jobDescription,
		"ResumeJSON":     string(b),
	})
}

func ResumeRewritePrompt(jobDescription, resumeText string) (string, error) {
	return render("resume_rewrite.tmpl", map[string]string{
		"JobDescription": jobDescription,
		"ResumeText":     resumeText,
	})
}
