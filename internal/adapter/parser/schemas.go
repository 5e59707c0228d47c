package parser

import "interview-core/internal/domain/entity"

const quizSchema = `{
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"properties": {
			"question": {"type": "string", "minLength": 1},
			"options": {
				"type": "object",
				"properties": {
					"A": {"type": "string"},
					"B": {"type": "string"},
					"C": {"type": "string"},
					"D": {"type": "string"}
				},
				"required": ["A", "B", "C", "D"]
			},
			"answer": {"type": "string", "enum": ["A", "B", "C", "D"]},
			"explanation": {"type": "string"}
		},
		"required": ["question", "options", "answer", "explanation"]
	}
}`

const feedbackSchema = `{
	"type": "object",
	"properties": {
		"strengths": {"type": "string"},
		"improvements": {"type": "string"},
		"overall": {"type": "string"},
		"score": {"type": "number", "minimum": 0, "maximum": 10},
		"soft_skills": {
			"type": "object",
			"properties": {
				"confidence": {"type": "string"},
				"clarity": {"type": "string"},
				"filler_words": {"type": "string"},
				"tone": {"type": "string"},
				"pace": {"type": "string"}
			},
			"required": ["confidence", "clarity", "filler_words", "tone", "pace"]
		}
	},
	"required": ["strengths", "improvements", "overall", "score", "soft_skills"]
}`

const studyPlanSchema = `{
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"properties": {
			"week": {"type": "integer", "minimum": 1},
			"topics": {"type": "array", "items": {"type": "string"}},
			"projects": {"type": "array", "items": {"type": "string"}},
			"resources": {"type": "array", "items": {"type": "string"}},
			"summary": {"type": "string"}
		},
		"required": ["week", "topics", "projects", "resources", "summary"]
	}
}`

const stringArray = `{"type": "array", "items": {"type": "string"}}`

const resumeSchema = `{
	"type": "object",
	"properties": {
		"summary": {"type": "string"},
		"skills": ` + stringArray + `,
		"experience": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"company": {"type": "string"},
					"role": {"type": "string"},
					"duration": {"type": "string"},
					"description": ` + stringArray + `
				}
			}
		},
		"education": {"type": "string"},
		"achievements": ` + stringArray + `
	},
	"required": ["summary", "skills", "experience", "education", "achievements"]
}`

const jobDescriptionSchema = `{
	"type": "object",
	"properties": {
		"hardSkills": ` + stringArray + `,
		"softSkills": ` + stringArray + `,
		"responsibilities": ` + stringArray + `,
		"tone": {"type": "string"},
		"summary": {"type": "string"}
	},
	"required": ["hardSkills", "softSkills", "responsibilities", "tone", "summary"]
}`

// Shapes per use case. Questions and follow-ups are line based.
var (
	QuizShape = entity.OutputShape{Kind: entity.ShapeJSONArray, Schema: quizSchema}

	FeedbackShape = entity.OutputShape{
		Kind:   entity.ShapeJSONObject,
		Schema: feedbackSchema,
		Ranges: []entity.NumericRange{{Path: "score", Min: 0, Max: 10}},
	}

	StudyPlanShape = entity.OutputShape{
		Kind:   entity.ShapeJSONArray,
		Schema: studyPlanSchema,
		Ranges: []entity.NumericRange{{Path: "week", Min: 1, Max: 104}},
	}

	ResumeShape         = entity.OutputShape{Kind: entity.ShapeJSONObject, Schema: resumeSchema}
	JobDescriptionShape = entity.OutputShape{Kind: entity.ShapeJSONObject, Schema: jobDescriptionSchema}
	FollowUpShape       = entity.OutputShape{Kind: entity.ShapeText}
	RewriteShape        = entity.OutputShape{Kind: entity.ShapeText}
)

// QuestionsShape is the numbered-list shape truncated to count items.
func QuestionsShape(count int) entity.OutputShape {
	return entity.OutputShape{Kind: entity.ShapeNumberedList, Limit: count}
}
