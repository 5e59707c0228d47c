package usecase

import (
	"context"
	"regexp"
	"strings"

	"interview-core/internal/adapter/parser"
	"interview-core/internal/domain/entity"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`(\+?\d{1,4}[\s.-]?)?(\(?\d{3,4}\)?[\s.-]?)?\d{3,4}[\s.-]?\d{4}`)
)

// DefaultPersonalInfo is used when a structured resume arrives without
// contact details.
func DefaultPersonalInfo() entity.PersonalInfo {
	return entity.PersonalInfo{
		Name:   "Your Name",
		Email:  "your.email@example.com",
		Mobile: "Your Phone Number",
	}
}

// ExtractPersonalInfo reads the name from the first line and the first
// email address and phone number found anywhere in the text.
func ExtractPersonalInfo(text string) entity.PersonalInfo {
	info := DefaultPersonalInfo()
	first, _, _ := strings.Cut(strings.TrimLeft(text, "\r\n"), "\n")
	if name := strings.TrimSpace(first); name != "" {
		info.Name = name
	}
	if m := emailPattern.FindString(text); m != "" {
		info.Email = m
	}
	if m := phonePattern.FindString(text); m != "" {
		info.Mobile = m
	}
	return info
}

func normalizeResume(r entity.Resume) entity.Resume {
	if r.Skills == nil {
		r.Skills = []string{}
	}
	if r.Experience == nil {
		r.Experience = []entity.Experience{}
	}
	if r.Achievements == nil {
		r.Achievements = []string{}
	}
	return r
}

func decodeResume(shape entity.OutputShape) func(string) (entity.Resume, error) {
	return func(raw string) (entity.Resume, error) {
		r, err := parser.Decode[entity.Resume](raw, shape)
		return normalizeResume(r), err
	}
}

func (g *Generator) ParseJobDescription(ctx context.Context, in entity.JobDescriptionInput) (entity.Result[entity.JobDescription], error) {
	return g.jobDescription(ctx, newRequest(entity.UseCaseJobDescription), in)
}

func (g *Generator) jobDescription(ctx context.Context, req entity.GenerationRequest, in entity.JobDescriptionInput) (entity.Result[entity.JobDescription], error) {
	if err := g.check(in); err != nil {
		return entity.Result[entity.JobDescription]{}, err
	}
	prompt, err := JobDescriptionPrompt(in.Text)
	if err != nil {
		return entity.Result[entity.JobDescription]{}, err
	}
	return RunChain(ctx, g.exec, req.ID, Chain[string, entity.JobDescription]{
		UseCase: req.UseCase,
		Steps:   g.textSteps(req.UseCase, entity.TextRequest{Prompt: prompt, Document: in.Text}),
		Extract: decodeWith[entity.JobDescription](req.Shape),
	})
}

// ParseResume structures plain resume text. The local regex parser sits at
// the end of the default chain, so this only fails when the text is empty.
func (g *Generator) ParseResume(ctx context.Context, in entity.ResumeParseInput) (entity.Result[entity.Resume], error) {
	return g.parseResume(ctx, newRequest(entity.UseCaseResumeParse), in)
}

func (g *Generator) parseResume(ctx context.Context, req entity.GenerationRequest, in entity.ResumeParseInput) (entity.Result[entity.Resume], error) {
	if err := g.check(in); err != nil {
		return entity.Result[entity.Resume]{}, err
	}
	prompt, err := ResumeParsePrompt(in.Text)
	if err != nil {
		return entity.Result[entity.Resume]{}, err
	}
	return RunChain(ctx, g.exec, req.ID, Chain[string, entity.Resume]{
		UseCase: req.UseCase,
		Steps:   g.textSteps(req.UseCase, entity.TextRequest{Prompt: prompt, Document: in.Text}),
		Extract: decodeResume(req.Shape),
	})
}

// OptimizeResume rewrites a structured resume for a job description and
// returns it in the same structure.
func (g *Generator) OptimizeResume(ctx context.Context, jobDescription string, resume entity.Resume) (entity.Result[entity.Resume], error) {
	return g.optimizeResume(ctx, newRequest(entity.UseCaseResume), jobDescription, resume)
}

func (g *Generator) optimizeResume(ctx context.Context, req entity.GenerationRequest, jobDescription string, resume entity.Resume) (entity.Result[entity.Resume], error) {
	if strings.TrimSpace(jobDescription) == "" {
		return entity.Result[entity.Resume]{}, &entity.ValidationError{Field: "jobDescription", Reason: "failed required"}
	}
	prompt, err := ResumeOptimizePrompt(jobDescription, normalizeResume(resume))
	if err != nil {
		return entity.Result[entity.Resume]{}, err
	}
	return RunChain(ctx, g.exec, req.ID, Chain[string, entity.Resume]{
		UseCase: req.UseCase,
		Steps:   g.textSteps(req.UseCase, entity.TextRequest{Prompt: prompt}),
		Extract: decodeResume(req.Shape),
	})
}

// RewriteResume rewrites a plain-text resume for a job description.
func (g *Generator) RewriteResume(ctx context.Context, jobDescription, resumeText string) (entity.Result[string], error) {
	return g.rewriteResume(ctx, newRequest(entity.UseCaseResumeRewrite), jobDescription, resumeText)
}

func (g *Generator) rewriteResume(ctx context.Context, req entity.GenerationRequest, jobDescription, resumeText string) (entity.Result[string], error) {
	switch {
	case strings.TrimSpace(jobDescription) == "":
		return entity.Result[string]{}, &entity.ValidationError{Field: "jobDescription", Reason: "failed required"}
	case strings.TrimSpace(resumeText) == "":
		return entity.Result[string]{}, &entity.ValidationError{Field: "resumeText", Reason: "failed required"}
	}
	prompt, err := ResumeRewritePrompt(jobDescription, resumeText)
	if err != nil {
		return entity.Result[string]{}, err
	}
	return RunChain(ctx, g.exec, req.ID, Chain[string, string]{
		UseCase: req.UseCase,
		Steps:   g.textSteps(req.UseCase, entity.TextRequest{Prompt: prompt, Document: resumeText}),
		Extract: parser.PlainText,
	})
}

// ProcessResume tailors a resume to a job description. JSON output parses
// plain text first (when needed) and optimizes the structure; text output
// rewrites the plain text directly and requires it.
func (g *Generator) ProcessResume(ctx context.Context, in entity.ResumeInput) (entity.Result[entity.ProcessedResume], error) {
	return g.processResume(ctx, newRequest(entity.UseCaseResume), in)
}

func (g *Generator) processResume(ctx context.Context, req entity.GenerationRequest, in entity.ResumeInput) (entity.Result[entity.ProcessedResume], error) {
	var zero entity.Result[entity.ProcessedResume]
	if err := g.check(in); err != nil {
		return zero, err
	}

	info := DefaultPersonalInfo()
	switch {
	case in.ResumeText != "":
		info = ExtractPersonalInfo(in.ResumeText)
	case in.PersonalInfo != nil:
		info = *in.PersonalInfo
	}

	out := entity.Result[entity.ProcessedResume]{RequestID: req.ID, UseCase: req.UseCase}
	switch in.Format {
	case entity.ResumeFormatText:
		if in.ResumeText == "" {
			return zero, &entity.ValidationError{Field: "resumeText", Reason: "text output requires a plain-text resume"}
		}
		rewritten, err := g.rewriteResume(ctx, child(req, entity.UseCaseResumeRewrite), in.JobDescription, in.ResumeText)
		if err != nil {
			return zero, err
		}
		out.Provider = rewritten.Provider
		out.Value = entity.ProcessedResume{PersonalInfo: info, Text: rewritten.Value}
		return out, nil

	default:
		var structured entity.Resume
		if in.Resume != nil {
			structured = *in.Resume
		} else {
			parsed, err := g.parseResume(ctx, child(req, entity.UseCaseResumeParse), entity.ResumeParseInput{Text: in.ResumeText})
			if err != nil {
				return zero, err
			}
			structured = parsed.Value
		}
		optimized, err := g.optimizeResume(ctx, req, in.JobDescription, structured)
		if err != nil {
			return zero, err
		}
		out.Provider = optimized.Provider
		out.Value = entity.ProcessedResume{PersonalInfo: info, Resume: &optimized.Value}
		return out, nil
	}
}
