package client

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"interview-core/internal/domain/entity"
)

var (
	sectionHeader = regexp.MustCompile(`(?i)^\s*(skills|education|experience|achievements)\s*[:\-]?\s*(.*)$`)
	otherHeader   = regexp.MustCompile(`^[A-Z][a-z]+:`)
)

// RegexResumeParser is the last, local link of the resume parsing chain.
// It reads TextRequest.Document rather than the prompt and answers with
// resume JSON, so it passes through the same extractor as remote providers.
type RegexResumeParser struct{}

func NewRegexResumeParser() *RegexResumeParser { return &RegexResumeParser{} }

func (p *RegexResumeParser) Name() string { return entity.ProviderRegexResume }

func (p *RegexResumeParser) Generate(_ context.Context, req entity.TextRequest) (string, error) {
	if strings.TrimSpace(req.Document) == "" {
		return "", entity.Fatal(p.Name(), fmt.Errorf("no resume text to parse"))
	}
	b, err := json.Marshal(ParseResumeSections(req.Document))
	if err != nil {
		return "", entity.Fatal(p.Name(), err)
	}
	return string(b), nil
}

// ParseResumeSections splits plain resume text on its Skills, Education,
// Experience and Achievements headings. Slices are never nil.
func ParseResumeSections(text string) entity.Resume {
	sections := map[string][]string{}
	current := ""
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if m := sectionHeader.FindStringSubmatch(line); m != nil {
			current = strings.ToLower(m[1])
			if rest := strings.TrimSpace(m[2]); rest != "" {
				sections[current] = append(sections[current], rest)
			}
			continue
		}
		if otherHeader.MatchString(strings.TrimSpace(line)) {
			current = ""
			continue
		}
		if current == "" {
			continue
		}
		if l := strings.TrimSpace(line); l != "" {
			sections[current] = append(sections[current], l)
		}
	}

	res := entity.Resume{
		Skills:       []string{},
		Experience:   []entity.Experience{},
		Achievements: []string{},
		Education:    strings.Join(sections["education"], "\n"),
	}
	for _, l := range sections["skills"] {
		for _, s := range strings.Split(l, ",") {
			if s = strings.TrimSpace(s); s != "" {
				res.Skills = append(res.Skills, s)
			}
		}
	}
	for _, l := range sections["experience"] {
		role, _, _ := strings.Cut(l, "-")
		res.Experience = append(res.Experience, entity.Experience{
			Role:        strings.TrimSpace(role),
			Description: []string{l},
		})
	}
	for _, l := range sections["achievements"] {
		res.Achievements = append(res.Achievements, strings.TrimLeft(l, "-*• "))
	}
	return res
}
