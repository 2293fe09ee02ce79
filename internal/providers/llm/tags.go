package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/yoockh/yoojob/internal/utils"
)

// TagSuggester asks the model for short skill tags describing a job posting.
type TagSuggester struct {
	provider Provider
}

func NewTagSuggester(p Provider) *TagSuggester {
	return &TagSuggester{provider: p}
}

func (s *TagSuggester) SuggestTags(ctx context.Context, title, description string, max int) ([]string, error) {
	if max <= 0 {
		max = 5
	}
	prompt := fmt.Sprintf(
		"List at most %d short skill or requirement tags for this job posting.\n"+
			"Answer with a single comma separated line and nothing else.\n\nTitle: %s\n\nDescription:\n%s",
		max, title, description,
	)

	answer, err := Complete(ctx, s.provider, prompt)
	if err != nil {
		return nil, err
	}
	return ParseTags(answer, max), nil
}

// ParseTags keeps the first line of a model answer and splits it like a recruiter's input.
func ParseTags(answer string, max int) []string {
	line := strings.TrimSpace(answer)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.Trim(line, "`*- ")

	tags := utils.SplitTags(line)
	if max > 0 && len(tags) > max {
		tags = tags[:max]
	}
	return tags
}
