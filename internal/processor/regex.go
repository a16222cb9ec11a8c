package processor

import (
	"context"
	"fmt"
	"regexp"

	"github.com/acrelle/dataproc/internal/domain"
)

// MatchPattern reports whether text contains a match for the RE2 pattern.
// An invalid pattern is an error; no match is (false, nil).
func (p *Processor) MatchPattern(ctx context.Context, text, pattern string) (bool, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		p.logger.Error("failed to compile pattern",
			"error", err,
			"pattern", pattern)
		wrapped := NewProcessorError("match_pattern", fmt.Sprintf("invalid pattern %q", pattern), err)
		p.recordFailure(ctx, domain.OperationRegexMatch, wrapped)
		return false, wrapped
	}

	matched := re.MatchString(text)

	p.logger.Info("evaluated pattern",
		"pattern", pattern,
		"matched", matched)
	p.recordSuccess(ctx, domain.OperationRegexMatch,
		fmt.Sprintf("pattern %q matched: %t", pattern, matched))

	return matched, nil
}

// ExtractMatches returns all non-overlapping matches of the RE2 pattern in
// text, in order. No matches yields an empty slice, not nil.
func (p *Processor) ExtractMatches(ctx context.Context, text, pattern string) ([]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		p.logger.Error("failed to compile pattern",
			"error", err,
			"pattern", pattern)
		wrapped := NewProcessorError("extract_matches", fmt.Sprintf("invalid pattern %q", pattern), err)
		p.recordFailure(ctx, domain.OperationRegexMatch, wrapped)
		return nil, wrapped
	}

	matches := re.FindAllString(text, -1)
	if matches == nil {
		matches = []string{}
	}

	p.logger.Info("extracted pattern matches",
		"pattern", pattern,
		"match_count", len(matches))
	p.recordSuccess(ctx, domain.OperationRegexMatch,
		fmt.Sprintf("pattern %q produced %d matches", pattern, len(matches)))

	return matches, nil
}
