package classify

import (
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/weevil-bot/weevil/pkg/domain/model"
	"github.com/weevil-bot/weevil/pkg/domain/types"
)

const (
	// maxTitleLength is where the title is cut when no sentence terminator exists
	maxTitleLength = 255
	// maxPromotedTitleLength caps a title promoted from the description's first line
	maxPromotedTitleLength = 100
	// minReportLength is the shortest message worth classifying
	minReportLength = 10
	// maxChatterLength is the longest message a filler phrase can disqualify
	maxChatterLength = 50
)

// sentenceEnd matches the first full stop followed by whitespace or end of text
var sentenceEnd = regexp.MustCompile(`\.(\s|$)`)

// titlePunctuation is stripped from both ends of an extracted title
const titlePunctuation = ".,!?;: "

// Classifier turns free-form message text into a structured report. It is a
// pure component: no external calls, no state beyond the compiled rule table.
type Classifier struct {
	rules      Rules
	directRe   []*regexp.Regexp
	indirectRe []*regexp.Regexp
}

// New compiles a rule table into a Classifier
func New(rules Rules) (*Classifier, error) {
	if err := rules.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid classification rules")
	}

	c := &Classifier{rules: rules}

	for _, pattern := range rules.DirectLinkPatterns {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid direct link pattern", goerr.V("pattern", pattern))
		}
		c.directRe = append(c.directRe, re)
	}
	for _, pattern := range rules.IndirectLinkPatterns {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid indirect link pattern", goerr.V("pattern", pattern))
		}
		c.indirectRe = append(c.indirectRe, re)
	}

	return c, nil
}

// Classify parses message text into a structured report. It never fails:
// empty input yields the fallback title with default environment and product.
func (c *Classifier) Classify(text string) *model.ParsedReport {
	report := &model.ParsedReport{
		ID:          types.NewReportID(),
		Title:       c.rules.FallbackTitle,
		Environment: types.Environment(c.rules.DefaultEnvironment),
		Product:     types.Product(c.rules.DefaultProduct),
		SourceText:  text,
	}
	if text == "" {
		return report
	}

	report.Links = c.ExtractLinks(text)
	report.Environment = c.detectEnvironment(text)
	report.Product = c.detectProduct(text)
	report.Title, report.Description = c.splitTitleDescription(text)

	return report
}

// ShouldSkip reports whether a message is too short or too conversational to
// be worth a confirmation prompt.
func (c *Classifier) ShouldSkip(text string) bool {
	if len(strings.TrimSpace(text)) < minReportLength {
		return true
	}
	if len(text) < maxChatterLength {
		lower := strings.ToLower(text)
		for _, phrase := range c.rules.SkipPhrases {
			if strings.Contains(lower, phrase) {
				return true
			}
		}
	}
	return false
}

// ExtractLinks finds and categorizes reference URLs in text. Each class is
// deduplicated in order of first appearance.
func (c *Classifier) ExtractLinks(text string) model.ReferenceLinks {
	return model.ReferenceLinks{
		Direct:   matchAll(c.directRe, text),
		Indirect: matchAll(c.indirectRe, text),
	}
}

// IsDirectLink reports whether a URL matches a direct link pattern
func (c *Classifier) IsDirectLink(url string) bool {
	for _, re := range c.directRe {
		if re.MatchString(url) {
			return true
		}
	}
	return false
}

func (c *Classifier) detectEnvironment(text string) types.Environment {
	lower := strings.ToLower(text)
	for _, kw := range c.rules.Environments {
		if strings.Contains(lower, kw.Match) {
			return types.Environment(kw.Value)
		}
	}
	return types.Environment(c.rules.DefaultEnvironment)
}

func (c *Classifier) detectProduct(text string) types.Product {
	lower := strings.ToLower(text)
	for _, kw := range c.rules.Products {
		if strings.Contains(lower, kw.Match) {
			return types.Product(kw.Value)
		}
	}
	return types.Product(c.rules.DefaultProduct)
}

// splitTitleDescription splits text at the first sentence terminator, or at
// maxTitleLength characters when no terminator exists.
func (c *Classifier) splitTitleDescription(text string) (string, string) {
	text = strings.TrimSpace(text)

	var title, description string
	if loc := sentenceEnd.FindStringIndex(text); loc != nil {
		title = strings.TrimSpace(text[:loc[0]])
		description = strings.TrimSpace(text[loc[0]+1:])
	} else if runes := []rune(text); len(runes) <= maxTitleLength {
		title = text
	} else {
		title = strings.TrimSpace(string(runes[:maxTitleLength]))
		description = strings.TrimSpace(string(runes[maxTitleLength:]))
	}

	title = strings.Trim(title, titlePunctuation)

	// A message like "..." can strip down to nothing; promote the first
	// description line so the title invariant holds.
	if title == "" && description != "" {
		lines := strings.Split(description, "\n")
		if first := []rune(lines[0]); len(first) > 0 {
			if len(first) > maxPromotedTitleLength {
				first = first[:maxPromotedTitleLength]
			}
			title = string(first)
		}
		if len(lines) > 1 {
			description = strings.Join(lines[1:], "\n")
		} else {
			description = ""
		}
	}

	if title == "" {
		title = c.rules.FallbackTitle
	}

	return title, description
}

// matchAll runs every pattern over the text and deduplicates matches in
// order of first appearance.
func matchAll(patterns []*regexp.Regexp, text string) []string {
	var matches []string
	seen := map[string]struct{}{}
	for _, re := range patterns {
		for _, m := range re.FindAllString(text, -1) {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			matches = append(matches, m)
		}
	}
	return matches
}
