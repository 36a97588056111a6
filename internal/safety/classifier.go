package safety

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Profanity hit counts are clamped so pathological inputs cannot skew the
// severity mapping.
const maxProfanityHits = 10

// Spam is only declared when at least this many independent signals fire.
const spamSignalThreshold = 2

const maskRune = '*'

// Structurally suspicious patterns. Any single match forces the verdict to
// critical, overriding profanity and spam scoring.
var suspiciousPatterns = []struct {
	reason string
	re     *regexp.Regexp
}{
	{
		"SQL injection pattern",
		regexp.MustCompile(`(?i)(\bunion\s+select\b|\bselect\s+.{1,80}\s+from\b|\bdrop\s+table\b|\binsert\s+into\b|\bdelete\s+from\b|\bor\s+1\s*=\s*1\b|'\s*or\s+')`),
	},
	{
		"script or markup injection",
		regexp.MustCompile(`(?i)(<\s*script|<\s*iframe|javascript\s*:|\bon(load|click|error|mouseover|mouseout|focus|blur|submit|keydown|keyup)\s*=)`),
	},
	{
		"shortened or raw-IP URL",
		regexp.MustCompile(`(?i)(\b(bit\.ly|tinyurl\.com|t\.co|goo\.gl|is\.gd|ow\.ly|buff\.ly|rb\.gy)/\S+|https?://\d{1,3}(\.\d{1,3}){3})`),
	},
	{
		"encoded characters",
		regexp.MustCompile(`%[0-9a-fA-F]{2}|&#\d{2,7};|&#x[0-9a-fA-F]{2,6};`),
	},
	{
		"base64-like content",
		regexp.MustCompile(`[A-Za-z0-9+/]{40,}={0,2}`),
	},
}

var urlPattern = regexp.MustCompile(`(?i)(https?://|www\.)\S+`)

// Classifier scores text for profanity, spam heuristics, and suspicious
// patterns. It holds no mutable state: identical input always produces an
// identical verdict.
type Classifier struct {
	lists       Lists
	profanity   []*regexp.Regexp
	spamPhrases []string
}

// NewClassifier builds a classifier from the given lists. Word matching is
// whole-word and case-insensitive.
func NewClassifier(lists Lists) *Classifier {
	c := &Classifier{lists: lists}
	c.profanity = make([]*regexp.Regexp, 0, len(lists.ProfanityWords))
	for _, w := range lists.ProfanityWords {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		c.profanity = append(c.profanity, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(w)+`\b`))
	}
	c.spamPhrases = make([]string, 0, len(lists.SpamPhrases))
	for _, p := range lists.SpamPhrases {
		if p = strings.TrimSpace(strings.ToLower(p)); p != "" {
			c.spamPhrases = append(c.spamPhrases, p)
		}
	}
	return c
}

// Classify scores text and returns the combined verdict.
func (c *Classifier) Classify(text string) Verdict {
	verdict := Verdict{Severity: SeveritySafe}

	// Profanity contributes the base severity.
	hits := c.profanityHits(text)
	if hits > maxProfanityHits {
		hits = maxProfanityHits
	}
	switch {
	case hits == 0:
		// no contribution
	case hits <= 2:
		verdict.Severity = SeverityLow
	case hits <= 4:
		verdict.Severity = SeverityMedium
	default:
		verdict.Severity = SeverityHigh
	}
	if hits > 0 {
		verdict.Issues = append(verdict.Issues, fmt.Sprintf("contains %d profane word(s)", hits))
	}

	// Spam escalates a still-safe verdict to medium; it never downgrades a
	// higher severity set by profanity.
	signals := c.spamSignals(text)
	if len(signals) >= spamSignalThreshold {
		verdict.Issues = append(verdict.Issues, signals...)
		if verdict.Severity == SeveritySafe {
			verdict.Severity = SeverityMedium
		}
	}

	// Any suspicious pattern overrides everything.
	if reasons := suspiciousReasons(text); len(reasons) > 0 {
		verdict.Issues = append(verdict.Issues, reasons...)
		verdict.Severity = SeverityCritical
	}

	return verdict
}

// ClassifyAndFilter classifies text and additionally returns a profanity-
// masked copy in FilteredText.
func (c *Classifier) ClassifyAndFilter(text string) Verdict {
	verdict := c.Classify(text)
	verdict.FilteredText = c.FilterProfanity(text)
	return verdict
}

// FilterProfanity masks whole-word profanity matches character for
// character, preserving text length.
func (c *Classifier) FilterProfanity(text string) string {
	for _, re := range c.profanity {
		text = re.ReplaceAllStringFunc(text, func(m string) string {
			return strings.Repeat(string(maskRune), utf8.RuneCountInString(m))
		})
	}
	return text
}

func (c *Classifier) profanityHits(text string) int {
	total := 0
	for _, re := range c.profanity {
		total += len(re.FindAllStringIndex(text, -1))
	}
	return total
}

// spamSignals returns one reason per fired signal, in a fixed order.
func (c *Classifier) spamSignals(text string) []string {
	var signals []string

	if upper, letters := caseCounts(text); letters > 0 &&
		utf8.RuneCountInString(text) > 20 &&
		float64(upper)/float64(letters) > 0.5 {
		signals = append(signals, "excessive capitalization")
	}

	if strings.Count(text, "!") > 5 {
		signals = append(signals, "excessive exclamation marks")
	}

	if len(urlPattern.FindAllStringIndex(text, -1)) > 3 {
		signals = append(signals, "too many links")
	}

	if matched := c.matchedSpamPhrases(text); len(matched) > 0 {
		signals = append(signals, "contains spam phrases: "+strings.Join(matched, ", "))
	}

	if hasRepeatedRun(text, 5) {
		signals = append(signals, "repeated character runs")
	}

	if emojiCount(text) > 10 {
		signals = append(signals, "excessive emoji")
	}

	return signals
}

func (c *Classifier) matchedSpamPhrases(text string) []string {
	lower := strings.ToLower(text)
	var matched []string
	for _, p := range c.spamPhrases {
		if strings.Contains(lower, p) {
			matched = append(matched, p)
		}
	}
	return matched
}

func suspiciousReasons(text string) []string {
	var reasons []string
	for _, p := range suspiciousPatterns {
		if p.re.MatchString(text) {
			reasons = append(reasons, "suspicious content: "+p.reason)
		}
	}
	return reasons
}

func caseCounts(text string) (upper, letters int) {
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	return upper, letters
}

func hasRepeatedRun(text string, n int) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if r == prev {
			run++
			if run >= n {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

func emojiCount(text string) int {
	count := 0
	for _, r := range text {
		if isEmoji(r) {
			count++
		}
	}
	return count
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F5FF, // symbols & pictographs
		r >= 0x1F600 && r <= 0x1F64F, // emoticons
		r >= 0x1F680 && r <= 0x1F6FF, // transport & map
		r >= 0x1F900 && r <= 0x1F9FF, // supplemental symbols
		r >= 0x1FA70 && r <= 0x1FAFF, // extended-A
		r >= 0x2600 && r <= 0x27BF:   // misc symbols & dingbats
		return true
	}
	return false
}
