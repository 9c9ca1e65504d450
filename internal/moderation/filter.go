package moderation

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

const (
	// MaxQueryLength is the longest query, in characters, the filter accepts.
	MaxQueryLength = 200
	// MinQueryLength is the shortest query, in characters, the filter accepts.
	MinQueryLength = 2

	maxSpecialCharRatio = 0.3
	patternMatchTimeout = 100 * time.Millisecond
)

// Rejection reasons reported in a Verdict.
const (
	ReasonEmpty         = "empty query"
	ReasonInappropriate = "inappropriate content"
	ReasonSpecialChars  = "excessive special characters"
	ReasonSpam          = "spam"
	ReasonTooLong       = "too long"
	ReasonTooShort      = "too short"
)

// Verdict is the outcome of checking a query.
type Verdict struct {
	Appropriate bool
	Reason      string
}

func reject(reason string) Verdict {
	return Verdict{Appropriate: false, Reason: reason}
}

// defaultPatterns catch profanity spelled with repeated letters ("fuuuck", "shiiit").
var defaultPatterns = []string{
	`\bf+u+c+k+\b`,
	`\bs+h+i+t+\b`,
	`\bd+a+m+n+\b`,
}

// Filter validates search queries before they reach retrieval.
// A Filter is safe for concurrent use.
type Filter struct {
	blocklist *Blocklist
	patterns  []*regexp2.Regexp
	repeated  *regexp2.Regexp
}

// NewFilter creates a filter backed by the given blocklist.
// A nil blocklist is replaced with DefaultBlocklist.
func NewFilter(blocklist *Blocklist) *Filter {
	if blocklist == nil {
		blocklist = DefaultBlocklist()
	}

	patterns := make([]*regexp2.Regexp, len(defaultPatterns))
	for i, p := range defaultPatterns {
		patterns[i] = mustCompile(p, regexp2.IgnoreCase)
	}

	return &Filter{
		blocklist: blocklist,
		patterns:  patterns,
		// 6+ consecutive copies of one character; needs a backreference.
		repeated: mustCompile(`(.)\1{5,}`, regexp2.None),
	}
}

func mustCompile(expr string, opt regexp2.RegexOptions) *regexp2.Regexp {
	re := regexp2.MustCompile(expr, opt)
	re.MatchTimeout = patternMatchTimeout
	return re
}

// Sanitize cleans a raw query. See the package-level Sanitize.
func (f *Filter) Sanitize(raw string) string {
	return Sanitize(raw)
}

// Check decides whether text is acceptable as a query. Rules are evaluated in a fixed
// order and the first failing rule determines the reason.
func (f *Filter) Check(text string) Verdict {
	if strings.TrimSpace(text) == "" {
		return reject(ReasonEmpty)
	}

	lower := strings.ToLower(strings.TrimSpace(text))

	for _, word := range words(lower) {
		if f.blocklist.Contains(word) {
			return reject(ReasonInappropriate)
		}
	}

	for _, re := range f.patterns {
		// A timed-out match counts as a hit.
		if ok, err := re.MatchString(lower); ok || err != nil {
			return reject(ReasonInappropriate)
		}
	}

	length := utf8.RuneCountInString(text)

	if specialCharRatio(text, length) > maxSpecialCharRatio {
		return reject(ReasonSpecialChars)
	}

	if ok, err := f.repeated.MatchString(text); ok || err != nil {
		return reject(ReasonSpam)
	}

	if length > MaxQueryLength {
		return reject(ReasonTooLong)
	}
	if length < MinQueryLength {
		return reject(ReasonTooShort)
	}

	return Verdict{Appropriate: true}
}

// Sanitize removes non-printable characters, collapses whitespace runs to a single
// space, trims, and truncates to MaxQueryLength characters. It never fails and
// Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(raw string) string {
	if raw == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(raw))
	pendingSpace := false
	for _, r := range raw {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case !unicode.IsPrint(r) || r == utf8.RuneError:
			// dropped
		default:
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}

	out := b.String()
	if utf8.RuneCountInString(out) > MaxQueryLength {
		out = strings.TrimRightFunc(string([]rune(out)[:MaxQueryLength]), unicode.IsSpace)
	}
	return out
}

// words splits lowercase text into word tokens (letters, digits and underscore).
func words(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_')
	})
}

func specialCharRatio(text string, length int) float64 {
	if length == 0 {
		return 0
	}
	special := 0
	for _, r := range text {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) && !unicode.IsSpace(r) {
			special++
		}
	}
	return float64(special) / float64(length)
}
