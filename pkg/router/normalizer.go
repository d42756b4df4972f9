package router

import (
	"regexp"
	"sort"
	"strings"
)

// contractions maps apostrophe forms to their expansions. Lookup is
// whole-token at word boundaries, so possessives on regular words
// ("report's") are left alone.
var contractions = map[string]string{
	"i'm":       "i am",
	"i've":      "i have",
	"i'll":      "i will",
	"i'd":       "i would",
	"you're":    "you are",
	"you've":    "you have",
	"you'll":    "you will",
	"you'd":     "you would",
	"he's":      "he is",
	"he'll":     "he will",
	"he'd":      "he would",
	"she's":     "she is",
	"she'll":    "she will",
	"she'd":     "she would",
	"it's":      "it is",
	"it'll":     "it will",
	"we're":     "we are",
	"we've":     "we have",
	"we'll":     "we will",
	"we'd":      "we would",
	"they're":   "they are",
	"they've":   "they have",
	"they'll":   "they will",
	"they'd":    "they would",
	"that's":    "that is",
	"there's":   "there is",
	"here's":    "here is",
	"what's":    "what is",
	"who's":     "who is",
	"where's":   "where is",
	"how's":     "how is",
	"let's":     "let us",
	"don't":     "do not",
	"doesn't":   "does not",
	"didn't":    "did not",
	"won't":     "will not",
	"wouldn't":  "would not",
	"can't":     "cannot",
	"couldn't":  "could not",
	"shouldn't": "should not",
	"isn't":     "is not",
	"aren't":    "are not",
	"wasn't":    "was not",
	"weren't":   "were not",
	"haven't":   "have not",
	"hasn't":    "has not",
	"hadn't":    "had not",
	"mustn't":   "must not",
}

// contractionKeys is ordered longest first so compound forms win before
// any shorter prefix form.
var contractionKeys = func() []string {
	keys := make([]string, 0, len(contractions))
	for k := range contractions {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

var (
	ellipsisRe   = regexp.MustCompile(`\.{2,}`)
	whitespaceRe = regexp.MustCompile(`\s{2,}`)

	// Token shapes that must survive cleanup untouched.
	urlTokenRe     = regexp.MustCompile(`^(?:https?://|www\.)\S+$`)
	hashtagTokenRe = regexp.MustCompile(`^#\w+$`)
	mentionTokenRe = regexp.MustCompile(`^@[\w.]+$`)
)

// terminalPunct are the marks whose runs collapse to one instance.
const terminalPunct = "!?,;:"

// decorativeEdges are stripped from token edges after symmetric
// wrappers are removed.
const decorativeEdges = "*~_^=+|-"

// Normalize performs deterministic text cleanup on a raw user query.
// It is total (never panics on any input) and idempotent: normalizing
// an already-normalized query changes nothing.
func Normalize(raw string) PreprocessedQuery {
	s := strings.TrimSpace(strings.ToLower(raw))
	if s == "" {
		return PreprocessedQuery{OriginalQuery: raw}
	}

	s = whitespaceRe.ReplaceAllString(s, " ")
	s = ellipsisRe.ReplaceAllString(s, " ")
	s = collapsePunctuationRuns(s)
	// Wrapper stripping must run before contraction expansion: a quoted
	// contraction ("'don't'") has to expand in the same pass.
	s = cleanTokens(s)
	s = expandContractions(s)
	s = strings.TrimSpace(s)

	q := PreprocessedQuery{OriginalQuery: raw, NormalizedQuery: s}
	if s != "" {
		q.Language = "en"
	}
	return q
}

// expandContractions rewrites each whitespace-delimited token whose
// letter core matches a known contraction. Punctuation around the core
// is preserved.
func expandContractions(s string) string {
	tokens := strings.Fields(s)
	for i, tok := range tokens {
		lead, core, trail := splitTokenEdges(tok)
		if core == "" {
			continue
		}
		for _, key := range contractionKeys {
			if core == key {
				tokens[i] = lead + contractions[key] + trail
				break
			}
		}
	}
	return strings.Join(tokens, " ")
}

// splitTokenEdges separates leading and trailing non-letter runs from a
// token. The apostrophe inside a contraction is kept in the core.
func splitTokenEdges(tok string) (lead, core, trail string) {
	runes := []rune(tok)
	start, end := 0, len(runes)
	for start < end && !isWordRune(runes[start]) {
		start++
	}
	for end > start && !isWordRune(runes[end-1]) {
		end--
	}
	return string(runes[:start]), string(runes[start:end]), string(runes[end:])
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '\''
}

// collapsePunctuationRuns reduces runs of the same terminal mark
// ("??", "!!!") to a single instance.
func collapsePunctuationRuns(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var prev rune = -1
	for _, r := range s {
		if r == prev && strings.ContainsRune(terminalPunct, r) {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

// symmetricPairs lists wrapping punctuation stripped when both sides of
// a token carry the matching half.
var symmetricPairs = [][2]string{
	{`"`, `"`},
	{`'`, `'`},
	{"`", "`"},
	{"(", ")"},
	{"[", "]"},
	{"{", "}"},
	{"<", ">"},
	{"**", "**"},
}

// cleanTokens strips wrapping and decorative characters per token while
// leaving URL, hashtag and @-mention shaped tokens untouched.
func cleanTokens(s string) string {
	tokens := strings.Fields(s)
	out := tokens[:0]
	for _, tok := range tokens {
		if isProtectedToken(tok) {
			out = append(out, tok)
			continue
		}
		cleaned := cleanToken(tok)
		if cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return strings.Join(out, " ")
}

func isProtectedToken(tok string) bool {
	return urlTokenRe.MatchString(tok) ||
		hashtagTokenRe.MatchString(tok) ||
		mentionTokenRe.MatchString(tok)
}

func cleanToken(tok string) string {
	for {
		next := stripSymmetric(tok)
		next = strings.Trim(next, decorativeEdges)
		if next == tok {
			return tok
		}
		tok = next
	}
}

func stripSymmetric(tok string) string {
	for _, pair := range symmetricPairs {
		left, right := pair[0], pair[1]
		if len(tok) > len(left)+len(right) &&
			strings.HasPrefix(tok, left) && strings.HasSuffix(tok, right) {
			return tok[len(left) : len(tok)-len(right)]
		}
	}
	return tok
}
