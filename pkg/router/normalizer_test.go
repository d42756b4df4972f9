package router

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "empty input",
			raw:  "",
			want: "",
		},
		{
			name: "whitespace only",
			raw:  "   \t\n  ",
			want: "",
		},
		{
			name: "lowercase and trim",
			raw:  "  What Were The Main Findings?  ",
			want: "what were the main findings?",
		},
		{
			name: "contraction expansion",
			raw:  "I'm testing what's going on, don't you know?",
			want: "i am testing what is going on, do not you know?",
		},
		{
			name: "wont becomes will not",
			raw:  "It won't work",
			want: "it will not work",
		},
		{
			name: "possessive s untouched",
			raw:  "the report's summary",
			want: "the report's summary",
		},
		{
			name: "single-quoted contraction expands",
			raw:  "'Don't' was the answer",
			want: "do not was the answer",
		},
		{
			name: "quoted contraction mid-sentence",
			raw:  "she said 'can't' twice",
			want: "she said cannot twice",
		},
		{
			name: "whitespace runs collapse",
			raw:  "show   me    the   data",
			want: "show me the data",
		},
		{
			name: "trailing ellipsis removed",
			raw:  "tell me more...",
			want: "tell me more",
		},
		{
			name: "inner ellipsis becomes space",
			raw:  "well...maybe",
			want: "well maybe",
		},
		{
			name: "repeated question marks collapse",
			raw:  "why??? how!!!",
			want: "why? how!",
		},
		{
			name: "quoted token unwrapped",
			raw:  `find "quarterly" results`,
			want: "find quarterly results",
		},
		{
			name: "parenthesized token unwrapped",
			raw:  "compare (revenue) and [costs]",
			want: "compare revenue and costs",
		},
		{
			name: "asterisk emphasis stripped",
			raw:  "this is **important** stuff",
			want: "this is important stuff",
		},
		{
			name: "decorative edges stripped",
			raw:  "~~fancy~~ =header=",
			want: "fancy header",
		},
		{
			name: "url left untouched",
			raw:  "open https://example.com/a_(b) please",
			want: "open https://example.com/a_(b) please",
		},
		{
			name: "hashtag left untouched",
			raw:  "trending #sales_2024 today",
			want: "trending #sales_2024 today",
		},
		{
			name: "mention left untouched",
			raw:  "ask @data.team about it",
			want: "ask @data.team about it",
		},
		{
			name: "sentence punctuation survives",
			raw:  "first, second; third: done!",
			want: "first, second; third: done!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)

			if got.NormalizedQuery != tt.want {
				t.Errorf("NormalizedQuery = %q, want %q", got.NormalizedQuery, tt.want)
			}
			if got.OriginalQuery != tt.raw {
				t.Errorf("OriginalQuery = %q, want %q", got.OriginalQuery, tt.raw)
			}
			if (got.NormalizedQuery == "") != (got.Language == "") {
				t.Errorf("Language = %q inconsistent with NormalizedQuery %q", got.Language, got.NormalizedQuery)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"I'm testing what's going on, don't you know?",
		"Plot monthly sales trend for product X",
		"why??? how!!!",
		`find "quarterly" results...`,
		"open https://example.com/page please",
		"~~fancy~~ (((nested))) **bold**",
		"!!!",
		"a...b...c...",
		"ask @someone about #topic now",
		"'don't'",
		"she said 'can't' twice",
		"(won't) *isn't*",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once.NormalizedQuery)
		if twice.NormalizedQuery != once.NormalizedQuery {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q",
				in, once.NormalizedQuery, twice.NormalizedQuery)
		}
	}
}

func TestNormalizeEmptyShape(t *testing.T) {
	got := Normalize("")
	if got.OriginalQuery != "" || got.NormalizedQuery != "" {
		t.Errorf("Normalize(\"\") = %+v, want empty original and normalized", got)
	}
	if !got.IsEmpty() {
		t.Error("IsEmpty() should be true for empty input")
	}
}
