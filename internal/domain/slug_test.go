package domain

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,58}[a-z0-9])?$`)

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple words", input: "Plan a Trip", want: "plan-a-trip"},
		{name: "punctuation runs collapse", input: "hello,,, world!!", want: "hello-world"},
		{name: "leading and trailing junk", input: "  --Hello--  ", want: "hello"},
		{name: "digits kept", input: "Q3 2026 roadmap", want: "q3-2026-roadmap"},
		{name: "non ascii dropped", input: "café déjà vu", want: "caf-d-j-vu"},
		{name: "empty", input: "", want: ""},
		{name: "all punctuation", input: "!!! ??? ...", want: ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Slugify(tc.input))
		})
	}
}

func TestSlugify_TruncatesWithoutTrailingHyphen(t *testing.T) {
	t.Parallel()

	// 59 letters then a separator: truncation at 60 would land on the hyphen.
	input := strings.Repeat("a", 59) + " bcdef"
	got := Slugify(input)

	assert.Equal(t, strings.Repeat("a", 59), got)
	assert.Regexp(t, slugPattern, got)
}

func TestSlugify_PropertyHoldsForAssortedInputs(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Plan a trip to Lisbon in May with $2k budget",
		strings.Repeat("word ", 40),
		"-a-", "___x___", "Ünïcödé ☃ snowman", "a--b", "9lives",
		strings.Repeat("ab-", 30),
	}
	for _, in := range inputs {
		got := Slugify(in)
		if got == "" {
			continue
		}
		assert.Regexp(t, slugPattern, got, "input %q", in)
		assert.LessOrEqual(t, len(got), MaxSlugLen)
		assert.False(t, strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-"))
	}
}

func TestDefaultPlanName(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 7, 9, 5, 0, 0, time.UTC)

	assert.Equal(t, "2026-03-07-0905-plan-a-trip", DefaultPlanName("plan a trip", now))
	assert.Equal(t, "2026-03-07-0905-one-two-three-four-five-six",
		DefaultPlanName("one two three four five six seven eight", now))
	assert.Equal(t, "2026-03-07-0905-plan", DefaultPlanName("?!", now))
}
