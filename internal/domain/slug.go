package domain

import (
	"strings"
	"time"
)

// MaxSlugLen bounds the length of generated identifiers.
const MaxSlugLen = 60

// defaultNameWords is how many leading goal words seed a default plan name.
const defaultNameWords = 6

// Slugify lowercases input and collapses every run of characters outside
// [a-z0-9] into a single hyphen. The result never starts or ends with a
// hyphen and is at most MaxSlugLen bytes. It may be empty.
func Slugify(input string) string {
	lower := strings.ToLower(input)

	var b strings.Builder
	b.Grow(len(lower))
	pendingHyphen := false
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteByte(c)
			continue
		}
		pendingHyphen = true
	}

	out := b.String()
	if len(out) > MaxSlugLen {
		out = out[:MaxSlugLen]
	}
	return strings.TrimRight(out, "-")
}

// NowStamp formats t as YYYY-MM-DD-HHMM.
func NowStamp(t time.Time) string {
	return t.Format("2006-01-02-1504")
}

// DefaultPlanName builds the fallback plan name for goal at time now.
func DefaultPlanName(goal string, now time.Time) string {
	words := strings.Fields(goal)
	if len(words) > defaultNameWords {
		words = words[:defaultNameWords]
	}
	slug := FirstNonEmpty(Slugify(strings.Join(words, " ")), "plan")
	return NowStamp(now) + "-" + slug
}

// FirstNonEmpty returns the first of vals that is not "".
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
