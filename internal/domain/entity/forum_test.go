package entity

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPostExcerpt(t *testing.T) {
	short := "fits as is"
	assert.Equal(t, short, PostExcerpt(short))

	long := strings.Repeat("a", ExcerptLength+40)
	assert.Equal(t, strings.Repeat("a", ExcerptLength), PostExcerpt(long))
}

func TestPostExcerptKeepsRuneBoundary(t *testing.T) {
	// Three-byte runes placed so the cap lands mid-rune
	content := strings.Repeat("语", ExcerptLength)

	excerpt := PostExcerpt(content)

	assert.True(t, utf8.ValidString(excerpt))
	assert.LessOrEqual(t, len(excerpt), ExcerptLength)
	assert.NotEmpty(t, excerpt)
}
