package faker

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource returns the queued values in order, then zeros.
type fixedSource struct {
	values []int
	calls  []int
}

func (s *fixedSource) Intn(n int) int {
	s.calls = append(s.calls, n)
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[0]
	s.values = s.values[1:]
	return v % n
}

func (s *fixedSource) Numerify(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		if r == DigitPlaceholder {
			b.WriteByte(byte('0' + s.Intn(10)))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *fixedSource) Fork() Source { return &fixedSource{} }

func TestCompileRecognizesPlaceholders(t *testing.T) {
	tpl := Compile("+44%###")

	assert.Equal(t, 7, tpl.Len())
	assert.Equal(t, 4, tpl.Placeholders())

	tokens := tpl.Tokens()
	assert.Equal(t, Token{Kind: TokenLiteral, Literal: '+'}, tokens[0])
	assert.Equal(t, TokenNonZeroDigit, tokens[3].Kind)
	assert.Equal(t, TokenDigit, tokens[6].Kind)
}

func TestTemplateStringRoundTrips(t *testing.T) {
	pattern := "+1613%######"
	assert.Equal(t, pattern, Compile(pattern).String())
}

func TestExpandDrawsOnePerPlaceholder(t *testing.T) {
	src := &fixedSource{values: []int{0, 9, 3}}

	got := Compile("+61%#-#").Expand(src)

	// '%' maps 0 to '1'; '#' maps directly.
	assert.Equal(t, "+6119-3", got)
	assert.Equal(t, []int{9, 10, 10}, src.calls)
}

func TestExpandWithSeededSource(t *testing.T) {
	got := Compile("+44%#########").Expand(NewSource(3))

	require.Len(t, got, 13)
	assert.Regexp(t, regexp.MustCompile(`^\+44[1-9]\d{9}$`), got)
}

func TestExpandNonZeroNeverYieldsZero(t *testing.T) {
	src := NewSource(42)
	tpl := Compile(strings.Repeat("%", 64))
	for i := 0; i < 100; i++ {
		require.NotContains(t, tpl.Expand(src), "0")
	}
}

func TestExpandWithoutPlaceholdersConsumesNothing(t *testing.T) {
	src := &fixedSource{}

	assert.Equal(t, "+44", Compile("+44").Expand(src))
	assert.Empty(t, src.calls)
}
