package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseArgs(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, ParseArgs("a b c"))
	assert.Equal(t, []string{"a", "b c"}, ParseArgs(`a "b c"`))

	assert.Equal(t, []string{"a", "b"}, ParseArgs(`"a" "b"`))
	assert.Equal(t, []string{"a b", "c d"}, ParseArgs(`"a b" "c d"`))

	assert.Equal(t, []string{"a b", "c"}, ParseArgs(`a\ b c`))
	assert.Equal(t, []string{`a"b`, "c"}, ParseArgs(`"a\"b" c`))

	assert.Equal(t, []string{"a#b", "c&d", "e^f"}, ParseArgs("a#b c&d e^f"))
	assert.Equal(t, []string{"a b c", "d", "e"}, ParseArgs(`"a b c" d e`))

	assert.Equal(t, []string{"a", "b", "c"}, ParseArgs("  a b c  "))
	assert.Equal(t, []string{"a b", "c"}, ParseArgs(`  "a b" c  `))

	assert.Empty(t, ParseArgs(""))
	assert.Empty(t, ParseArgs("     "))
	assert.Equal(t, []string{"  "}, ParseArgs(` "  " `))
}

func TestParseArgs_FullWidthSpace(t *testing.T) {
	assert.Equal(t, []string{"start", "優勝予想", "チームA"}, ParseArgs("start　優勝予想　チームA"))
}

func TestQuoteArg(t *testing.T) {
	assert.Equal(t, "abc", QuoteArg("abc"))
	assert.Equal(t, `"a b"`, QuoteArg("a b"))
	assert.Equal(t, `"a\"b"`, QuoteArg(`a"b`))
	assert.Equal(t, `"a\\b"`, QuoteArg(`a\b`))
	assert.Equal(t, `""`, QuoteArg(""))
}

func TestQuoteArg_RoundTripsThroughParseArgs(t *testing.T) {
	for _, arg := range []string{"abc", "a b", `a"b`, `a\b`, "VCT PACIFIC"} {
		assert.Equal(t, []string{arg}, ParseArgs(QuoteArg(arg)))
	}
}
