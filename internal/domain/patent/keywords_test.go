package patent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const wateringAbstract = "A method for watering plants using soil sensors and automated irrigation control"

func TestKeywords_SourceFiltering(t *testing.T) {
	got := Keywords(wateringAbstract, DefaultMinKeywordLength)
	assert.Equal(t, []string{"method", "watering", "plants", "using", "soil", "sensors", "automated", "irrigation", "control"}, got)
}

func TestKeywords_StripsPunctuationAndDedupes(t *testing.T) {
	got := Keywords("Solar, solar. SOLAR panels; with mounting brackets.", DefaultMinKeywordLength)
	assert.Equal(t, []string{"solar", "panels;", "mounting", "brackets"}, got)
}

func TestKeywords_LengthIsExclusive(t *testing.T) {
	assert.Empty(t, Keywords("cat dog bird fish", 4))
	assert.Equal(t, []string{"bird", "fish"}, Keywords("cat dog bird fish", 3))
}

func TestKeywords_CountsCharactersNotBytes(t *testing.T) {
	assert.Equal(t, []string{"über"}, Keywords("über öl", 3))
}

func TestKeywords_DropsStopWords(t *testing.T) {
	// "with" passes the length filter only when minLength is lowered.
	assert.Empty(t, Keywords("with the and", 0))
	for _, w := range []string{"a", "an", "the", "in", "on", "of", "for", "to", "with", "is", "was", "and", "or"} {
		assert.True(t, IsStopWord(w), w)
	}
	assert.False(t, IsStopWord("soil"))
}

func TestTokenSet_NoFiltering(t *testing.T) {
	set := TokenSet("The soil,  is  WET.\nNew\tline")
	for _, w := range []string{"the", "soil", "is", "wet", "new", "line"} {
		assert.Contains(t, set, w)
	}
	assert.Len(t, set, 6)
}

func TestOverlap(t *testing.T) {
	kws := Keywords(wateringAbstract, DefaultMinKeywordLength)
	assert.Equal(t, 4, Overlap(kws, TokenSet("soil sensors enable automated irrigation")))
	assert.Equal(t, 1, Overlap(kws, TokenSet("tall plants")))
	assert.Equal(t, 0, Overlap(nil, TokenSet("soil")))
}

//Personal.AI order the ending
