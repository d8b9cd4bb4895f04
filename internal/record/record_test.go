package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Line
	}{
		{"1. One Two", Line{Prefix: "1.", Suffix: "One Two"}},
		{"42. Nine", Line{Prefix: "42.", Suffix: "Nine"}},
		{"noSpaceHere", Line{Prefix: "noSpaceHere", Suffix: ""}},
		{"", Line{Prefix: "", Suffix: ""}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Parse(c.in), "Parse(%q)", c.in)
	}
}

func TestStringRoundTrip(t *testing.T) {
	assert.Equal(t, "1. One Two", Parse("1. One Two").String())
	assert.Equal(t, "noSpaceHere", Parse("noSpaceHere").String())
}

func TestLessPrefixBreaksSuffixTie(t *testing.T) {
	a := Parse("2. apple")
	b := Parse("1. apple")
	// ties on suffix ("apple"); prefix breaks the tie
	assert.False(t, Less(a, b))
	assert.True(t, Less(b, a))
}

func TestLessBySuffix(t *testing.T) {
	a := Parse("3. Three Four")
	b := Parse("1. One Two")
	assert.True(t, Less(b, a))
	assert.False(t, Less(a, b))
}

func TestCompareAgreesWithLess(t *testing.T) {
	lines := []Line{Parse("3. Three Four"), Parse("1. One Two"), Parse("2. Two Three")}
	for i := range lines {
		for j := range lines {
			got := Compare(lines[i], lines[j])
			if got < 0 {
				assert.True(t, Less(lines[i], lines[j]))
			}
			if got > 0 {
				assert.True(t, Less(lines[j], lines[i]))
			}
		}
	}
}
