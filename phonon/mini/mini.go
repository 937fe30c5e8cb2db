package mini

import (
	"strconv"

	"github.com/noisefloor-audio/phonon-go/phonon/pattern"
)

// Parse compiles mini-notation source into a Pattern of raw string
// tokens. Callers (the DSL builder, or direct API users) interpret each
// token as a number, note name, or sample name depending on context.
func Parse(src string) (pattern.Pattern[string], error) {
	tree, err := parse(src)
	if err != nil {
		return pattern.Pattern[string]{}, err
	}
	return compile(tree), nil
}

// ParseNumeric parses mini-notation source and interprets every token as
// a float64, for patterns like "220 330 440" or "0.2 1.0" used to drive a
// numeric Signal slot. A token that fails to parse as a number is
// dropped from its hap's slot (a rest effect) rather than aborting the
// whole pattern, matching §7's "degrade gracefully" policy for malformed
// runtime data.
func ParseNumeric(src string) (pattern.Pattern[float64], error) {
	strs, err := Parse(src)
	if err != nil {
		return pattern.Pattern[float64]{}, err
	}
	return pattern.New(func(s pattern.State) []pattern.Hap[float64] {
		in := strs.Query(s)
		out := make([]pattern.Hap[float64], 0, len(in))
		for _, h := range in {
			f, err := strconv.ParseFloat(h.Value, 64)
			if err != nil {
				continue
			}
			out = append(out, pattern.WithValue(h, f))
		}
		return out
	}), nil
}

// ParseBool interprets tokens "t"/"true"/"1" as true and anything else as
// false, used for boolean gate/mask mini-notation such as "t f t t".
func ParseBool(src string) (pattern.Pattern[bool], error) {
	strs, err := Parse(src)
	if err != nil {
		return pattern.Pattern[bool]{}, err
	}
	return pattern.Fmap(strs, func(s string) bool {
		return s == "t" || s == "true" || s == "1"
	}), nil
}
