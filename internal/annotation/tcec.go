package annotation

import (
	"strconv"
	"strings"
)

// tcecParser reads the comma separated key=value comments written by TCEC,
// e.g. "d=27, sd=41, mt=15844, tl=5416187, s=49603 kN/s, n=785473905, wv=0.43,".
type tcecParser struct{}

var _ Parser = tcecParser{}

func (p tcecParser) Parse(c MoveComment) (Annotation, error) {
	if isBook(c.Text) {
		return bookAnnotation(), nil
	}

	fields := tcecFields(c.Text)
	var a Annotation

	if v, ok := fields["wv"]; ok {
		score, err := parseScore(v)
		if err != nil {
			return Annotation{}, malformed(TCEC, "wv", v, c.Text, err)
		}
		a.Score = floatPtr(score)
	}

	if v, ok := fields["d"]; ok {
		depth, err := strconv.Atoi(v)
		if err != nil {
			return Annotation{}, malformed(TCEC, "d", v, c.Text, err)
		}
		a.Depth = intPtr(depth)
	}

	if v, ok := fields["mt"]; ok {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil || ms < 0 {
			ms = 0
		}
		a.Elapsed = floatPtr(float64(ms / 1000))
	}

	return a, nil
}

func (p tcecParser) POV() POV         { return POVWhite }
func (p tcecParser) Dialect() Dialect { return TCEC }

// tcecFields splits a TCEC comment into its key=value pairs.
// The first occurrence of a key wins.
func tcecFields(text string) map[string]string {
	fields := make(map[string]string)
	for _, part := range strings.Split(text, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if _, seen := fields[key]; seen {
			continue
		}
		fields[key] = strings.TrimSpace(value)
	}
	return fields
}
