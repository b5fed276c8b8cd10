package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		input    string
		expected Set
	}{
		{"what is phishing", Set{Definition}},
		{"explain ransomware", Set{Definition}},
		{"how to prevent malware", Set{Action}},
		{"how do i protect myself", Set{Action}},
		{"where to report cybercrime", Set{Report}},
		{"what is the complaint process and how to prevent fraud", Set{Definition, Action, Report}},
		{"ransomware", Set{General}},
		{"", Set{General}},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, Classify(tc.input), "input %q", tc.input)
	}
}

func TestSet_Has(t *testing.T) {
	s := Set{Definition, Report}
	assert.True(t, s.Has(Definition))
	assert.True(t, s.Has(Report))
	assert.False(t, s.Has(Action))
	assert.False(t, s.Has(General))
	assert.Equal(t, []string{"definition", "report"}, s.Strings())
}
