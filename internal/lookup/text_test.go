package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "used as a greeting", want: "used as a greeting"},
		{name: "markup removed", input: "a <b>bold</b> <script>alert(1)</script>claim", want: "a bold claim"},
		{name: "entities kept as text", input: "Q&amp;A and x &lt; y", want: "Q&A and x < y"},
		{name: "whitespace collapsed", input: "  We study\n   transformers.\n", want: "We study transformers."},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

func TestCollapseSpace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "whitespace collapsed", input: "  Sample\n      Title ", want: "Sample Title"},
		{name: "comparison kept", input: "bounds for $n<k$ and a<b", want: "bounds for $n<k$ and a<b"},
		{name: "entities not decoded again", input: "Q&amp;A", want: "Q&amp;A"},
		{name: "empty", input: " \n ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CollapseSpace(tt.input))
		})
	}
}
