package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineDiff(t *testing.T) {
	tests := []struct {
		name   string
		before string
		after  string
		want   string
	}{
		{
			name:   "collapsed_call",
			before: "const x = 1\nreturn res.status(200).json(\n  { error: 'bad' },\n  { status: 404 }\n)\n",
			after:  "const x = 1\nreturn res.status(404).json({ error: 'bad' })\n",
			want: "-return res.status(200).json(\n" +
				"-  { error: 'bad' },\n" +
				"-  { status: 404 }\n" +
				"-)\n" +
				"+return res.status(404).json({ error: 'bad' })\n",
		},
		{
			name:   "identical",
			before: "a\nb\n",
			after:  "a\nb\n",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LineDiff([]byte(tt.before), []byte(tt.after)))
		})
	}
}
