package filesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{
			name: "file:// URI is converted to local path",
			uri:  "file:///Users/test/documents/paper.pdf",
			want: "/Users/test/documents/paper.pdf",
		},
		{
			name: "file:// URI with escaped spaces",
			uri:  "file:///Users/test/my%20documents/paper.pdf",
			want: "/Users/test/my documents/paper.pdf",
		},
		{
			name: "bare path passes through cleaned",
			uri:  "/Users/test/./documents/../paper.pdf",
			want: "/Users/test/paper.pdf",
		},
		{
			name: "relative path passes through",
			uri:  "relative/paper.pdf",
			want: "relative/paper.pdf",
		},
		{
			name: "empty uri",
			uri:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePath(tt.uri))
		})
	}
}
