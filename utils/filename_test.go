package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"bird.png", "bird.png"},
		{"  bird.png ", "bird.png"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\bird.png`, "bird.png"},
		{"dir/", "dir"},
		{"..", ""},
		{"", ""},
		{"/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestGenerateImageName(t *testing.T) {
	ts := time.UnixMilli(1713456789123)
	assert.Equal(t, "1713456789123-bird.png", GenerateImageName(ts, "bird.png"))
}

func TestIsValidImageName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"1700000000000-bird.png", true},
		{"my..png", true},
		{"", false},
		{".", false},
		{"..", false},
		{"../x", false},
		{"a/b.png", false},
		{`a\b.png`, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidImageName(tt.name), tt.name)
	}
}
