package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateMeetingLink(t *testing.T) {
	pattern := regexp.MustCompile(`^https://meet\.google\.com/[a-z]{3}-[a-z]{4}-[a-z]{3}$`)
	for i := 0; i < 20; i++ {
		assert.Regexp(t, pattern, GenerateMeetingLink())
	}
}
