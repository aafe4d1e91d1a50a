package utils

import (
	"math/rand"
	"strings"
	"time"
)

const meetingCodeAlphabet = "abcdefghijklmnopqrstuvwxyz"

// GenerateMeetingLink produces a Meet-style link (xxx-xxxx-xxx code) for
// online appointments created without one.
func GenerateMeetingLink() string {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	var sb strings.Builder
	for i, segment := range []int{3, 4, 3} {
		if i > 0 {
			sb.WriteByte('-')
		}
		for j := 0; j < segment; j++ {
			sb.WriteByte(meetingCodeAlphabet[seededRand.Intn(len(meetingCodeAlphabet))])
		}
	}
	return "https://meet.google.com/" + sb.String()
}
