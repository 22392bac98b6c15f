package room

import (
	"math/rand"
	"strings"
)

const codeLength = 4
const maxRetries = 100

// I and O are left out so codes can be read aloud.
var letters = []rune("ABCDEFGHJKLMNPQRSTUVWXYZ")

// GenerateCode creates a random 4-letter uppercase room code that taken
// does not report as in use.
func GenerateCode(taken func(code string) bool) string {
	for range maxRetries {
		code := randomCode()
		if !taken(code) {
			return code
		}
	}
	// 24^4 combinations make this practically unreachable.
	return randomCode()
}

func randomCode() string {
	b := make([]rune, codeLength)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

// ValidCode reports whether code could have been produced by GenerateCode.
func ValidCode(code string) bool {
	if len(code) != codeLength {
		return false
	}
	for _, c := range code {
		if !strings.ContainsRune(string(letters), c) {
			return false
		}
	}
	return true
}
