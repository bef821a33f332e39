// Package util provides small helpers shared across PortfolioBot packages.
package util

import (
	"math/rand"
	"strings"
)

// GenerateRandomID generates a random ID in the format "{prefix}{hex_string}".
func GenerateRandomID(prefix string, hexLength int) string {
	return prefix + GenerateRandomHex(hexLength)
}

// GenerateRandomHex generates a random hexadecimal string of the specified length.
// Not suitable for secrets.
func GenerateRandomHex(length int) string {
	if length <= 0 {
		return ""
	}

	const hexChars = "0123456789abcdef"
	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		builder.WriteByte(hexChars[rand.Intn(16)])
	}

	return builder.String()
}

// GenerateMessageID generates a transcript message ID with "m_" prefix.
func GenerateMessageID() string {
	return GenerateRandomID("m_", 16)
}

// GenerateSessionID generates a conversation session ID with "s_" prefix.
func GenerateSessionID() string {
	return GenerateRandomID("s_", 16)
}
