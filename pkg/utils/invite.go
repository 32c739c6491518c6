package utils

import (
	"math/rand"
	"strings"
	"time"
)

const inviteCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))

// GenerateInviteCode produces a random team invite code. Codes are
// checked against a unique index on insert, so collisions just retry.
func GenerateInviteCode(length int) string {
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		sb.WriteByte(inviteCharset[seededRand.Intn(len(inviteCharset))])
	}
	return sb.String()
}
