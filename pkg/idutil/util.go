package idutil

import (
	"strconv"

	"github.com/pepelotto/backend/pkg/crypto"
)

const (
	midAlphabet  = "aVmkpDnZtb"
	edgeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// Added to the database sequence number so every code middle segment
	// has the same length.
	seedOffset = 1234567890
)

// InvitationCode derives a fixed-length invitation code from a database
// auto-increment sequence number. Each digit of seed+seedOffset maps to a
// character of midAlphabet; a random character is appended at both ends.
func InvitationCode(seed int64) string {
	sum := strconv.FormatInt(seed+seedOffset, 10)

	middle := make([]byte, 0, len(sum))
	for _, c := range sum {
		middle = append(middle, midAlphabet[c-'0'])
	}

	head := edgeAlphabet[crypto.RandIntn(len(edgeAlphabet))]
	tail := edgeAlphabet[crypto.RandIntn(len(edgeAlphabet))]
	return string(head) + string(middle) + string(tail)
}
