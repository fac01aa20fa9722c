// Package dedup derives the stable fingerprint used to detect duplicate
// submissions of the same issue by the same customer.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Canonical folds case and collapses whitespace in both parts, then joins
// them with a separator that cannot occur in the folded text.
func Canonical(customer, issueText string) string {
	return fold(customer) + "\n" + fold(issueText)
}

// Fingerprint hashes the canonical form of (customer, issueText). The pair
// is the dedup key; hash collisions are treated as true duplicates since the
// input domain is short, non-adversarial text.
func Fingerprint(customer, issueText string) string {
	sum := sha256.Sum256([]byte(Canonical(customer, issueText)))
	return hex.EncodeToString(sum[:])
}

func fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
