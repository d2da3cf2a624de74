package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPassword returns the hex-encoded SHA-256 digest of a password. The
// digest is unsalted and matched byte-for-byte against the stored hash: that
// is what every existing user row contains, so the algorithm is fixed.
// The scheme has no salt and no constant-time comparison; a latent weakness
// of the original design, carried over for data compatibility.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
