package hash

// Hash produces and checks digests of short secrets.
type Hash interface {
	// Hash returns the hex encoded digest of str.
	Hash(str string) ([]byte, error)
	// Verify reports whether str hashes to hashed, in constant time.
	Verify(hashed, str string) bool
}
