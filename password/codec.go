package password

// Codec converts plaintext passwords to stored digests and verifies
// candidates against them. The engine treats digests as opaque; only
// the codec that produced one can verify against it.
type Codec interface {
	Digest(plaintext string) (string, error)
	Verify(plaintext, digest string) (bool, error)
}
