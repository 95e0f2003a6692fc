package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 of data. Panel files and serialized
// snapshots are addressed by it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// digestKey returns "kind:" followed by the SHA-256 of contentHash and the
// JSON encoding of opts. Field names are part of the encoding, so adding an
// option to a key struct invalidates older entries.
func digestKey(kind, contentHash string, opts any) string {
	h := sha256.New()
	h.Write([]byte(contentHash))
	h.Write([]byte{0})
	// Key option structs hold only strings, ints and bools.
	_ = json.NewEncoder(h).Encode(opts)
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}
