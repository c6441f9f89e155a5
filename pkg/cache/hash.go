package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash returns the hex SHA-256 of data. Documents and diagram structure
// encodings are named by it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// typedKey builds "keyType:digest".
func typedKey(keyType, digest string) string {
	return keyType + ":" + digest
}

// optionsKey hashes the JSON encoding of parts under keyType. Parts are
// strings and plain option structs, so encoding cannot fail.
func optionsKey(keyType string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		panic(fmt.Sprintf("cache: %s key parts: %v", keyType, err))
	}
	return typedKey(keyType, Hash(data))
}
