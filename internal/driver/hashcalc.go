package driver

import (
	"crypto/sha256"
	"encoding/binary"

	"osta/internal/lexer"
)

// Digest is a SHA-256 value, compatible with source.File.Hash.
type Digest [32]byte

// streamKey: H(content || schema || mode). A token stream depends on the
// file bytes and the identifier mode only.
func streamKey(content Digest, mode lexer.IdentMode) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	var salt [3]byte
	binary.LittleEndian.PutUint16(salt[:2], CacheSchema)
	salt[2] = byte(mode)
	_, _ = h.Write(salt[:])
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
