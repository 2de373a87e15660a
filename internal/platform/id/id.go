package id

import (
	"crypto/rand"
	"encoding/hex"
)

// Generator creates opaque identifiers. Render jobs use them to name
// output files, so values must be filesystem-safe.
type Generator interface {
	New() string
}

type RandomHex struct{}

func (RandomHex) New() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
