// Package random generates short alphanumeric identifiers: String for
// non-sensitive ids (toast entries, request prefixes), StringSecure for
// tokens that must be unguessable.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/big"
	mrand "math/rand"
	"sync"
)

const charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

var (
	mu  sync.Mutex
	rng *mrand.Rand
)

func init() {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic("random: cannot seed generator: " + err.Error())
	}
	rng = mrand.New(mrand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))
}

func String(length int) string {
	b := make([]byte, length)
	mu.Lock()
	for i := range b {
		b[i] = charset[rng.Intn(len(charset))]
	}
	mu.Unlock()
	return string(b)
}

func StringSecure(length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		l := big.NewInt(int64(len(charset)))
		num, err := crand.Int(crand.Reader, l)
		if err != nil {
			return "", err
		}
		b[i] = charset[num.Int64()]
	}
	return string(b), nil
}
