package translator

import (
	"crypto/rand"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewCompletionID returns a "chatcmpl-" id followed by 12 random
// alphanumeric characters. The same id is reused for every chunk of one
// stream.
func NewCompletionID() string {
	return "chatcmpl-" + randomAlphanumeric(12)
}

func randomAlphanumeric(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read on every supported platform only fails if the
		// system entropy source is unavailable; there is no sane recovery.
		panic("translator: crypto/rand unavailable: " + err.Error())
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(out)
}
