package test

import "math/rand/v2"

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// RandomString returns a pseudo-random lowercase alphanumeric string of length n.
func RandomString(n int) string {
	if n <= 0 {
		n = 1
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}
	return string(buf)
}

// RandomID returns an identifier with the given prefix, e.g. "order-k3j9x2ab".
func RandomID(prefix string) string {
	return prefix + "-" + RandomString(8)
}
