package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/hex"
	"hash"
	"math/big"
)

// HMAC computes the hex-encoded authentication code of data under secret.
func HMAC(hashFunc func() hash.Hash, data []byte, secret []byte) string {
	h := hmac.New(hashFunc, secret)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// HMACSum is HMAC without the hex encoding, for chained derivations.
func HMACSum(hashFunc func() hash.Hash, data []byte, secret []byte) []byte {
	h := hmac.New(hashFunc, secret)
	h.Write(data)
	return h.Sum(nil)
}

// RandIntn returns a uniform random value in [0, n). It panics if got a
// non-positive parameter.
func RandIntn(n int) int {
	r, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(r.Int64())
}

// RandRange returns a uniform random value in [a, b). It panics if got a
// non-positive parameter or a>=b.
func RandRange(a, b int) int {
	return RandIntn(b-a) + a
}

// RandSeed returns a random seed for a pseudo random generator.
func RandSeed() int64 {
	r, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	if err != nil {
		panic(err)
	}

	return r.Int64()
}
