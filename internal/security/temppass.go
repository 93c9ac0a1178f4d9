package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const tempPasswordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// TempPasswordLength is the length of generated temporary credentials.
const TempPasswordLength = 12

// GenerateTempPassword returns a random temporary password of n letters and
// digits drawn from crypto/rand. n below TempPasswordLength is rejected: the
// plaintext is handed to the invited user exactly once and must not be guessable.
func GenerateTempPassword(n int) (string, error) {
	if n < TempPasswordLength {
		return "", errors.New("temporary password must be at least 12 characters")
	}
	out := make([]byte, n)
	max := big.NewInt(int64(len(tempPasswordAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = tempPasswordAlphabet[idx.Int64()]
	}
	return string(out), nil
}
