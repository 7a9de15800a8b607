package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"strconv"
)

const (
	otpMin = 100000
	otpMax = 999999
)

// GenerateOTP returns a uniformly random 6-digit code in [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}

// Hasher turns an OTP into the value stored on the user record.
// Without a key it is a hex SHA-256 digest; with a key, hex HMAC-SHA256.
type Hasher struct {
	key []byte
}

func NewHasher(key string) Hasher {
	if key == "" {
		return Hasher{}
	}
	return Hasher{key: []byte(key)}
}

func (h Hasher) Hash(code string) string {
	if len(h.key) == 0 {
		sum := sha256.Sum256([]byte(code))
		return hex.EncodeToString(sum[:])
	}
	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(code))
	return hex.EncodeToString(mac.Sum(nil))
}
