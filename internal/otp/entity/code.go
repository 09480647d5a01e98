package entity

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

var codeSpan = big.NewInt(900000)

// NewCode draws a code uniformly from [100000, 999999].
func NewCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpan)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
