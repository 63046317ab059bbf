package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// CodeGenerator produces human-readable order codes.
type CodeGenerator func(now time.Time) string

var codeSpace = big.NewInt(1_000_000)

// RandomCode returns ORD-YYYYMMDD-NNNNNN with a random six digit suffix.
func RandomCode(now time.Time) string {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		n = big.NewInt(now.UnixNano() % codeSpace.Int64())
	}
	return fmt.Sprintf("ORD-%s-%06d", now.Format("20060102"), n.Int64())
}
