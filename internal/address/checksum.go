// Package address implements address-string checksumming (EIP-55/EIP-1191)
// and contract-address derivation (CREATE/CREATE2, EIP-1014).
package address

import (
	"encoding/hex"
	"math/big"
	"regexp"
	"strings"

	"github.com/puneettiwariofficial/go-dpt/internal/keccak"
)

// Size is the byte length of an Ethereum address.
const Size = 20

var hexAddrPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsValidAddress reports whether s is a 0x-prefixed 40-hex-digit address,
// regardless of checksum casing.
func IsValidAddress(s string) bool {
	return hexAddrPattern.MatchString(s)
}

// ToChecksumAddress applies the EIP-55 checksum casing to s, or the
// EIP-1191 variant when chainID is non-nil. s must already satisfy
// IsValidAddress; casing in s is ignored.
func ToChecksumAddress(s string, chainID *big.Int) (string, error) {
	if !IsValidAddress(s) {
		return "", ErrInvalidAddress
	}

	addr := strings.ToLower(s[2:])

	var preimage []byte
	if chainID != nil {
		preimage = append(preimage, []byte(chainID.String())...)
		preimage = append(preimage, '0', 'x')
	}
	preimage = append(preimage, []byte(addr)...)

	digest := keccak.Sum256(preimage)
	hashHex := hex.EncodeToString(digest[:])

	out := make([]byte, 40)
	for i := 0; i < 40; i++ {
		c := addr[i]
		nibble := hexNibble(hashHex[i])
		if nibble >= 8 && c >= 'a' && c <= 'f' {
			out[i] = c - ('a' - 'A')
		} else {
			out[i] = c
		}
	}

	return "0x" + string(out), nil
}

// IsValidChecksumAddress reports whether s is a valid address whose casing
// matches ToChecksumAddress(s, chainID) exactly.
func IsValidChecksumAddress(s string, chainID *big.Int) bool {
	if !IsValidAddress(s) {
		return false
	}
	checksummed, err := ToChecksumAddress(s, chainID)
	if err != nil {
		return false
	}
	return checksummed == s
}

func hexNibble(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return 0
	}
}
