package address

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/puneettiwariofficial/go-dpt/internal/keccak"
)

// GenerateAddress derives the CREATE contract address for a deployer at
// from with the given (unpadded big-endian) nonce: the low 20 bytes of
// keccak256(RLP([from, nonce])). A zero nonce RLP-encodes as the empty
// byte string, per canonical RLP form.
func GenerateAddress(from [Size]byte, nonce []byte) ([Size]byte, error) {
	encoded, err := rlp.EncodeToBytes([][]byte{from[:], nonce})
	if err != nil {
		return [Size]byte{}, err
	}
	digest := keccak.Sum256(encoded)
	var out [Size]byte
	copy(out[:], digest[len(digest)-Size:])
	return out, nil
}

// GenerateAddress2 derives the CREATE2 contract address (EIP-1014): the
// low 20 bytes of keccak256(0xff || from || salt || keccak256(initCode)).
func GenerateAddress2(from []byte, salt []byte, initCode []byte) ([Size]byte, error) {
	if len(from) != Size {
		return [Size]byte{}, ErrLength
	}
	if len(salt) != 32 {
		return [Size]byte{}, ErrLength
	}

	initCodeHash := keccak.Sum256(initCode)
	digest := keccak.Sum256([]byte{0xff}, from, salt, initCodeHash[:])

	var out [Size]byte
	copy(out[:], digest[len(digest)-Size:])
	return out, nil
}
