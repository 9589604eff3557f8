// Package account implements the Ethereum consensus account model: the
// nonce/balance/storageRoot/codeHash quadruple, its canonical RLP
// encoding, the EIP-161 emptiness predicate, and the slim wire form used
// when a peer already knows the default roots.
//
// Grounded on the account-trie StateAccount type shared by every
// go-ethereum derivative in the corpus, generalized to accept optional
// constructor fields and to expose the slim<->full conversion as a
// standalone, lossless, idempotent pair of functions.
package account

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/puneettiwariofficial/go-dpt/internal/bigbytes"
	"github.com/puneettiwariofficial/go-dpt/internal/keccak"
)

// RootSize is the fixed byte length of storageRoot and codeHash.
const RootSize = 32

// Account is the Ethereum consensus representation of an account: value
// object, immutable after construction by discipline (Go cannot enforce
// this at the language level; use Copy before any would-be in-place edit).
type Account struct {
	nonce       *big.Int
	balance     *big.Int
	storageRoot [RootSize]byte
	codeHash    [RootSize]byte
}

// Fields is the optional-input constructor shape for From. A nil Nonce or
// Balance defaults to zero; a nil StorageRoot or CodeHash defaults to the
// empty-trie / empty-code hash respectively. A non-nil root must be exactly
// RootSize bytes.
type Fields struct {
	Nonce       *big.Int
	Balance     *big.Int
	StorageRoot []byte
	CodeHash    []byte
}

// From builds an Account from optional fields, resolving every unset field
// to its default and validating the invariants: nonce >= 0, balance >= 0,
// storageRoot and codeHash exactly RootSize bytes.
func From(f Fields) (*Account, error) {
	a := &Account{
		nonce:       new(big.Int),
		balance:     new(big.Int),
		storageRoot: keccak.KeccakRLPEmpty,
		codeHash:    keccak.KeccakNull,
	}

	if f.Nonce != nil {
		if f.Nonce.Sign() < 0 {
			return nil, fmt.Errorf("%w: nonce must be non-negative", ErrInvalid)
		}
		a.nonce = new(big.Int).Set(f.Nonce)
	}
	if f.Balance != nil {
		if f.Balance.Sign() < 0 {
			return nil, fmt.Errorf("%w: balance must be non-negative", ErrInvalid)
		}
		a.balance = new(big.Int).Set(f.Balance)
	}
	if f.StorageRoot != nil {
		if len(f.StorageRoot) != RootSize {
			return nil, fmt.Errorf("%w: storageRoot must be %d bytes", ErrInvalid, RootSize)
		}
		copy(a.storageRoot[:], f.StorageRoot)
	}
	if f.CodeHash != nil {
		if len(f.CodeHash) != RootSize {
			return nil, fmt.Errorf("%w: codeHash must be %d bytes", ErrInvalid, RootSize)
		}
		copy(a.codeHash[:], f.CodeHash)
	}

	return a, nil
}

// New returns the default account: zero nonce, zero balance, empty-trie
// storage root, empty-code hash. Equivalent to From(Fields{}).
func New() *Account {
	a, _ := From(Fields{})
	return a
}

// rawBody is the wire shape shared by Raw, Serialize and FromRLP: a
// 4-element list of byte strings in (nonce, balance, storageRoot,
// codeHash) order.
type rawBody [][]byte

// Raw returns [nonceBytes, balanceBytes, storageRoot, codeHash] with nonce
// and balance in unpadded big-endian form.
func (a *Account) Raw() [][]byte {
	return rawOf(a)
}

func rawOf(a *Account) [][]byte {
	return [][]byte{
		bigbytes.ToUnpadded(a.nonce),
		bigbytes.ToUnpadded(a.balance),
		append([]byte{}, a.storageRoot[:]...),
		append([]byte{}, a.codeHash[:]...),
	}
}

// Serialize RLP-encodes Raw().
func (a *Account) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(rawOf(a))
}

// FromRLP decodes an RLP list of exactly four byte strings into an
// Account. It fails with ErrMalformed if the payload does not decode as
// such a list, and ErrInvalid if the decoded fields break an invariant.
func FromRLP(data []byte) (*Account, error) {
	var body rawBody
	if err := rlp.DecodeBytes(data, &body); err != nil {
		return nil, ErrMalformed
	}
	if len(body) != 4 {
		return nil, ErrMalformed
	}

	storageRoot := body[2]
	if len(storageRoot) == 0 {
		storageRoot = nil
	}
	codeHash := body[3]
	if len(codeHash) == 0 {
		codeHash = nil
	}

	return From(Fields{
		Nonce:       bigbytes.FromUnpadded(body[0]),
		Balance:     bigbytes.FromUnpadded(body[1]),
		StorageRoot: storageRoot,
		CodeHash:    codeHash,
	})
}

// Nonce returns a copy of the account's nonce.
func (a *Account) Nonce() *big.Int { return new(big.Int).Set(a.nonce) }

// Balance returns a copy of the account's balance.
func (a *Account) Balance() *big.Int { return new(big.Int).Set(a.balance) }

// StorageRoot returns the account's storage root.
func (a *Account) StorageRoot() [RootSize]byte { return a.storageRoot }

// CodeHash returns the account's code hash.
func (a *Account) CodeHash() [RootSize]byte { return a.codeHash }

// IsContract reports whether the account has code, per EIP-161: codeHash
// differs from the empty-code hash.
func (a *Account) IsContract() bool {
	return a.codeHash != keccak.KeccakNull
}

// IsEmpty reports whether the account is empty per EIP-161: zero nonce,
// zero balance, no code.
func (a *Account) IsEmpty() bool {
	return a.nonce.Sign() == 0 && a.balance.Sign() == 0 && a.codeHash == keccak.KeccakNull
}

// Copy returns a deep copy, the escape hatch for callers that need to
// derive a modified account without mutating a shared one.
func (a *Account) Copy() *Account {
	cp := &Account{
		nonce:       new(big.Int).Set(a.nonce),
		balance:     new(big.Int).Set(a.balance),
		storageRoot: a.storageRoot,
		codeHash:    a.codeHash,
	}
	return cp
}

// ToSlim converts a raw 4-element account body (as returned by Raw) to its
// slim wire form: a default storageRoot or codeHash is replaced by the
// empty byte string. Non-default roots pass through unchanged.
func ToSlim(body [][]byte) [][]byte {
	out := make([][]byte, 4)
	copy(out, body)
	if len(out[2]) == RootSize && asRoot(out[2]) == keccak.KeccakRLPEmpty {
		out[2] = []byte{}
	}
	if len(out[3]) == RootSize && asRoot(out[3]) == keccak.KeccakNull {
		out[3] = []byte{}
	}
	return out
}

// FromSlim is the inverse of ToSlim: an empty storageRoot or codeHash is
// expanded back to its default value. ToSlim/FromSlim round-trip losslessly
// and idempotently on any well-formed 4-element body.
func FromSlim(body [][]byte) [][]byte {
	out := make([][]byte, 4)
	copy(out, body)
	if len(out[2]) == 0 {
		out[2] = append([]byte{}, keccak.KeccakRLPEmpty[:]...)
	}
	if len(out[3]) == 0 {
		out[3] = append([]byte{}, keccak.KeccakNull[:]...)
	}
	return out
}

func asRoot(b []byte) [RootSize]byte {
	var out [RootSize]byte
	copy(out[:], b)
	return out
}
