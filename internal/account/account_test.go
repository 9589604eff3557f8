package account

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puneettiwariofficial/go-dpt/internal/keccak"
)

func TestDefaultAccount(t *testing.T) {
	a := New()

	raw := a.Raw()
	require.Len(t, raw, 4)
	assert.Equal(t, []byte{}, raw[0])
	assert.Equal(t, []byte{}, raw[1])
	assert.Equal(t, keccak.KeccakRLPEmpty[:], raw[2])
	assert.Equal(t, keccak.KeccakNull[:], raw[3])

	assert.True(t, a.IsEmpty())
	assert.False(t, a.IsContract())

	serialized, err := a.Serialize()
	require.NoError(t, err)
	assert.NotEmpty(t, serialized)
}

func TestFromRLPRoundTrip(t *testing.T) {
	a, err := From(Fields{
		Nonce:   big.NewInt(7),
		Balance: big.NewInt(1_000_000),
	})
	require.NoError(t, err)

	data, err := a.Serialize()
	require.NoError(t, err)

	back, err := FromRLP(data)
	require.NoError(t, err)

	assert.Equal(t, a.Nonce(), back.Nonce())
	assert.Equal(t, a.Balance(), back.Balance())
	assert.Equal(t, a.StorageRoot(), back.StorageRoot())
	assert.Equal(t, a.CodeHash(), back.CodeHash())
}

func TestFromRLPMalformed(t *testing.T) {
	// A bare RLP byte string, not a list, must be rejected.
	_, err := FromRLP([]byte{0x83, 'a', 'b', 'c'})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestFromRLPWrongArity(t *testing.T) {
	data, err := rlp.EncodeToBytes([][]byte{{0x01}, {0x02}, {0x03}})
	require.NoError(t, err)
	_, err = FromRLP(data)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestInvalidFields(t *testing.T) {
	_, err := From(Fields{Nonce: big.NewInt(-1)})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = From(Fields{StorageRoot: []byte{0x01, 0x02}})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestIsContract(t *testing.T) {
	codeHash := keccak.Sum256([]byte{0x60, 0x60})
	a, err := From(Fields{CodeHash: codeHash[:]})
	require.NoError(t, err)
	assert.True(t, a.IsContract())
	assert.False(t, a.IsEmpty())
}

func TestSlimRoundTrip(t *testing.T) {
	a := New()
	body := a.Raw()

	slim := ToSlim(body)
	assert.Empty(t, slim[2])
	assert.Empty(t, slim[3])

	full := FromSlim(slim)
	assert.Equal(t, body, full)

	// Idempotent under a second round trip.
	assert.Equal(t, slim, ToSlim(FromSlim(slim)))
}

func TestSlimPreservesNonDefaultRoots(t *testing.T) {
	nonDefaultRoot := keccak.Sum256([]byte("storage"))
	nonDefaultCode := keccak.Sum256([]byte("code"))
	a, err := From(Fields{StorageRoot: nonDefaultRoot[:], CodeHash: nonDefaultCode[:]})
	require.NoError(t, err)

	body := a.Raw()
	slim := ToSlim(body)
	assert.Equal(t, body, slim)
}

func TestCopyIsIndependent(t *testing.T) {
	a, err := From(Fields{Nonce: big.NewInt(1)})
	require.NoError(t, err)
	cp := a.Copy()
	cp.nonce.SetInt64(99)
	assert.Equal(t, big.NewInt(1), a.Nonce())
}
