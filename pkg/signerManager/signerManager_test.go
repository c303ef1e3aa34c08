package signerManager

import (
	"context"
	"errors"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Layr-Labs/txgroup-go/pkg/txSigner"
)

type stubSigner struct {
	addr types.Address
	err  error
}

func (s *stubSigner) SignTransactions(context.Context, []types.Transaction, []int) ([][]byte, error) {
	return nil, nil
}

func (s *stubSigner) GetAddress() (types.Address, error) {
	return s.addr, s.err
}

func TestSignerManager_GetSignerForAddress_NotFound(t *testing.T) {
	sm := NewSignerManager()

	signer, err := sm.GetSignerForAddress(types.Address{7})
	assert.Nil(t, signer)
	assert.True(t, errors.Is(err, ErrSignerNotFound))
}

func TestSignerManager_AddSigner_LastWriterWins(t *testing.T) {
	sm := NewSignerManager()
	addr := types.Address{1}
	first := &stubSigner{addr: addr}
	second := &stubSigner{addr: addr}

	sm.AddSigner(addr, first)
	sm.AddSigner(addr, second)

	got, err := sm.GetSignerForAddress(addr)
	require.NoError(t, err)
	assert.Same(t, second, got)
}

func TestSignerManager_AddSignerForOwnAddress(t *testing.T) {
	sm := NewSignerManager()
	account := crypto.GenerateAccount()
	signer, err := txSigner.NewPrivateKeySigner(account.PrivateKey)
	require.NoError(t, err)

	addr, err := sm.AddSignerForOwnAddress(signer)
	require.NoError(t, err)
	assert.Equal(t, account.Address, addr)

	got, err := sm.GetSignerForAddress(account.Address)
	require.NoError(t, err)
	assert.Same(t, signer, got)
}

func TestSignerManager_AddSignerForOwnAddress_Error(t *testing.T) {
	sm := NewSignerManager()

	_, err := sm.AddSignerForOwnAddress(&stubSigner{err: errors.New("kms down")})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "kms down")
}

func TestSignerManager_RemoveSigner(t *testing.T) {
	sm := NewSignerManager()
	addr := types.Address{3}
	sm.AddSigner(addr, &stubSigner{addr: addr})
	sm.RemoveSigner(addr)

	_, err := sm.GetSignerForAddress(addr)
	assert.ErrorIs(t, err, ErrSignerNotFound)
}
