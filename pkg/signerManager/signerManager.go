// Package signerManager provides the address to signing-capability registry consulted by
// the composer when a transaction request does not carry its own signer.
package signerManager

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Layr-Labs/txgroup-go/pkg/txSigner"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

var (
	// ErrSignerNotFound is returned when no signer is registered for an address
	ErrSignerNotFound = errors.New("signer not found")
)

// ISignerManager defines the interface for managing signing capabilities.
type ISignerManager interface {
	// AddSigner registers signer for addr, replacing any previous entry
	AddSigner(addr types.Address, signer txSigner.ITransactionSigner)
	// GetSignerForAddress retrieves the signer registered for addr
	GetSignerForAddress(addr types.Address) (txSigner.ITransactionSigner, error)
}

// SignerManager implements ISignerManager with a registry indexed by address.
// Entries are expected to be populated at setup time; concurrent writers follow
// last-writer-wins semantics.
type SignerManager struct {
	signers sync.Map // map[types.Address]txSigner.ITransactionSigner
}

// NewSignerManager creates a new SignerManager with an empty registry.
func NewSignerManager() *SignerManager {
	return &SignerManager{}
}

// AddSigner registers signer for addr. An existing entry is overwritten.
func (sm *SignerManager) AddSigner(addr types.Address, signer txSigner.ITransactionSigner) {
	sm.signers.Store(addr, signer)
}

// AddSignerForOwnAddress registers signer under the address it reports via GetAddress.
func (sm *SignerManager) AddSignerForOwnAddress(signer txSigner.ITransactionSigner) (types.Address, error) {
	addr, err := signer.GetAddress()
	if err != nil {
		return types.Address{}, fmt.Errorf("failed to get signer address: %w", err)
	}
	sm.AddSigner(addr, signer)
	return addr, nil
}

// RemoveSigner drops the entry for addr, if any.
func (sm *SignerManager) RemoveSigner(addr types.Address) {
	sm.signers.Delete(addr)
}

// GetSignerForAddress retrieves the signer registered for addr.
//
// Returns:
//   - txSigner.ITransactionSigner: The registered signer
//   - error: ErrSignerNotFound if no signer is registered for addr
func (sm *SignerManager) GetSignerForAddress(addr types.Address) (txSigner.ITransactionSigner, error) {
	value, exists := sm.signers.Load(addr)
	if !exists {
		return nil, fmt.Errorf("%w for address %s", ErrSignerNotFound, addr)
	}
	signer, ok := value.(txSigner.ITransactionSigner)
	if !ok {
		return nil, fmt.Errorf("invalid signer type stored for address %s", addr)
	}
	return signer, nil
}
