package txSigner

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

// PrivateKeySigner implements ITransactionSigner using a raw ed25519 private key
type PrivateKeySigner struct {
	account crypto.Account
}

// NewPrivateKeySigner creates a new PrivateKeySigner from an ed25519 private key
func NewPrivateKeySigner(privateKey ed25519.PrivateKey) (*PrivateKeySigner, error) {
	account, err := crypto.AccountFromPrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return &PrivateKeySigner{account: account}, nil
}

// NewPrivateKeySignerFromMnemonic creates a new PrivateKeySigner from a 25 word account mnemonic
func NewPrivateKeySignerFromMnemonic(m string) (*PrivateKeySigner, error) {
	privateKey, err := mnemonic.ToPrivateKey(strings.TrimSpace(m))
	if err != nil {
		return nil, fmt.Errorf("failed to parse mnemonic: %w", err)
	}
	return NewPrivateKeySigner(privateKey)
}

// SignTransactions signs the requested indexes of txGroup with the private key
func (p *PrivateKeySigner) SignTransactions(_ context.Context, txGroup []types.Transaction, indexesToSign []int) ([][]byte, error) {
	return signWithKey(p.account.PrivateKey, txGroup, indexesToSign)
}

// GetAddress returns the address associated with this private key
func (p *PrivateKeySigner) GetAddress() (types.Address, error) {
	return p.account.Address, nil
}

func signWithKey(sk ed25519.PrivateKey, txGroup []types.Transaction, indexesToSign []int) ([][]byte, error) {
	signed := make([][]byte, 0, len(indexesToSign))
	for _, idx := range indexesToSign {
		if idx < 0 || idx >= len(txGroup) {
			return nil, fmt.Errorf("index %d out of range for group of %d", idx, len(txGroup))
		}
		_, stx, err := crypto.SignTransaction(sk, txGroup[idx])
		if err != nil {
			return nil, fmt.Errorf("failed to sign transaction %d: %w", idx, err)
		}
		signed = append(signed, stx)
	}
	return signed, nil
}
