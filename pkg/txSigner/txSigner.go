// Package txSigner provides Algorand transaction signing functionality for group composition.
// This package defines the signing capability consumed by the composer and executor, with
// implementations backed by an in-memory ed25519 key or a mnemonic held in AWS Secrets Manager.
package txSigner

import (
	"context"

	"github.com/algorand/go-algorand-sdk/v2/types"
)

// ITransactionSigner defines the interface for signing Algorand transactions.
// A signer is an opaque capability able to authorize transactions on behalf of one
// account. Implementations are expected to be pointer types so that the executor can
// batch every index owned by the same signer into a single call.
type ITransactionSigner interface {
	// SignTransactions signs the transactions at indexesToSign within txGroup.
	// The whole group is passed so that implementations may inspect the group context.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - txGroup: The complete, ordered transaction group
	//   - indexesToSign: Positions within txGroup that this signer must sign
	//
	// Returns:
	//   - [][]byte: msgpack encoded signed transactions, one per requested index, in order
	//   - error: An error if any transaction cannot be signed
	SignTransactions(ctx context.Context, txGroup []types.Transaction, indexesToSign []int) ([][]byte, error)

	// GetAddress returns the address of the key that produces signatures.
	// For rekeyed accounts this is the auth address, not the sender.
	//
	// Returns:
	//   - types.Address: The signing address
	//   - error: An error if the address cannot be determined
	GetAddress() (types.Address, error)
}
