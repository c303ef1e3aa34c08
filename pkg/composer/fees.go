package composer

import (
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/encoding/msgpack"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

// signatureOverhead approximates the bytes a single ed25519 signature adds to the
// encoded signed transaction.
const signatureOverhead = 75

// checkFeeDirectives rejects specs that set both fee directives.
func checkFeeDirectives(c *CommonParams) error {
	if c.FlatFee != nil && c.ExtraFee != nil {
		return fmt.Errorf("%w: sender %s sets both flat fee and extra fee", ErrConfiguration, c.Sender)
	}
	return nil
}

// newTransaction returns a transaction of txType with the header populated from
// Sender and the validity window of params.
func newTransaction(txType types.TxType, c *CommonParams, params types.SuggestedParams) types.Transaction {
	txn := types.Transaction{Type: txType}
	txn.Sender = c.Sender
	txn.GenesisID = params.GenesisID
	copy(txn.GenesisHash[:], params.GenesisHash)

	txn.FirstValid = params.FirstRoundValid
	txn.LastValid = params.LastRoundValid
	if c.FirstValidRound != nil {
		txn.FirstValid = types.Round(*c.FirstValidRound)
	}
	if c.ValidityWindow != nil {
		txn.LastValid = txn.FirstValid + types.Round(*c.ValidityWindow)
	}
	return txn
}

// applyCommonFields attaches lease, rekey and note, then computes the fee over the
// fully populated transaction.
func applyCommonFields(txn *types.Transaction, c *CommonParams, params types.SuggestedParams) error {
	if err := checkFeeDirectives(c); err != nil {
		return err
	}
	if c.Lease != nil {
		txn.Lease = *c.Lease
	}
	if c.RekeyTo != nil {
		txn.RekeyTo = *c.RekeyTo
	}
	if c.Note != nil {
		txn.Note = c.Note
	}
	txn.Fee = computeFee(*txn, c, params)
	return nil
}

// computeFee is FlatFee when set, otherwise max(size * rate, minFee) plus ExtraFee.
// A source that marks its params as flat has its fee rate used as the fee itself.
func computeFee(txn types.Transaction, c *CommonParams, params types.SuggestedParams) types.MicroAlgos {
	if c.FlatFee != nil {
		return types.MicroAlgos(*c.FlatFee)
	}

	var fee uint64
	if params.FlatFee {
		fee = uint64(params.Fee)
	} else {
		fee = max(estimateSize(txn)*uint64(params.Fee), params.MinFee)
	}
	if c.ExtraFee != nil {
		fee += *c.ExtraFee
	}
	return types.MicroAlgos(fee)
}

// estimateSize is the encoded length of txn once signed.
func estimateSize(txn types.Transaction) uint64 {
	return uint64(len(msgpack.Encode(txn))) + signatureOverhead
}
