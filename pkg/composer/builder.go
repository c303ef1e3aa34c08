package composer

import (
	"context"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/abi"
	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/Layr-Labs/txgroup-go/pkg/txSigner"
)

// groupBuilder materializes requests into signer-bound transactions in output order.
// All transactions of one build share params.
type groupBuilder struct {
	ctx     context.Context
	params  types.SuggestedParams
	signers ISignerResolver

	txns    []TransactionWithSigner
	methods map[int]abi.Method
}

func newGroupBuilder(ctx context.Context, params types.SuggestedParams, signers ISignerResolver) *groupBuilder {
	return &groupBuilder{
		ctx:     ctx,
		params:  params,
		signers: signers,
		methods: map[int]abi.Method{},
	}
}

func (b *groupBuilder) resolveSigner(explicit txSigner.ITransactionSigner, sender types.Address) (txSigner.ITransactionSigner, error) {
	if explicit != nil {
		return explicit, nil
	}
	if b.signers == nil {
		return nil, fmt.Errorf("%w: no signer for %s and no resolver configured", ErrResolution, sender)
	}
	signer, err := b.signers.GetSignerForAddress(sender)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResolution, err)
	}
	return signer, nil
}

// push finishes txn with the common fields, binds its signer and appends it.
func (b *groupBuilder) push(txn types.Transaction, c *CommonParams) error {
	if err := applyCommonFields(&txn, c, b.params); err != nil {
		return err
	}
	signer, err := b.resolveSigner(c.Signer, c.Sender)
	if err != nil {
		return err
	}
	b.txns = append(b.txns, TransactionWithSigner{Txn: txn, Signer: signer})
	return nil
}

func optionalAddress(addr *types.Address) types.Address {
	if addr == nil {
		return types.Address{}
	}
	return *addr
}

func (b *groupBuilder) visitPayment(s *PaymentSpec) error {
	txn := newTransaction(types.PaymentTx, &s.CommonParams, b.params)
	txn.Receiver = s.Receiver
	txn.Amount = types.MicroAlgos(s.Amount)
	txn.CloseRemainderTo = optionalAddress(s.CloseRemainderTo)
	return b.push(txn, &s.CommonParams)
}

func (b *groupBuilder) visitAssetCreate(s *AssetCreateSpec) error {
	txn := newTransaction(types.AssetConfigTx, &s.CommonParams, b.params)
	txn.AssetParams = types.AssetParams{
		Total:         s.Total,
		Decimals:      s.Decimals,
		DefaultFrozen: s.DefaultFrozen,
		UnitName:      s.UnitName,
		AssetName:     s.AssetName,
		URL:           s.URL,
		Manager:       optionalAddress(s.Manager),
		Reserve:       optionalAddress(s.Reserve),
		Freeze:        optionalAddress(s.Freeze),
		Clawback:      optionalAddress(s.Clawback),
	}
	if s.MetadataHash != nil {
		txn.AssetParams.MetadataHash = *s.MetadataHash
	}
	return b.push(txn, &s.CommonParams)
}

func (b *groupBuilder) visitAssetConfig(s *AssetConfigSpec) error {
	txn := newTransaction(types.AssetConfigTx, &s.CommonParams, b.params)
	txn.ConfigAsset = types.AssetIndex(s.AssetID)
	txn.AssetParams = types.AssetParams{
		Manager:  optionalAddress(s.Manager),
		Reserve:  optionalAddress(s.Reserve),
		Freeze:   optionalAddress(s.Freeze),
		Clawback: optionalAddress(s.Clawback),
	}
	return b.push(txn, &s.CommonParams)
}

func (b *groupBuilder) visitAssetFreeze(s *AssetFreezeSpec) error {
	txn := newTransaction(types.AssetFreezeTx, &s.CommonParams, b.params)
	txn.FreezeAsset = types.AssetIndex(s.AssetID)
	txn.FreezeAccount = s.Account
	txn.AssetFrozen = s.Frozen
	return b.push(txn, &s.CommonParams)
}

func (b *groupBuilder) visitAssetDestroy(s *AssetDestroySpec) error {
	txn := newTransaction(types.AssetConfigTx, &s.CommonParams, b.params)
	txn.ConfigAsset = types.AssetIndex(s.AssetID)
	return b.push(txn, &s.CommonParams)
}

func (b *groupBuilder) visitAssetTransfer(s *AssetTransferSpec) error {
	txn := newTransaction(types.AssetTransferTx, &s.CommonParams, b.params)
	txn.XferAsset = types.AssetIndex(s.AssetID)
	txn.AssetAmount = s.Amount
	txn.AssetReceiver = s.Receiver
	txn.AssetSender = optionalAddress(s.ClawbackTarget)
	txn.AssetCloseTo = optionalAddress(s.CloseAssetTo)
	return b.push(txn, &s.CommonParams)
}

func (b *groupBuilder) visitKeyReg(s *KeyRegSpec) error {
	txn := newTransaction(types.KeyRegistrationTx, &s.CommonParams, b.params)
	txn.VotePK = s.VoteKey
	txn.SelectionPK = s.SelectionKey
	txn.StateProofPK = s.StateProofKey
	txn.VoteFirst = types.Round(s.VoteFirst)
	txn.VoteLast = types.Round(s.VoteLast)
	txn.VoteKeyDilution = s.VoteKeyDilution
	txn.Nonparticipation = s.Nonparticipation
	return b.push(txn, &s.CommonParams)
}

func (b *groupBuilder) visitAppCall(s *AppCallSpec) error {
	refs := newForeignRefs(s.Sender, &s.AppCallParams)
	txn := newAppCallTransaction(&s.CommonParams, &s.AppCallParams, s.Args, refs, b.params)
	return b.push(txn, &s.CommonParams)
}

func (b *groupBuilder) visitPreSigned(s *TransactionWithSigner) error {
	signer, err := b.resolveSigner(s.Signer, s.Txn.Sender)
	if err != nil {
		return err
	}
	txn := s.Txn
	txn.Group = types.Digest{}
	b.txns = append(b.txns, TransactionWithSigner{Txn: txn, Signer: signer})
	return nil
}

// visitNestedGroup appends the nested group at the current offset and re-bases its
// method table by that offset.
func (b *groupBuilder) visitNestedGroup(s *NestedGroupSpec) error {
	group, err := s.Composer.Build(b.ctx)
	if err != nil {
		return fmt.Errorf("failed to build nested group: %w", err)
	}

	offset := len(b.txns)
	for _, t := range group.Transactions {
		t.Txn.Group = types.Digest{}
		b.txns = append(b.txns, t)
	}
	for idx, method := range group.Methods {
		b.methods[offset+idx] = method
	}
	return nil
}
