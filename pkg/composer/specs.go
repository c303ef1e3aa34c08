package composer

import (
	"github.com/algorand/go-algorand-sdk/v2/abi"
	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/Layr-Labs/txgroup-go/pkg/txSigner"
)

// TxnSpec is a request for one unit of a group. The set of implementations is closed:
// every variant is declared in this file and dispatches through specVisitor, so a new
// variant does not compile until every visitor handles it.
type TxnSpec interface {
	accept(v specVisitor) error
}

type specVisitor interface {
	visitPayment(s *PaymentSpec) error
	visitAssetCreate(s *AssetCreateSpec) error
	visitAssetConfig(s *AssetConfigSpec) error
	visitAssetFreeze(s *AssetFreezeSpec) error
	visitAssetDestroy(s *AssetDestroySpec) error
	visitAssetTransfer(s *AssetTransferSpec) error
	visitKeyReg(s *KeyRegSpec) error
	visitAppCall(s *AppCallSpec) error
	visitMethodCall(s *MethodCallSpec) error
	visitPreSigned(s *TransactionWithSigner) error
	visitNestedGroup(s *NestedGroupSpec) error
}

// CommonParams are the fields shared by every variant except pre-signed and nested specs.
type CommonParams struct {
	// Sender is the account the transaction is sent from. Required.
	Sender types.Address
	// Signer overrides the signer resolved from Sender at build time
	Signer txSigner.ITransactionSigner
	// RekeyTo rekeys Sender to this address after the transaction
	RekeyTo *types.Address
	// Note is an opaque payload attached to the transaction
	Note []byte
	// Lease is an anti-replay token
	Lease *[32]byte
	// FlatFee is used verbatim as the fee. Mutually exclusive with ExtraFee.
	FlatFee *uint64
	// ExtraFee is added on top of the computed fee, typically to cover inner transactions
	ExtraFee *uint64
	// FirstValidRound overrides the first valid round of the suggested params
	FirstValidRound *uint64
	// ValidityWindow sets LastValid to FirstValid + ValidityWindow
	ValidityWindow *uint64
}

// PaymentSpec sends Amount microAlgos from Sender to Receiver.
type PaymentSpec struct {
	CommonParams
	Receiver         types.Address
	Amount           uint64
	CloseRemainderTo *types.Address
}

// AssetCreateSpec creates a new asset. Decimals and DefaultFrozen default to zero values.
type AssetCreateSpec struct {
	CommonParams
	Total         uint64
	Decimals      uint32
	DefaultFrozen bool
	UnitName      string
	AssetName     string
	URL           string
	MetadataHash  *[32]byte
	Manager       *types.Address
	Reserve       *types.Address
	Freeze        *types.Address
	Clawback      *types.Address
}

// AssetConfigSpec reconfigures the role addresses of an existing asset.
// A nil address clears that role.
type AssetConfigSpec struct {
	CommonParams
	AssetID  uint64
	Manager  *types.Address
	Reserve  *types.Address
	Freeze   *types.Address
	Clawback *types.Address
}

// AssetFreezeSpec sets the frozen state of Account's holding of AssetID.
type AssetFreezeSpec struct {
	CommonParams
	AssetID uint64
	Account types.Address
	Frozen  bool
}

// AssetDestroySpec destroys AssetID. Sender must be the asset manager.
type AssetDestroySpec struct {
	CommonParams
	AssetID uint64
}

// AssetTransferSpec moves Amount units of AssetID to Receiver. When ClawbackTarget is set
// the transfer is a clawback from that account; CloseAssetTo closes out the holding.
type AssetTransferSpec struct {
	CommonParams
	AssetID        uint64
	Receiver       types.Address
	Amount         uint64
	ClawbackTarget *types.Address
	CloseAssetTo   *types.Address
}

// KeyRegSpec registers (or, with Nonparticipation or empty keys, deregisters)
// participation keys for Sender.
type KeyRegSpec struct {
	CommonParams
	VoteKey          types.VotePK
	SelectionKey     types.VRFPK
	StateProofKey    types.MerkleVerifier
	VoteFirst        uint64
	VoteLast         uint64
	VoteKeyDilution  uint64
	Nonparticipation bool
}

// BoxRef names a box of AppID. AppID zero refers to the called application.
type BoxRef struct {
	AppID uint64
	Name  []byte
}

// AppCallParams are the application fields shared by raw and ABI method calls.
// AppID zero creates an application and requires both programs.
type AppCallParams struct {
	AppID           uint64
	OnComplete      types.OnCompletion
	ApprovalProgram []byte
	ClearProgram    []byte
	GlobalSchema    types.StateSchema
	LocalSchema     types.StateSchema
	ExtraPages      uint32
	Accounts        []types.Address
	ForeignApps     []uint64
	ForeignAssets   []uint64
	Boxes           []BoxRef
}

// AppCallSpec is an application call with raw arguments.
type AppCallSpec struct {
	CommonParams
	AppCallParams
	Args [][]byte
}

// MethodCallSpec is an ABI method call. Args line up with Method.Args; arguments of a
// transaction type are TxnSpec values and become the transactions immediately preceding
// the call, in declaration order.
type MethodCallSpec struct {
	CommonParams
	AppCallParams
	Method abi.Method
	Args   []any
}

// TransactionWithSigner is an already materialized transaction together with the
// capability that signs it. It is appended to the group verbatim; a nil Signer is
// resolved from the transaction sender.
type TransactionWithSigner struct {
	Txn    types.Transaction
	Signer txSigner.ITransactionSigner
}

// NestedGroupSpec embeds the group of another composer. The nested composer is built on
// demand, or its frozen group is reused when it was built already.
type NestedGroupSpec struct {
	Composer *Composer
}

func (s *PaymentSpec) accept(v specVisitor) error           { return v.visitPayment(s) }
func (s *AssetCreateSpec) accept(v specVisitor) error       { return v.visitAssetCreate(s) }
func (s *AssetConfigSpec) accept(v specVisitor) error       { return v.visitAssetConfig(s) }
func (s *AssetFreezeSpec) accept(v specVisitor) error       { return v.visitAssetFreeze(s) }
func (s *AssetDestroySpec) accept(v specVisitor) error      { return v.visitAssetDestroy(s) }
func (s *AssetTransferSpec) accept(v specVisitor) error     { return v.visitAssetTransfer(s) }
func (s *KeyRegSpec) accept(v specVisitor) error            { return v.visitKeyReg(s) }
func (s *AppCallSpec) accept(v specVisitor) error           { return v.visitAppCall(s) }
func (s *MethodCallSpec) accept(v specVisitor) error        { return v.visitMethodCall(s) }
func (s *TransactionWithSigner) accept(v specVisitor) error { return v.visitPreSigned(s) }
func (s *NestedGroupSpec) accept(v specVisitor) error       { return v.visitNestedGroup(s) }
