// Package composer assembles heterogeneous transaction requests into a single ordered
// atomic group. Requests are appended in order and materialized on Build: suggested
// parameters are fetched once, every request is bound to a signer, fees are computed,
// nested groups are flattened and the result is frozen together with a table mapping
// group indexes to the ABI methods they call.
package composer

import (
	"context"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/abi"
	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"github.com/Layr-Labs/txgroup-go/pkg/logger"
	"github.com/Layr-Labs/txgroup-go/pkg/txSigner"
	"github.com/Layr-Labs/txgroup-go/pkg/util"
)

// MaxGroupSize is the protocol limit on the number of transactions in a group.
const MaxGroupSize = 16

// Status is the lifecycle state of a Composer.
type Status int

const (
	// StatusOpen accepts additions
	StatusOpen Status = iota
	// StatusBuilt holds a frozen group
	StatusBuilt
	// StatusSubmitted has handed its group to an executor
	StatusSubmitted
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusBuilt:
		return "built"
	case StatusSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// ISuggestedParamsProvider supplies network parameters for a build.
type ISuggestedParamsProvider interface {
	Get(ctx context.Context) (types.SuggestedParams, error)
}

// ISignerResolver maps a sender address to its signing capability.
type ISignerResolver interface {
	GetSignerForAddress(addr types.Address) (txSigner.ITransactionSigner, error)
}

// IExecutor signs, submits and confirms a built group.
type IExecutor interface {
	Execute(ctx context.Context, group *BuiltGroup) (*ExecuteResult, error)
}

// BuiltGroup is a frozen, ordered atomic group. It must not be modified.
type BuiltGroup struct {
	// Transactions in submission order, each bound to its signer
	Transactions []TransactionWithSigner
	// Methods maps a group index to the ABI method called at that index
	Methods map[int]abi.Method
	// GroupID is the group hash assigned to every transaction; zero for single transactions
	GroupID types.Digest
}

// Txns returns the bare transactions of the group.
func (g *BuiltGroup) Txns() []types.Transaction {
	return util.Map(g.Transactions, func(t TransactionWithSigner, _ uint64) types.Transaction {
		return t.Txn
	})
}

// TxIDs returns the transaction ids of the group in order.
func (g *BuiltGroup) TxIDs() []string {
	return util.Map(g.Transactions, func(t TransactionWithSigner, _ uint64) string {
		return crypto.GetTxID(t.Txn)
	})
}

// MethodResult is the outcome of one ABI method call in an executed group.
type MethodResult struct {
	Index       int
	TxID        string
	Method      abi.Method
	RawReturn   []byte
	ReturnValue any
	DecodeError error
}

// ExecuteResult is the outcome of an executed group.
type ExecuteResult struct {
	GroupID        types.Digest
	TxIDs          []string
	ConfirmedRound uint64
	// Confirmations holds the pending transaction info of every index
	Confirmations []models.PendingTransactionInfoResponse
	// MethodResults holds one entry per index in BuiltGroup.Methods, ordered by index
	MethodResults []MethodResult
}

// Composer builds one atomic group. It is single-writer: callers needing concurrent
// construction use separate composers and merge them with AddNestedGroup.
type Composer struct {
	params   ISuggestedParamsProvider
	signers  ISignerResolver
	executor IExecutor
	logger   *zap.Logger

	specs  []TxnSpec
	status Status
	built  *BuiltGroup
}

// NewComposer creates an open Composer. executor may be nil for composers that are
// only built or nested into another composer.
func NewComposer(params ISuggestedParamsProvider, signers ISignerResolver, executor IExecutor, l *zap.Logger) *Composer {
	return &Composer{
		params:   params,
		signers:  signers,
		executor: executor,
		logger:   logger.OrNop(l),
	}
}

// Status returns the lifecycle state.
func (c *Composer) Status() Status {
	return c.status
}

// Count returns the number of appended requests while open and the number of
// transactions in the frozen group afterwards.
func (c *Composer) Count() int {
	if c.built != nil {
		return len(c.built.Transactions)
	}
	return len(c.specs)
}

// BuiltGroup returns the frozen group, or nil while the composer is open.
func (c *Composer) BuiltGroup() *BuiltGroup {
	return c.built
}

func (c *Composer) add(spec TxnSpec) error {
	if c.status != StatusOpen {
		return fmt.Errorf("%w: status is %s", ErrComposerNotOpen, c.status)
	}
	c.specs = append(c.specs, spec)
	return nil
}

// AddPayment appends a payment.
func (c *Composer) AddPayment(spec PaymentSpec) error { return c.add(&spec) }

// AddAssetCreate appends an asset creation.
func (c *Composer) AddAssetCreate(spec AssetCreateSpec) error { return c.add(&spec) }

// AddAssetConfig appends an asset reconfiguration.
func (c *Composer) AddAssetConfig(spec AssetConfigSpec) error { return c.add(&spec) }

// AddAssetFreeze appends an asset freeze.
func (c *Composer) AddAssetFreeze(spec AssetFreezeSpec) error { return c.add(&spec) }

// AddAssetDestroy appends an asset destruction.
func (c *Composer) AddAssetDestroy(spec AssetDestroySpec) error { return c.add(&spec) }

// AddAssetTransfer appends an asset transfer.
func (c *Composer) AddAssetTransfer(spec AssetTransferSpec) error { return c.add(&spec) }

// AddAssetOptIn appends a zero amount transfer of assetID from the sender to itself.
func (c *Composer) AddAssetOptIn(common CommonParams, assetID uint64) error {
	return c.add(&AssetTransferSpec{
		CommonParams: common,
		AssetID:      assetID,
		Receiver:     common.Sender,
	})
}

// AddKeyReg appends a key registration.
func (c *Composer) AddKeyReg(spec KeyRegSpec) error { return c.add(&spec) }

// AddAppCall appends an application call with raw arguments.
func (c *Composer) AddAppCall(spec AppCallSpec) error { return c.add(&spec) }

// AddMethodCall appends an ABI method call and, ahead of it, its transaction arguments.
func (c *Composer) AddMethodCall(spec MethodCallSpec) error { return c.add(&spec) }

// AddPreSigned appends an already materialized transaction verbatim.
func (c *Composer) AddPreSigned(txn TransactionWithSigner) error { return c.add(&txn) }

// AddNestedGroup appends the group of another composer.
func (c *Composer) AddNestedGroup(nested *Composer) error {
	return c.add(&NestedGroupSpec{Composer: nested})
}

// Build materializes every request and freezes the group. A composer that is already
// built returns its frozen group unchanged. A failed build leaves the composer open and
// empty of any frozen state.
func (c *Composer) Build(ctx context.Context) (*BuiltGroup, error) {
	if c.status != StatusOpen {
		return c.built, nil
	}

	v := newSpecValidator(c)
	for _, spec := range c.specs {
		if err := spec.accept(v); err != nil {
			return nil, err
		}
	}
	if v.count > MaxGroupSize {
		return nil, fmt.Errorf("%w: group has %d transactions, limit is %d", ErrProtocolLimit, v.count, MaxGroupSize)
	}

	group := &BuiltGroup{Methods: map[int]abi.Method{}}
	if len(c.specs) > 0 {
		params, err := c.params.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to get suggested params: %w", ErrNetwork, err)
		}

		b := newGroupBuilder(ctx, params, c.signers)
		for _, spec := range c.specs {
			if err := spec.accept(b); err != nil {
				return nil, err
			}
		}
		if len(b.txns) > MaxGroupSize {
			return nil, fmt.Errorf("%w: group has %d transactions, limit is %d", ErrProtocolLimit, len(b.txns), MaxGroupSize)
		}

		gid, err := assignGroupID(b.txns)
		if err != nil {
			return nil, err
		}
		group.Transactions = b.txns
		group.Methods = b.methods
		group.GroupID = gid
	}

	c.built = group
	c.status = StatusBuilt

	c.logger.Sugar().Debugw("Built transaction group",
		zap.Int("transactions", len(group.Transactions)),
		zap.Int("methodCalls", len(group.Methods)),
		zap.String("groupId", hexutil.Encode(group.GroupID[:])),
	)
	return group, nil
}

// Execute builds the group if needed and hands it to the executor. The composer is
// marked submitted once handed off, whatever the outcome; a second Execute fails.
func (c *Composer) Execute(ctx context.Context) (*ExecuteResult, error) {
	if c.status == StatusSubmitted {
		return nil, ErrAlreadySubmitted
	}
	if c.executor == nil {
		return nil, fmt.Errorf("%w: composer has no executor", ErrConfiguration)
	}

	group, err := c.Build(ctx)
	if err != nil {
		return nil, err
	}
	if len(group.Transactions) == 0 {
		return nil, fmt.Errorf("%w: group is empty", ErrConfiguration)
	}

	c.status = StatusSubmitted
	return c.executor.Execute(ctx, group)
}

// assignGroupID computes the group hash over txns and stamps it on each of them.
// Single transactions are left without a group.
func assignGroupID(txns []TransactionWithSigner) (types.Digest, error) {
	for i := range txns {
		txns[i].Txn.Group = types.Digest{}
	}
	if len(txns) < 2 {
		return types.Digest{}, nil
	}

	gid, err := crypto.ComputeGroupID(util.Map(txns, func(t TransactionWithSigner, _ uint64) types.Transaction {
		return t.Txn
	}))
	if err != nil {
		return types.Digest{}, fmt.Errorf("failed to compute group id: %w", err)
	}
	for i := range txns {
		txns[i].Txn.Group = gid
	}
	return gid, nil
}
