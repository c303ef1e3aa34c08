package composer

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/algorand/go-algorand-sdk/v2/abi"
	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/Layr-Labs/txgroup-go/pkg/util"
)

// maxAppArgs is the protocol limit on application arguments, selector included.
const maxAppArgs = 16

// foreignRefs accumulates the reference arrays of one application call.
type foreignRefs struct {
	sender   types.Address
	appID    uint64
	accounts []types.Address
	apps     []uint64
	assets   []uint64
}

func newForeignRefs(sender types.Address, p *AppCallParams) *foreignRefs {
	return &foreignRefs{
		sender:   sender,
		appID:    p.AppID,
		accounts: slices.Clone(p.Accounts),
		apps:     slices.Clone(p.ForeignApps),
		assets:   slices.Clone(p.ForeignAssets),
	}
}

// accountIndex is 0 for the sender, otherwise 1 + the position in the accounts array.
func (r *foreignRefs) accountIndex(addr types.Address) int {
	if addr == r.sender {
		return 0
	}
	var idx int
	r.accounts, idx = util.IndexOrAppend(r.accounts, addr)
	return idx + 1
}

// appIndex is 0 for the called application, otherwise 1 + the position in the apps array.
func (r *foreignRefs) appIndex(appID uint64) int {
	if appID == 0 || appID == r.appID {
		return 0
	}
	var idx int
	r.apps, idx = util.IndexOrAppend(r.apps, appID)
	return idx + 1
}

func (r *foreignRefs) assetIndex(assetID uint64) int {
	var idx int
	r.assets, idx = util.IndexOrAppend(r.assets, assetID)
	return idx
}

// referenceIndex resolves a reference typed argument to its position in the foreign arrays.
func (r *foreignRefs) referenceIndex(refType string, value any) (uint8, error) {
	var idx int
	switch refType {
	case abi.AccountReferenceType:
		addr, err := toAddress(value)
		if err != nil {
			return 0, err
		}
		idx = r.accountIndex(addr)
	case abi.AssetReferenceType:
		id, ok := toUint64(value)
		if !ok {
			return 0, fmt.Errorf("asset reference must be an unsigned integer, got %T", value)
		}
		idx = r.assetIndex(id)
	case abi.ApplicationReferenceType:
		id, ok := toUint64(value)
		if !ok {
			return 0, fmt.Errorf("application reference must be an unsigned integer, got %T", value)
		}
		idx = r.appIndex(id)
	default:
		return 0, fmt.Errorf("unknown reference type %s", refType)
	}
	if idx > math.MaxUint8 {
		return 0, fmt.Errorf("%s reference index %d does not fit in uint8", refType, idx)
	}
	return uint8(idx), nil
}

func toAddress(value any) (types.Address, error) {
	switch v := value.(type) {
	case types.Address:
		return v, nil
	case string:
		return types.DecodeAddress(v)
	default:
		return types.Address{}, fmt.Errorf("account reference must be an address, got %T", value)
	}
}

func toUint64(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case int:
		return uint64(v), v >= 0
	case int64:
		return uint64(v), v >= 0
	default:
		return 0, false
	}
}

// newAppCallTransaction builds an application call; programs and schemas are only
// attached where the protocol reads them.
func newAppCallTransaction(c *CommonParams, p *AppCallParams, args [][]byte, refs *foreignRefs, params types.SuggestedParams) types.Transaction {
	txn := newTransaction(types.ApplicationCallTx, c, params)
	txn.ApplicationID = types.AppIndex(p.AppID)
	txn.OnCompletion = p.OnComplete
	txn.ApplicationArgs = args

	for _, box := range p.Boxes {
		txn.BoxReferences = append(txn.BoxReferences, types.BoxReference{
			ForeignAppIdx: uint64(refs.appIndex(box.AppID)),
			Name:          box.Name,
		})
	}
	txn.Accounts = refs.accounts
	txn.ForeignApps = util.Map(refs.apps, func(id uint64, _ uint64) types.AppIndex { return types.AppIndex(id) })
	txn.ForeignAssets = util.Map(refs.assets, func(id uint64, _ uint64) types.AssetIndex { return types.AssetIndex(id) })

	if p.AppID == 0 || p.OnComplete == types.UpdateApplicationOC {
		txn.ApprovalProgram = p.ApprovalProgram
		txn.ClearStateProgram = p.ClearProgram
	}
	if p.AppID == 0 {
		txn.GlobalStateSchema = p.GlobalSchema
		txn.LocalStateSchema = p.LocalSchema
		txn.ExtraProgramPages = p.ExtraPages
	}
	return txn
}

// visitMethodCall appends the transaction arguments of s in declaration order, then
// the call itself, and records the call's index in the method table.
func (b *groupBuilder) visitMethodCall(s *MethodCallSpec) error {
	refs := newForeignRefs(s.Sender, &s.AppCallParams)

	var argTypes []string
	var argValues []any
	for i, arg := range s.Method.Args {
		value := s.Args[i]
		switch {
		case abi.IsTransactionType(arg.Type):
			if err := b.embedTransactionArg(arg.Type, value.(TxnSpec)); err != nil {
				return fmt.Errorf("method %s argument %d: %w", s.Method.Name, i, err)
			}
		case abi.IsReferenceType(arg.Type):
			idx, err := refs.referenceIndex(arg.Type, value)
			if err != nil {
				return fmt.Errorf("%w: method %s argument %d: %w", ErrConfiguration, s.Method.Name, i, err)
			}
			argTypes = append(argTypes, "uint8")
			argValues = append(argValues, idx)
		default:
			argTypes = append(argTypes, arg.Type)
			argValues = append(argValues, value)
		}
	}

	encoded, err := encodeMethodArgs(argTypes, argValues)
	if err != nil {
		return fmt.Errorf("%w: method %s: %w", ErrConfiguration, s.Method.Name, err)
	}
	appArgs := append([][]byte{s.Method.GetSelector()}, encoded...)

	txn := newAppCallTransaction(&s.CommonParams, &s.AppCallParams, appArgs, refs, b.params)
	if err := b.push(txn, &s.CommonParams); err != nil {
		return err
	}
	b.methods[len(b.txns)-1] = s.Method
	return nil
}

// embedTransactionArg materializes spec ahead of the call that takes it and checks the
// resulting transaction type against the declared argument type.
func (b *groupBuilder) embedTransactionArg(argType string, spec TxnSpec) error {
	before := len(b.txns)
	if err := spec.accept(b); err != nil {
		return err
	}
	if len(b.txns) == before {
		return fmt.Errorf("%w: transaction argument produced no transaction", ErrConfiguration)
	}

	got := b.txns[len(b.txns)-1].Txn.Type
	if argType != abi.AnyTransactionType && string(got) != argType {
		return fmt.Errorf("%w: expected a %s transaction, got %s", ErrConfiguration, argType, got)
	}
	return nil
}

// encodeMethodArgs ABI encodes each argument into its own application argument. When
// the arguments do not fit in the slots left after the selector, the tail from the last
// slot onwards is encoded as a single tuple.
func encodeMethodArgs(argTypes []string, values []any) ([][]byte, error) {
	const slots = maxAppArgs - 1

	direct := len(argTypes)
	if direct > slots {
		direct = slots - 1
	}

	encoded := make([][]byte, 0, min(len(argTypes), slots))
	for i := 0; i < direct; i++ {
		enc, err := encodeValue(argTypes[i], values[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		encoded = append(encoded, enc)
	}

	if direct < len(argTypes) {
		tupleType := "(" + strings.Join(argTypes[direct:], ",") + ")"
		enc, err := encodeValue(tupleType, values[direct:])
		if err != nil {
			return nil, fmt.Errorf("packed arguments %d and later: %w", direct, err)
		}
		encoded = append(encoded, enc)
	}
	return encoded, nil
}

func encodeValue(typeStr string, value any) ([]byte, error) {
	t, err := abi.TypeOf(typeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid type %s: %w", typeStr, err)
	}
	return t.Encode(value)
}
