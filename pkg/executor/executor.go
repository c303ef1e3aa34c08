// Package executor signs a built transaction group, submits it to the network in a
// single call and waits for it to be confirmed. ABI method return values are decoded
// from the confirmed transaction logs.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/algorand/go-algorand-sdk/v2/abi"
	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"github.com/Layr-Labs/txgroup-go/pkg/algodClient"
	"github.com/Layr-Labs/txgroup-go/pkg/composer"
	"github.com/Layr-Labs/txgroup-go/pkg/logger"
	"github.com/Layr-Labs/txgroup-go/pkg/txSigner"
)

// DefaultWaitRounds is used when Config.WaitRounds is zero.
const DefaultWaitRounds = 10

// returnPrefix marks the log line carrying an ABI method return value.
var returnPrefix = []byte{0x15, 0x1f, 0x7c, 0x75}

var (
	// ErrMissingReturn is recorded on a MethodResult whose call logged no return value.
	ErrMissingReturn = errors.New("method call logged no return value")
)

type Config struct {
	// WaitRounds bounds how many rounds to wait for each confirmation
	WaitRounds uint64
}

// Executor implements composer.IExecutor against an algod node.
type Executor struct {
	config *Config
	client algodClient.IAlgodClient
	logger *zap.Logger
}

func NewExecutor(cfg *Config, client algodClient.IAlgodClient, l *zap.Logger) *Executor {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Executor{
		config: cfg,
		client: client,
		logger: logger.OrNop(l),
	}
}

func (e *Executor) waitRounds() uint64 {
	if e.config.WaitRounds == 0 {
		return DefaultWaitRounds
	}
	return e.config.WaitRounds
}

// Execute signs every transaction of group, sends the signed group in one request and
// waits for each transaction to be confirmed. Nothing is sent unless every transaction
// was signed.
func (e *Executor) Execute(ctx context.Context, group *composer.BuiltGroup) (*composer.ExecuteResult, error) {
	if group == nil || len(group.Transactions) == 0 {
		return nil, fmt.Errorf("%w: nothing to execute", composer.ErrConfiguration)
	}

	signed, err := e.signGroup(ctx, group)
	if err != nil {
		return nil, err
	}

	txids := group.TxIDs()
	e.logger.Sugar().Infow("Sending transaction group",
		zap.String("groupId", hexutil.Encode(group.GroupID[:])),
		zap.Int("transactions", len(txids)),
		zap.String("firstTxId", txids[0]),
	)
	if _, err := e.client.SendRawTransaction(ctx, bytes.Join(signed, nil)); err != nil {
		e.logger.Error("Failed to send transaction group",
			zap.String("groupId", hexutil.Encode(group.GroupID[:])),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", composer.ErrNetwork, err)
	}

	confirmations := make([]models.PendingTransactionInfoResponse, len(txids))
	for i, txid := range txids {
		info, err := e.ensureConfirmed(ctx, txid)
		if err != nil {
			return nil, err
		}
		confirmations[i] = info
	}

	result := &composer.ExecuteResult{
		GroupID:        group.GroupID,
		TxIDs:          txids,
		ConfirmedRound: confirmations[0].ConfirmedRound,
		Confirmations:  confirmations,
		MethodResults:  methodResults(group, txids, confirmations),
	}
	e.logger.Sugar().Infow("Transaction group confirmed",
		zap.String("groupId", hexutil.Encode(group.GroupID[:])),
		zap.Uint64("confirmedRound", result.ConfirmedRound),
		zap.Int("methodCalls", len(result.MethodResults)),
	)
	return result, nil
}

// signGroup asks each distinct signer once for all of its indexes and returns the
// signed transactions in group order.
func (e *Executor) signGroup(ctx context.Context, group *composer.BuiltGroup) ([][]byte, error) {
	txns := group.Txns()

	var signers []txSigner.ITransactionSigner
	indexes := map[txSigner.ITransactionSigner][]int{}
	for i, t := range group.Transactions {
		if t.Signer == nil {
			return nil, fmt.Errorf("%w: transaction %d has no signer", composer.ErrResolution, i)
		}
		if _, ok := indexes[t.Signer]; !ok {
			signers = append(signers, t.Signer)
		}
		indexes[t.Signer] = append(indexes[t.Signer], i)
	}

	signed := make([][]byte, len(txns))
	for _, signer := range signers {
		idx := indexes[signer]
		blobs, err := signer.SignTransactions(ctx, txns, idx)
		if err != nil {
			return nil, fmt.Errorf("failed to sign transactions %v: %w", idx, err)
		}
		if len(blobs) != len(idx) {
			return nil, fmt.Errorf("signer returned %d signatures for %d transactions", len(blobs), len(idx))
		}
		for j, i := range idx {
			signed[i] = blobs[j]
		}
	}
	return signed, nil
}

func (e *Executor) ensureConfirmed(ctx context.Context, txid string) (models.PendingTransactionInfoResponse, error) {
	info, err := e.client.WaitForConfirmation(ctx, txid, e.waitRounds())
	if err != nil {
		return models.PendingTransactionInfoResponse{}, fmt.Errorf("%w: transaction %s: %w", composer.ErrNetwork, txid, err)
	}
	if info.PoolError != "" {
		return info, fmt.Errorf("%w: transaction %s rejected: %s", composer.ErrNetwork, txid, info.PoolError)
	}
	e.logger.Sugar().Debugw("Transaction confirmed",
		zap.String("txId", txid),
		zap.Uint64("confirmedRound", info.ConfirmedRound),
	)
	return info, nil
}

// methodResults decodes the return value of every method call in group, in index order.
func methodResults(group *composer.BuiltGroup, txids []string, confirmations []models.PendingTransactionInfoResponse) []composer.MethodResult {
	indexes := make([]int, 0, len(group.Methods))
	for idx := range group.Methods {
		indexes = append(indexes, idx)
	}
	slices.Sort(indexes)

	results := make([]composer.MethodResult, 0, len(indexes))
	for _, idx := range indexes {
		method := group.Methods[idx]
		result := composer.MethodResult{
			Index:  idx,
			TxID:   txids[idx],
			Method: method,
		}
		if method.Returns.Type != abi.VoidReturnType {
			result.RawReturn, result.ReturnValue, result.DecodeError = decodeReturn(method, confirmations[idx].Logs)
		}
		results = append(results, result)
	}
	return results
}

func decodeReturn(method abi.Method, logs [][]byte) ([]byte, any, error) {
	if len(logs) == 0 {
		return nil, nil, ErrMissingReturn
	}
	last := logs[len(logs)-1]
	if !bytes.HasPrefix(last, returnPrefix) {
		return nil, nil, ErrMissingReturn
	}
	raw := last[len(returnPrefix):]

	t, err := abi.TypeOf(method.Returns.Type)
	if err != nil {
		return raw, nil, fmt.Errorf("invalid return type %s: %w", method.Returns.Type, err)
	}
	value, err := t.Decode(raw)
	if err != nil {
		return raw, nil, fmt.Errorf("failed to decode %s return value: %w", method.Name, err)
	}
	return raw, value, nil
}
