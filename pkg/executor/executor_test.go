package executor

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/abi"
	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Layr-Labs/txgroup-go/pkg/algodClient"
	"github.com/Layr-Labs/txgroup-go/pkg/composer"
	"github.com/Layr-Labs/txgroup-go/pkg/signerManager"
	"github.com/Layr-Labs/txgroup-go/pkg/txSigner"
)

// indexSigner "signs" index i as the single byte i and records each call.
type indexSigner struct {
	calls [][]int
	err   error
}

func (s *indexSigner) SignTransactions(_ context.Context, _ []types.Transaction, indexes []int) ([][]byte, error) {
	s.calls = append(s.calls, indexes)
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]byte, len(indexes))
	for j, i := range indexes {
		out[j] = []byte{byte(i)}
	}
	return out, nil
}

func (s *indexSigner) GetAddress() (types.Address, error) {
	return types.Address{}, nil
}

func paymentTxn(sender types.Address, amount uint64) types.Transaction {
	txn := types.Transaction{Type: types.PaymentTx}
	txn.Sender = sender
	txn.Receiver = sender
	txn.Amount = types.MicroAlgos(amount)
	txn.Fee = 1000
	txn.FirstValid = 10
	txn.LastValid = 1010
	return txn
}

func setupTestExecutor(t *testing.T) (*Executor, *algodClient.MockIAlgodClient) {
	client := algodClient.NewMockIAlgodClient(t)
	l, _ := zap.NewDevelopment()
	return NewExecutor(&Config{WaitRounds: 4}, client, l), client
}

func confirmed(round uint64, logs ...[]byte) models.PendingTransactionInfoResponse {
	return models.PendingTransactionInfoResponse{ConfirmedRound: round, Logs: logs}
}

func returnLog(value []byte) []byte {
	return append(append([]byte{}, returnPrefix...), value...)
}

func TestExecutor_Execute_BatchesPerSigner(t *testing.T) {
	e, client := setupTestExecutor(t)
	a := &indexSigner{}
	b := &indexSigner{}
	group := &composer.BuiltGroup{
		Transactions: []composer.TransactionWithSigner{
			{Txn: paymentTxn(types.Address{1}, 1), Signer: a},
			{Txn: paymentTxn(types.Address{2}, 2), Signer: b},
			{Txn: paymentTxn(types.Address{1}, 3), Signer: a},
		},
		Methods: map[int]abi.Method{},
	}
	txids := group.TxIDs()

	client.On("SendRawTransaction", mock.Anything, []byte{0, 1, 2}).Return(txids[0], nil).Once()
	for _, txid := range txids {
		client.On("WaitForConfirmation", mock.Anything, txid, uint64(4)).Return(confirmed(1001), nil).Once()
	}

	result, err := e.Execute(context.Background(), group)
	require.NoError(t, err)

	assert.Equal(t, [][]int{{0, 2}}, a.calls)
	assert.Equal(t, [][]int{{1}}, b.calls)
	assert.Equal(t, txids, result.TxIDs)
	assert.Equal(t, uint64(1001), result.ConfirmedRound)
	assert.Len(t, result.Confirmations, 3)
	assert.Empty(t, result.MethodResults)
}

func TestExecutor_Execute_SignFailureSendsNothing(t *testing.T) {
	e, client := setupTestExecutor(t)
	signErr := errors.New("hsm offline")
	group := &composer.BuiltGroup{
		Transactions: []composer.TransactionWithSigner{
			{Txn: paymentTxn(types.Address{1}, 1), Signer: &indexSigner{}},
			{Txn: paymentTxn(types.Address{2}, 2), Signer: &indexSigner{err: signErr}},
		},
	}

	_, err := e.Execute(context.Background(), group)
	assert.ErrorIs(t, err, signErr)
	client.AssertNotCalled(t, "SendRawTransaction", mock.Anything, mock.Anything)
}

func TestExecutor_Execute_MissingSigner(t *testing.T) {
	e, client := setupTestExecutor(t)
	group := &composer.BuiltGroup{
		Transactions: []composer.TransactionWithSigner{{Txn: paymentTxn(types.Address{1}, 1)}},
	}

	_, err := e.Execute(context.Background(), group)
	assert.ErrorIs(t, err, composer.ErrResolution)
	client.AssertNotCalled(t, "SendRawTransaction", mock.Anything, mock.Anything)
}

func TestExecutor_Execute_SendFailure(t *testing.T) {
	e, client := setupTestExecutor(t)
	sendErr := errors.New("overspend")
	group := &composer.BuiltGroup{
		Transactions: []composer.TransactionWithSigner{{Txn: paymentTxn(types.Address{1}, 1), Signer: &indexSigner{}}},
	}
	client.On("SendRawTransaction", mock.Anything, mock.Anything).Return("", sendErr).Once()

	_, err := e.Execute(context.Background(), group)
	assert.ErrorIs(t, err, composer.ErrNetwork)
	assert.ErrorIs(t, err, sendErr)
	client.AssertNotCalled(t, "WaitForConfirmation", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecutor_Execute_PoolError(t *testing.T) {
	e, client := setupTestExecutor(t)
	group := &composer.BuiltGroup{
		Transactions: []composer.TransactionWithSigner{{Txn: paymentTxn(types.Address{1}, 1), Signer: &indexSigner{}}},
	}
	client.On("SendRawTransaction", mock.Anything, mock.Anything).Return("", nil).Once()
	client.On("WaitForConfirmation", mock.Anything, mock.Anything, mock.Anything).
		Return(models.PendingTransactionInfoResponse{PoolError: "logic eval error"}, nil).Once()

	_, err := e.Execute(context.Background(), group)
	assert.ErrorIs(t, err, composer.ErrNetwork)
	assert.Contains(t, err.Error(), "logic eval error")
}

func TestExecutor_Execute_EmptyGroup(t *testing.T) {
	e, _ := setupTestExecutor(t)

	_, err := e.Execute(context.Background(), &composer.BuiltGroup{})
	assert.ErrorIs(t, err, composer.ErrConfiguration)

	_, err = e.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, composer.ErrConfiguration)
}

func TestExecutor_Execute_DecodesMethodReturns(t *testing.T) {
	e, client := setupTestExecutor(t)

	add, err := abi.MethodFromSignature("add(uint64,uint64)uint64")
	require.NoError(t, err)
	ping, err := abi.MethodFromSignature("ping()void")
	require.NoError(t, err)
	name, err := abi.MethodFromSignature("name()string")
	require.NoError(t, err)

	signer := &indexSigner{}
	group := &composer.BuiltGroup{
		Transactions: []composer.TransactionWithSigner{
			{Txn: paymentTxn(types.Address{1}, 1), Signer: signer},
			{Txn: paymentTxn(types.Address{1}, 2), Signer: signer},
			{Txn: paymentTxn(types.Address{1}, 3), Signer: signer},
			{Txn: paymentTxn(types.Address{1}, 4), Signer: signer},
		},
		Methods: map[int]abi.Method{3: name, 1: add, 2: ping},
	}
	txids := group.TxIDs()

	client.On("SendRawTransaction", mock.Anything, mock.Anything).Return(txids[0], nil).Once()
	client.On("WaitForConfirmation", mock.Anything, txids[0], mock.Anything).Return(confirmed(7), nil).Once()
	client.On("WaitForConfirmation", mock.Anything, txids[1], mock.Anything).
		Return(confirmed(7, []byte("debug"), returnLog([]byte{0, 0, 0, 0, 0, 0, 0, 42})), nil).Once()
	client.On("WaitForConfirmation", mock.Anything, txids[2], mock.Anything).Return(confirmed(7), nil).Once()
	client.On("WaitForConfirmation", mock.Anything, txids[3], mock.Anything).
		Return(confirmed(7, []byte("no return here")), nil).Once()

	result, err := e.Execute(context.Background(), group)
	require.NoError(t, err)
	require.Len(t, result.MethodResults, 3)

	sum := result.MethodResults[0]
	assert.Equal(t, 1, sum.Index)
	assert.Equal(t, txids[1], sum.TxID)
	assert.Equal(t, uint64(42), sum.ReturnValue)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 42}, sum.RawReturn)
	assert.NoError(t, sum.DecodeError)

	void := result.MethodResults[1]
	assert.Equal(t, 2, void.Index)
	assert.Nil(t, void.ReturnValue)
	assert.NoError(t, void.DecodeError)

	missing := result.MethodResults[2]
	assert.Equal(t, 3, missing.Index)
	assert.ErrorIs(t, missing.DecodeError, ErrMissingReturn)
}

func TestExecutor_Execute_ComposedGroup(t *testing.T) {
	e, client := setupTestExecutor(t)

	alice := crypto.GenerateAccount()
	bob := crypto.GenerateAccount()
	sm := signerManager.NewSignerManager()
	for _, acct := range []crypto.Account{alice, bob} {
		signer, err := txSigner.NewPrivateKeySigner(acct.PrivateKey)
		require.NoError(t, err)
		_, err = sm.AddSignerForOwnAddress(signer)
		require.NoError(t, err)
	}

	params := composer.NewMockISuggestedParamsProvider(t)
	params.On("Get", mock.Anything).Return(types.SuggestedParams{
		Fee:             0,
		MinFee:          1000,
		GenesisID:       "testnet-v1.0",
		GenesisHash:     make([]byte, 32),
		FirstRoundValid: 100,
		LastRoundValid:  1100,
	}, nil).Once()

	c := composer.NewComposer(params, sm, e, nil)
	require.NoError(t, c.AddPayment(composer.PaymentSpec{
		CommonParams: composer.CommonParams{Sender: alice.Address},
		Receiver:     bob.Address,
		Amount:       1,
	}))
	require.NoError(t, c.AddPayment(composer.PaymentSpec{
		CommonParams: composer.CommonParams{Sender: bob.Address},
		Receiver:     alice.Address,
		Amount:       2,
	}))

	var sent []byte
	client.On("SendRawTransaction", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).([]byte) }).
		Return("", nil).Once()
	client.On("WaitForConfirmation", mock.Anything, mock.Anything, mock.Anything).Return(confirmed(101), nil).Times(2)

	result, err := c.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, composer.StatusSubmitted, c.Status())

	group := c.BuiltGroup()
	var expected [][]byte
	for i, acct := range []crypto.Account{alice, bob} {
		_, stx, err := crypto.SignTransaction(acct.PrivateKey, group.Transactions[i].Txn)
		require.NoError(t, err)
		expected = append(expected, stx)
	}
	assert.Equal(t, bytes.Join(expected, nil), sent)
	assert.Equal(t, group.GroupID, result.GroupID)
	assert.NotEqual(t, types.Digest{}, result.GroupID)
}
