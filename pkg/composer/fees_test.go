package composer

import (
	"context"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestComposer_Build_FlatAndExtraFeeRejected(t *testing.T) {
	c, params, _ := setupTestComposer(t)

	spec := payment(alice, 1)
	spec.FlatFee = uint64Ptr(1000)
	spec.ExtraFee = uint64Ptr(1000)
	require.NoError(t, c.AddPayment(spec))

	_, err := c.Build(context.Background())
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, StatusOpen, c.Status())
	params.AssertNotCalled(t, "Get", mock.Anything)
}

func TestComposer_Build_FeeFromSize(t *testing.T) {
	c, params, _ := setupTestComposer(t)
	params.On("Get", mock.Anything).Return(testParams(), nil).Once()

	spec := payment(alice, 1)
	spec.Note = make([]byte, 64)
	require.NoError(t, c.AddPayment(spec))

	group, err := c.Build(context.Background())
	require.NoError(t, err)

	txn := group.Transactions[0].Txn
	expected := estimateSize(feeBase(txn)) * 10
	require.Greater(t, expected, uint64(1000))
	assert.Equal(t, types.MicroAlgos(expected), txn.Fee)
}

func TestComposer_Build_FeeWithExtra(t *testing.T) {
	c, params, _ := setupTestComposer(t)
	params.On("Get", mock.Anything).Return(testParams(), nil).Once()

	plain := payment(alice, 1)
	extra := payment(bob, 1)
	extra.ExtraFee = uint64Ptr(2000)
	require.NoError(t, c.AddPayment(plain))
	require.NoError(t, c.AddPayment(extra))

	group, err := c.Build(context.Background())
	require.NoError(t, err)

	for _, ts := range group.Transactions {
		base := estimateSize(feeBase(ts.Txn)) * 10
		if ts.Txn.Sender == bob {
			assert.Equal(t, types.MicroAlgos(base+2000), ts.Txn.Fee)
		} else {
			assert.Equal(t, types.MicroAlgos(base), ts.Txn.Fee)
		}
	}
}

func TestComposer_Build_FeeFloorsAtMinFee(t *testing.T) {
	c, params, _ := setupTestComposer(t)
	p := testParams()
	p.Fee = 0
	params.On("Get", mock.Anything).Return(p, nil).Once()

	extra := payment(bob, 1)
	extra.ExtraFee = uint64Ptr(500)
	require.NoError(t, c.AddPayment(payment(alice, 1)))
	require.NoError(t, c.AddPayment(extra))

	group, err := c.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.MicroAlgos(1000), group.Transactions[0].Txn.Fee)
	assert.Equal(t, types.MicroAlgos(1500), group.Transactions[1].Txn.Fee)
}

func TestComposer_Build_FlatFeeVerbatim(t *testing.T) {
	c, params, _ := setupTestComposer(t)
	params.On("Get", mock.Anything).Return(testParams(), nil).Once()

	spec := payment(alice, 1)
	spec.FlatFee = uint64Ptr(0)
	require.NoError(t, c.AddPayment(spec))

	group, err := c.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.MicroAlgos(0), group.Transactions[0].Txn.Fee)
}

func TestComposer_Build_FlatParams(t *testing.T) {
	c, params, _ := setupTestComposer(t)
	p := testParams()
	p.Fee = 3000
	p.FlatFee = true
	params.On("Get", mock.Anything).Return(p, nil).Once()

	spec := payment(alice, 1)
	spec.ExtraFee = uint64Ptr(1000)
	require.NoError(t, c.AddPayment(spec))

	group, err := c.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.MicroAlgos(4000), group.Transactions[0].Txn.Fee)
}

func TestEstimateSize_GrowsWithNote(t *testing.T) {
	txn := types.Transaction{Type: types.PaymentTx}
	txn.Sender = alice
	small := estimateSize(txn)

	txn.Note = make([]byte, 100)
	assert.Greater(t, estimateSize(txn), small+99)
	assert.Greater(t, small, uint64(signatureOverhead))
}
