// Package algodClient provides the network connection used to fetch suggested
// parameters and to submit transaction groups. It wraps the algod REST client with a
// request limiter so that parameter refreshes and confirmation polling share one budget.
package algodClient

import (
	"context"
	"fmt"
	"math"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/algod"
	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// IAlgodClient defines the network operations needed by the composer and executor.
// This interface allows for mocking and testing while keeping the algod REST client
// behind a single seam.
type IAlgodClient interface {
	// SuggestedParams fetches the current fee rate, minimum fee and validity window
	SuggestedParams(ctx context.Context) (types.SuggestedParams, error)
	// SendRawTransaction submits concatenated signed transactions and returns the first txid
	SendRawTransaction(ctx context.Context, rawTxns []byte) (string, error)
	// WaitForConfirmation blocks until txid is confirmed or waitRounds elapse
	WaitForConfirmation(ctx context.Context, txid string, waitRounds uint64) (models.PendingTransactionInfoResponse, error)
}

// Config holds the configuration for connecting to an algod node.
type Config struct {
	// URL is the algod REST endpoint
	URL string
	// Token is the algod API token, empty for public endpoints
	Token string
	// RequestsPerSecond limits outgoing requests; zero or less disables the limit
	RequestsPerSecond float64
	// Burst is the number of requests allowed above the steady rate
	Burst int
}

// AlgodClient implements IAlgodClient on top of the algod REST client.
type AlgodClient struct {
	config  *Config
	client  *algod.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewAlgodClient creates a new AlgodClient for the configured endpoint.
//
// Parameters:
//   - cfg: The endpoint, token and rate limit configuration
//   - l: A zap logger
//
// Returns:
//   - *AlgodClient: A new client
//   - error: An error if the algod client cannot be created
func NewAlgodClient(cfg *Config, l *zap.Logger) (*AlgodClient, error) {
	client, err := algod.MakeClient(cfg.URL, cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create algod client for %s: %w", cfg.URL, err)
	}
	return &AlgodClient{
		config:  cfg,
		client:  client,
		limiter: newLimiter(cfg),
		logger:  l,
	}, nil
}

func newLimiter(cfg *Config) *rate.Limiter {
	if cfg.RequestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = int(math.Max(1, math.Ceil(cfg.RequestsPerSecond)))
	}
	return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
}

// Client returns the underlying algod REST client.
func (a *AlgodClient) Client() *algod.Client {
	return a.client
}

// SuggestedParams fetches the current suggested transaction parameters.
func (a *AlgodClient) SuggestedParams(ctx context.Context) (types.SuggestedParams, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return types.SuggestedParams{}, err
	}
	params, err := a.client.SuggestedParams().Do(ctx)
	if err != nil {
		return types.SuggestedParams{}, fmt.Errorf("failed to get suggested params: %w", err)
	}
	a.logger.Sugar().Debugw("Fetched suggested params",
		zap.Uint64("fee", uint64(params.Fee)),
		zap.Uint64("minFee", params.MinFee),
		zap.Uint64("firstValid", uint64(params.FirstRoundValid)),
		zap.Uint64("lastValid", uint64(params.LastRoundValid)),
		zap.String("genesisId", params.GenesisID),
	)
	return params, nil
}

// SendRawTransaction submits the concatenated signed transactions of a group.
func (a *AlgodClient) SendRawTransaction(ctx context.Context, rawTxns []byte) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", err
	}
	txid, err := a.client.SendRawTransaction(rawTxns).Do(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to send raw transaction: %w", err)
	}
	return txid, nil
}

// WaitForConfirmation waits for txid to be confirmed within waitRounds rounds.
func (a *AlgodClient) WaitForConfirmation(ctx context.Context, txid string, waitRounds uint64) (models.PendingTransactionInfoResponse, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return models.PendingTransactionInfoResponse{}, err
	}
	info, err := transaction.WaitForConfirmation(a.client, txid, waitRounds, ctx)
	if err != nil {
		return models.PendingTransactionInfoResponse{}, fmt.Errorf("failed to wait for transaction %s: %w", txid, err)
	}
	return info, nil
}
