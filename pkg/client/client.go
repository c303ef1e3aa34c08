// Package client ties the pieces of a group submission together: a signer registry,
// a suggested parameters cache and an executor, shared by every composer the client
// creates.
package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/Layr-Labs/txgroup-go/pkg/algodClient"
	"github.com/Layr-Labs/txgroup-go/pkg/composer"
	"github.com/Layr-Labs/txgroup-go/pkg/executor"
	"github.com/Layr-Labs/txgroup-go/pkg/logger"
	"github.com/Layr-Labs/txgroup-go/pkg/signerManager"
	"github.com/Layr-Labs/txgroup-go/pkg/suggestedParams"
	"github.com/Layr-Labs/txgroup-go/pkg/txSigner"
)

type Config struct {
	// ParamsTTL is how long fetched suggested params are reused
	ParamsTTL time.Duration
	// WaitRounds bounds how many rounds to wait for confirmation
	WaitRounds uint64
}

// Option customizes a Client.
type Option func(*options)

type options struct {
	source suggestedParams.ISuggestedParamsSource
	clock  clock.Clock
}

// WithParamsSource replaces the node as the source of suggested params.
func WithParamsSource(source suggestedParams.ISuggestedParamsSource) Option {
	return func(o *options) { o.source = source }
}

// WithClock sets the clock the params cache measures its TTL with.
func WithClock(clk clock.Clock) Option {
	return func(o *options) { o.clock = clk }
}

// Client owns the state shared by the groups it creates. Named groups are kept until
// they are replaced or forgotten.
type Client struct {
	signers  *signerManager.SignerManager
	params   *suggestedParams.Cache
	executor *executor.Executor
	logger   *zap.Logger

	mu     sync.Mutex
	groups map[string]*composer.Composer
}

// NewClient creates a Client talking to node.
func NewClient(cfg *Config, node algodClient.IAlgodClient, l *zap.Logger, opts ...Option) *Client {
	if cfg == nil {
		cfg = &Config{}
	}
	l = logger.OrNop(l)

	o := &options{source: node, clock: clock.New()}
	for _, opt := range opts {
		opt(o)
	}

	return &Client{
		signers:  signerManager.NewSignerManager(),
		params:   suggestedParams.NewCacheWithClock(&suggestedParams.Config{TTL: cfg.ParamsTTL}, o.source, o.clock, l),
		executor: executor.NewExecutor(&executor.Config{WaitRounds: cfg.WaitRounds}, node, l),
		logger:   l,
		groups:   map[string]*composer.Composer{},
	}
}

// Signers returns the registry consulted for requests without an explicit signer.
func (c *Client) Signers() *signerManager.SignerManager {
	return c.signers
}

// AddSigner registers signer under its own address and returns that address.
func (c *Client) AddSigner(signer txSigner.ITransactionSigner) (types.Address, error) {
	return c.signers.AddSignerForOwnAddress(signer)
}

// SuggestedParams returns the params the next group built by this client would use.
func (c *Client) SuggestedParams(ctx context.Context) (types.SuggestedParams, error) {
	return c.params.Get(ctx)
}

// NewGroup returns an empty composer wired to this client.
func (c *Client) NewGroup() *composer.Composer {
	return composer.NewComposer(c.params, c.signers, c.executor, c.logger)
}

// NewNamedGroup returns an empty composer and keeps it under name, replacing any
// group previously kept under the same name.
func (c *Client) NewNamedGroup(name string) *composer.Composer {
	group := c.NewGroup()

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.groups[name]; exists {
		c.logger.Sugar().Debugw("Replacing named group", zap.String("name", name))
	}
	c.groups[name] = group
	return group
}

// Group returns the composer kept under name.
func (c *Client) Group(name string) (*composer.Composer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	group, ok := c.groups[name]
	return group, ok
}

// ForgetGroup drops the composer kept under name.
func (c *Client) ForgetGroup(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.groups, name)
}

// SendPayment executes a group holding a single payment.
func (c *Client) SendPayment(ctx context.Context, spec composer.PaymentSpec) (*composer.ExecuteResult, error) {
	return c.sendOne(ctx, func(g *composer.Composer) error { return g.AddPayment(spec) })
}

// SendAssetCreate executes a group holding a single asset creation.
func (c *Client) SendAssetCreate(ctx context.Context, spec composer.AssetCreateSpec) (*composer.ExecuteResult, error) {
	return c.sendOne(ctx, func(g *composer.Composer) error { return g.AddAssetCreate(spec) })
}

// SendMethodCall executes a group holding a method call and its transaction arguments.
func (c *Client) SendMethodCall(ctx context.Context, spec composer.MethodCallSpec) (*composer.ExecuteResult, error) {
	return c.sendOne(ctx, func(g *composer.Composer) error { return g.AddMethodCall(spec) })
}

func (c *Client) sendOne(ctx context.Context, add func(*composer.Composer) error) (*composer.ExecuteResult, error) {
	group := c.NewGroup()
	if err := add(group); err != nil {
		return nil, err
	}
	result, err := group.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to execute group: %w", err)
	}
	return result, nil
}
