package main

import (
	"context"
	"fmt"
	"os"

	"github.com/algorand/go-algorand-sdk/v2/abi"
	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/ethereum/go-ethereum/common/hexutil"
	cli "github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Layr-Labs/txgroup-go/pkg/algodClient"
	"github.com/Layr-Labs/txgroup-go/pkg/client"
	"github.com/Layr-Labs/txgroup-go/pkg/composer"
	"github.com/Layr-Labs/txgroup-go/pkg/logger"
	"github.com/Layr-Labs/txgroup-go/pkg/txSigner"
)

const localnetToken = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func main() {
	app := &cli.App{
		Name:  "composer",
		Usage: "Compose and submit atomic transaction groups",
		Description: `The composer CLI builds atomic transaction groups from payments, asset
operations and application calls, signs them with the configured accounts and
submits them to an algod node.`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Enable debug logging",
				EnvVars: []string{"DEBUG"},
			},
			&cli.BoolFlag{
				Name:    "log-console",
				Usage:   "Log in human readable form instead of JSON",
				EnvVars: []string{"LOG_CONSOLE"},
			},
			&cli.StringFlag{
				Name:    "algod-url",
				Usage:   "algod REST endpoint",
				Value:   "http://localhost:4001",
				EnvVars: []string{"ALGOD_URL"},
			},
			&cli.StringFlag{
				Name:    "algod-token",
				Usage:   "algod API token",
				Value:   localnetToken,
				EnvVars: []string{"ALGOD_TOKEN"},
			},
			&cli.Float64Flag{
				Name:    "rps",
				Usage:   "Maximum algod requests per second (0 for unlimited)",
				EnvVars: []string{"ALGOD_RPS"},
			},
			&cli.DurationFlag{
				Name:    "params-ttl",
				Usage:   "How long suggested params are reused between groups",
				EnvVars: []string{"PARAMS_TTL"},
			},
			&cli.Uint64Flag{
				Name:    "wait-rounds",
				Usage:   "Rounds to wait for a group to be confirmed",
				Value:   10,
				EnvVars: []string{"WAIT_ROUNDS"},
			},
			// Signing options
			&cli.StringSliceFlag{
				Name:    "signer-mnemonic",
				Usage:   "25 word account mnemonic; repeat for several accounts",
				EnvVars: []string{"SIGNER_MNEMONICS"},
			},
			&cli.StringFlag{
				Name:    "signer-aws-secret-name",
				Usage:   "AWS Secrets Manager secret name containing an account mnemonic",
				EnvVars: []string{"SIGNER_AWS_SECRET_NAME"},
			},
			&cli.StringFlag{
				Name:    "signer-aws-region",
				Usage:   "AWS region of the signer secret",
				Value:   "us-east-1",
				EnvVars: []string{"SIGNER_AWS_REGION"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "pay",
				Usage: "Send a single payment",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "Sender address", Required: true},
					&cli.StringFlag{Name: "to", Usage: "Receiver address", Required: true},
					&cli.Uint64Flag{Name: "amount", Usage: "Amount in microAlgos", Required: true},
					&cli.StringFlag{Name: "note", Usage: "Note as 0x prefixed hex"},
					&cli.Uint64Flag{Name: "flat-fee", Usage: "Fee in microAlgos, used verbatim"},
				},
				Action: payAction,
			},
			{
				Name:  "asset-create",
				Usage: "Create an asset",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "Creator address", Required: true},
					&cli.Uint64Flag{Name: "total", Usage: "Total number of base units", Required: true},
					&cli.UintFlag{Name: "decimals", Usage: "Number of decimals"},
					&cli.StringFlag{Name: "unit-name", Usage: "Unit name"},
					&cli.StringFlag{Name: "asset-name", Usage: "Asset name"},
					&cli.BoolFlag{Name: "default-frozen", Usage: "Freeze new holdings by default"},
				},
				Action: assetCreateAction,
			},
			{
				Name:  "demo",
				Usage: "Fund a fresh account, create an asset and submit composed groups",
				Description: `Generates a new account funded by --funder, creates an asset from it and
then submits a group mixing a payment, an asset transfer and a nested group.
When --app-id and --method are given the group also calls that method.`,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "funder", Usage: "Address funding the demo account", Required: true},
					&cli.Uint64Flag{Name: "app-id", Usage: "Application to call"},
					&cli.StringFlag{Name: "method", Usage: "ABI method signature, e.g. doMath(uint64,uint64,string)uint64"},
					&cli.StringSliceFlag{Name: "arg", Usage: "Method argument; repeat in declaration order"},
				},
				Action: demoAction,
			},
		},
		Before: validateFlags,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func validateFlags(c *cli.Context) error {
	if len(c.StringSlice("signer-mnemonic")) == 0 && c.String("signer-aws-secret-name") == "" {
		return fmt.Errorf("must specify --signer-mnemonic or --signer-aws-secret-name")
	}
	return nil
}

func setupLogger(c *cli.Context) (*zap.Logger, error) {
	return logger.NewLogger(&logger.LoggerConfig{
		Debug:   c.Bool("debug"),
		Console: c.Bool("log-console"),
	})
}

func setupClient(c *cli.Context, l *zap.Logger) (*client.Client, error) {
	node, err := algodClient.NewAlgodClient(&algodClient.Config{
		URL:               c.String("algod-url"),
		Token:             c.String("algod-token"),
		RequestsPerSecond: c.Float64("rps"),
	}, l)
	if err != nil {
		return nil, err
	}

	cl := client.NewClient(&client.Config{
		ParamsTTL:  c.Duration("params-ttl"),
		WaitRounds: c.Uint64("wait-rounds"),
	}, node, l)

	for _, m := range c.StringSlice("signer-mnemonic") {
		signer, err := txSigner.NewPrivateKeySignerFromMnemonic(m)
		if err != nil {
			return nil, err
		}
		addr, err := cl.AddSigner(signer)
		if err != nil {
			return nil, err
		}
		l.Sugar().Debugw("Registered signer", zap.String("address", addr.String()))
	}

	if secretName := c.String("signer-aws-secret-name"); secretName != "" {
		signer, err := txSigner.NewAWSSecretsManagerSigner(&txSigner.AWSSecretsManagerSignerConfig{
			Region:     c.String("signer-aws-region"),
			SecretName: secretName,
		}, l)
		if err != nil {
			return nil, fmt.Errorf("failed to setup AWS Secrets Manager signer: %w", err)
		}
		addr, err := cl.AddSigner(signer)
		if err != nil {
			return nil, err
		}
		l.Sugar().Debugw("Registered signer", zap.String("address", addr.String()))
	}
	return cl, nil
}

func setup(c *cli.Context) (*client.Client, *zap.Logger, error) {
	l, err := setupLogger(c)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	cl, err := setupClient(c, l)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to setup client: %w", err)
	}
	return cl, l, nil
}

func addressFlag(c *cli.Context, name string) (types.Address, error) {
	addr, err := types.DecodeAddress(c.String(name))
	if err != nil {
		return types.Address{}, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return addr, nil
}

func payAction(c *cli.Context) error {
	cl, l, err := setup(c)
	if err != nil {
		return err
	}
	from, err := addressFlag(c, "from")
	if err != nil {
		return err
	}
	to, err := addressFlag(c, "to")
	if err != nil {
		return err
	}

	spec := composer.PaymentSpec{
		CommonParams: composer.CommonParams{Sender: from},
		Receiver:     to,
		Amount:       c.Uint64("amount"),
	}
	if note := c.String("note"); note != "" {
		spec.Note, err = hexutil.Decode(note)
		if err != nil {
			return fmt.Errorf("invalid --note: %w", err)
		}
	}
	if c.IsSet("flat-fee") {
		fee := c.Uint64("flat-fee")
		spec.FlatFee = &fee
	}

	result, err := cl.SendPayment(context.Background(), spec)
	if err != nil {
		return err
	}
	l.Sugar().Infow("Payment confirmed",
		zap.String("txId", result.TxIDs[0]),
		zap.Uint64("round", result.ConfirmedRound),
	)
	return nil
}

func assetCreateAction(c *cli.Context) error {
	cl, l, err := setup(c)
	if err != nil {
		return err
	}
	from, err := addressFlag(c, "from")
	if err != nil {
		return err
	}

	result, err := cl.SendAssetCreate(context.Background(), composer.AssetCreateSpec{
		CommonParams:  composer.CommonParams{Sender: from},
		Total:         c.Uint64("total"),
		Decimals:      uint32(c.Uint("decimals")),
		DefaultFrozen: c.Bool("default-frozen"),
		UnitName:      c.String("unit-name"),
		AssetName:     c.String("asset-name"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("Asset ID: %d\n", result.Confirmations[0].AssetIndex)
	l.Sugar().Infow("Asset created",
		zap.Uint64("assetId", result.Confirmations[0].AssetIndex),
		zap.Uint64("round", result.ConfirmedRound),
	)
	return nil
}

func demoAction(c *cli.Context) error {
	cl, l, err := setup(c)
	if err != nil {
		return err
	}
	funder, err := addressFlag(c, "funder")
	if err != nil {
		return err
	}
	ctx := context.Background()

	account := crypto.GenerateAccount()
	signer, err := txSigner.NewPrivateKeySigner(account.PrivateKey)
	if err != nil {
		return err
	}
	alice, err := cl.AddSigner(signer)
	if err != nil {
		return err
	}
	l.Sugar().Infow("Generated demo account", zap.String("address", alice.String()))

	if _, err := cl.SendPayment(ctx, composer.PaymentSpec{
		CommonParams: composer.CommonParams{Sender: funder},
		Receiver:     alice,
		Amount:       10_000_000,
	}); err != nil {
		return fmt.Errorf("failed to fund demo account: %w", err)
	}

	created, err := cl.SendAssetCreate(ctx, composer.AssetCreateSpec{
		CommonParams: composer.CommonParams{Sender: alice},
		Total:        100,
	})
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	assetID := created.Confirmations[0].AssetIndex
	fmt.Printf("Created asset %d\n", assetID)

	// the nested group is built on its own first and then embedded
	refund := cl.NewNamedGroup("refund")
	if err := refund.AddPayment(composer.PaymentSpec{
		CommonParams: composer.CommonParams{Sender: alice},
		Receiver:     funder,
		Amount:       1_000,
	}); err != nil {
		return err
	}

	group := cl.NewNamedGroup("demo")
	if err := group.AddPayment(composer.PaymentSpec{
		CommonParams: composer.CommonParams{Sender: alice, Note: []byte{1}},
		Receiver:     alice,
	}); err != nil {
		return err
	}
	if err := group.AddAssetTransfer(composer.AssetTransferSpec{
		CommonParams: composer.CommonParams{Sender: alice},
		AssetID:      assetID,
		Receiver:     alice,
		Amount:       1,
	}); err != nil {
		return err
	}
	if err := group.AddNestedGroup(refund); err != nil {
		return err
	}

	if c.IsSet("app-id") && c.IsSet("method") {
		method, err := abi.MethodFromSignature(c.String("method"))
		if err != nil {
			return fmt.Errorf("invalid --method: %w", err)
		}
		args, err := parseMethodArgs(method, c.StringSlice("arg"))
		if err != nil {
			return err
		}
		if err := group.AddMethodCall(composer.MethodCallSpec{
			CommonParams:  composer.CommonParams{Sender: alice},
			AppCallParams: composer.AppCallParams{AppID: c.Uint64("app-id")},
			Method:        method,
			Args:          args,
		}); err != nil {
			return err
		}
	}

	result, err := group.Execute(ctx)
	if err != nil {
		return fmt.Errorf("failed to execute demo group: %w", err)
	}

	fmt.Printf("Group %s confirmed in round %d\n", hexutil.Encode(result.GroupID[:]), result.ConfirmedRound)
	for i, txid := range result.TxIDs {
		fmt.Printf("  [%d] %s\n", i, txid)
	}
	for _, r := range result.MethodResults {
		if r.DecodeError != nil {
			fmt.Printf("  %s at %d: %v\n", r.Method.Name, r.Index, r.DecodeError)
			continue
		}
		fmt.Printf("  %s at %d returned %v\n", r.Method.Name, r.Index, r.ReturnValue)
	}
	return nil
}
