package txSigner

import (
	"context"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
	"go.uber.org/zap"
)

// AWSSecretsManagerSignerConfig holds the configuration for the AWS Secrets Manager signer.
type AWSSecretsManagerSignerConfig struct {
	// Region specifies the AWS region where the secret is stored
	Region string
	// SecretName is the name of the secret holding the 25 word account mnemonic
	SecretName string
}

// AWSSecretsManagerSigner implements ITransactionSigner with an account mnemonic stored
// in AWS Secrets Manager. The key is fetched for every signing call and never retained.
type AWSSecretsManagerSigner struct {
	logger  *zap.Logger
	config  *AWSSecretsManagerSignerConfig
	svc     secretsmanageriface.SecretsManagerAPI
	address types.Address
}

// NewAWSSecretsManagerSigner creates a new AWSSecretsManagerSigner for the configured secret.
// The secret is read once during construction to derive the signing address.
//
// Parameters:
//   - cfg: Region and secret name
//   - logger: A zap logger for logging operations and errors
//
// Returns:
//   - *AWSSecretsManagerSigner: A new signer instance
//   - error: An error if the AWS session cannot be created or the secret is invalid
func NewAWSSecretsManagerSigner(cfg *AWSSecretsManagerSignerConfig, logger *zap.Logger) (*AWSSecretsManagerSigner, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return NewAWSSecretsManagerSignerWithClient(cfg, secretsmanager.New(sess), logger)
}

// NewAWSSecretsManagerSignerWithClient creates a signer that reads the secret through svc.
func NewAWSSecretsManagerSignerWithClient(
	cfg *AWSSecretsManagerSignerConfig,
	svc secretsmanageriface.SecretsManagerAPI,
	logger *zap.Logger,
) (*AWSSecretsManagerSigner, error) {
	s := &AWSSecretsManagerSigner{
		logger: logger,
		config: cfg,
		svc:    svc,
	}
	account, err := s.getAccount(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to derive address from secret %s: %w", cfg.SecretName, err)
	}
	s.address = account.Address
	return s, nil
}

// getAccount retrieves the mnemonic from AWS Secrets Manager and derives the account.
func (a *AWSSecretsManagerSigner) getAccount(ctx context.Context) (crypto.Account, error) {
	input := &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(a.config.SecretName),
		VersionStage: aws.String("AWSCURRENT"),
	}

	result, err := a.svc.GetSecretValueWithContext(ctx, input)
	if err != nil {
		return crypto.Account{}, err
	}
	if result.SecretString == nil {
		return crypto.Account{}, fmt.Errorf("secret string is nil")
	}

	sk, err := mnemonic.ToPrivateKey(*result.SecretString)
	if err != nil {
		return crypto.Account{}, fmt.Errorf("failed to parse mnemonic: %w", err)
	}
	return crypto.AccountFromPrivateKey(sk)
}

// SignTransactions signs the requested indexes of txGroup with the key held in Secrets Manager.
func (a *AWSSecretsManagerSigner) SignTransactions(ctx context.Context, txGroup []types.Transaction, indexesToSign []int) ([][]byte, error) {
	account, err := a.getAccount(ctx)
	if err != nil {
		a.logger.Error("Failed to get secret", zap.String("secretName", a.config.SecretName), zap.Error(err))
		return nil, fmt.Errorf("failed to get secret: %w", err)
	}
	if account.Address != a.address {
		return nil, fmt.Errorf("address mismatch: expected %s, got %s", a.address, account.Address)
	}
	return signWithKey(account.PrivateKey, txGroup, indexesToSign)
}

// GetAddress returns the address derived from the stored mnemonic.
func (a *AWSSecretsManagerSigner) GetAddress() (types.Address, error) {
	return a.address, nil
}
