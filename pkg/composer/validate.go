package composer

import (
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/abi"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

// specValidator checks every request before the build touches the network. It also
// counts the transactions the build will produce and rejects cyclic embeddings.
type specValidator struct {
	count     int
	depth     int
	calls     map[*MethodCallSpec]struct{}
	composers map[*Composer]struct{}
}

func newSpecValidator(root *Composer) *specValidator {
	return &specValidator{
		calls:     map[*MethodCallSpec]struct{}{},
		composers: map[*Composer]struct{}{root: {}},
	}
}

func (v *specValidator) checkCommon(c *CommonParams) error {
	if c.Sender == (types.Address{}) {
		return fmt.Errorf("%w: sender is required", ErrConfiguration)
	}
	if err := checkFeeDirectives(c); err != nil {
		return err
	}
	v.count++
	return nil
}

func (v *specValidator) checkAppCall(p *AppCallParams) error {
	if p.AppID == 0 && (len(p.ApprovalProgram) == 0 || len(p.ClearProgram) == 0) {
		return fmt.Errorf("%w: application creation requires approval and clear programs", ErrConfiguration)
	}
	return nil
}

func (v *specValidator) enter() error {
	v.depth++
	if v.depth > MaxGroupSize {
		return fmt.Errorf("%w: embedding deeper than %d levels", ErrConfiguration, MaxGroupSize)
	}
	return nil
}

func (v *specValidator) leave() { v.depth-- }

func (v *specValidator) visitPayment(s *PaymentSpec) error { return v.checkCommon(&s.CommonParams) }

func (v *specValidator) visitAssetCreate(s *AssetCreateSpec) error {
	return v.checkCommon(&s.CommonParams)
}

func (v *specValidator) visitAssetConfig(s *AssetConfigSpec) error {
	if s.AssetID == 0 {
		return fmt.Errorf("%w: asset id is required to reconfigure an asset", ErrConfiguration)
	}
	return v.checkCommon(&s.CommonParams)
}

func (v *specValidator) visitAssetFreeze(s *AssetFreezeSpec) error {
	return v.checkCommon(&s.CommonParams)
}

func (v *specValidator) visitAssetDestroy(s *AssetDestroySpec) error {
	if s.AssetID == 0 {
		return fmt.Errorf("%w: asset id is required to destroy an asset", ErrConfiguration)
	}
	return v.checkCommon(&s.CommonParams)
}

func (v *specValidator) visitAssetTransfer(s *AssetTransferSpec) error {
	return v.checkCommon(&s.CommonParams)
}

func (v *specValidator) visitKeyReg(s *KeyRegSpec) error { return v.checkCommon(&s.CommonParams) }

func (v *specValidator) visitAppCall(s *AppCallSpec) error {
	if err := v.checkAppCall(&s.AppCallParams); err != nil {
		return err
	}
	return v.checkCommon(&s.CommonParams)
}

func (v *specValidator) visitMethodCall(s *MethodCallSpec) error {
	if _, seen := v.calls[s]; seen {
		return fmt.Errorf("%w: method call %s embeds itself", ErrConfiguration, s.Method.Name)
	}
	if err := v.enter(); err != nil {
		return err
	}
	v.calls[s] = struct{}{}
	defer func() {
		delete(v.calls, s)
		v.leave()
	}()

	if len(s.Args) != len(s.Method.Args) {
		return fmt.Errorf("%w: method %s takes %d arguments, got %d",
			ErrConfiguration, s.Method.Name, len(s.Method.Args), len(s.Args))
	}
	for i, arg := range s.Method.Args {
		spec, isSpec := s.Args[i].(TxnSpec)
		if !abi.IsTransactionType(arg.Type) {
			if isSpec {
				return fmt.Errorf("%w: method %s argument %d of type %s is given a transaction",
					ErrConfiguration, s.Method.Name, i, arg.Type)
			}
			continue
		}
		if !isSpec || spec == nil {
			return fmt.Errorf("%w: method %s argument %d of type %s needs a transaction",
				ErrConfiguration, s.Method.Name, i, arg.Type)
		}
		if _, nested := spec.(*NestedGroupSpec); nested {
			return fmt.Errorf("%w: method %s argument %d cannot be a nested group",
				ErrConfiguration, s.Method.Name, i)
		}
		if err := spec.accept(v); err != nil {
			return err
		}
	}

	if err := v.checkAppCall(&s.AppCallParams); err != nil {
		return err
	}
	return v.checkCommon(&s.CommonParams)
}

func (v *specValidator) visitPreSigned(s *TransactionWithSigner) error {
	if s.Txn.Type == "" {
		return fmt.Errorf("%w: pre-built transaction has no type", ErrConfiguration)
	}
	if s.Signer == nil && s.Txn.Sender == (types.Address{}) {
		return fmt.Errorf("%w: pre-built transaction has neither signer nor sender", ErrConfiguration)
	}
	v.count++
	return nil
}

func (v *specValidator) visitNestedGroup(s *NestedGroupSpec) error {
	nested := s.Composer
	if nested == nil {
		return fmt.Errorf("%w: nested group has no composer", ErrConfiguration)
	}
	if _, seen := v.composers[nested]; seen {
		return fmt.Errorf("%w: composer is nested into itself", ErrConfiguration)
	}
	if nested.built != nil {
		v.count += len(nested.built.Transactions)
		return nil
	}

	if err := v.enter(); err != nil {
		return err
	}
	v.composers[nested] = struct{}{}
	defer func() {
		delete(v.composers, nested)
		v.leave()
	}()
	for _, spec := range nested.specs {
		if err := spec.accept(v); err != nil {
			return err
		}
	}
	return nil
}
