package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/algorand/go-algorand-sdk/v2/abi"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// parseMethodArgs converts command line values to the Go values the ABI encoder
// expects. Only scalar argument types are accepted from the command line.
func parseMethodArgs(method abi.Method, raw []string) ([]any, error) {
	if len(raw) != len(method.Args) {
		return nil, fmt.Errorf("method %s takes %d arguments, got %d", method.Name, len(method.Args), len(raw))
	}
	args := make([]any, len(raw))
	for i, arg := range method.Args {
		value, err := parseMethodArg(arg.Type, raw[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		args[i] = value
	}
	return args, nil
}

func parseMethodArg(argType, raw string) (any, error) {
	switch {
	case argType == "string", argType == abi.AccountReferenceType:
		return raw, nil
	case argType == "address":
		addr, err := types.DecodeAddress(raw)
		if err != nil {
			return nil, err
		}
		return addr[:], nil
	case argType == "bool":
		return strconv.ParseBool(raw)
	case argType == "byte[]":
		return hexutil.Decode(raw)
	case argType == abi.AssetReferenceType, argType == abi.ApplicationReferenceType,
		strings.HasPrefix(argType, "uint"):
		return strconv.ParseUint(raw, 10, 64)
	default:
		return nil, fmt.Errorf("type %s cannot be given on the command line", argType)
	}
}
