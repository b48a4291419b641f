// Package signing assembles the EIP-712 typed data for an order and produces
// the domain-separated secp256k1 signature the venue verifies on chain.
package signing

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/hook-xyz/odyssey-go/pkg/config"
	"github.com/hook-xyz/odyssey-go/pkg/types"
)

const orderPrimaryType = "Order"

// instrumentTypePerpetual is the on-chain instrument category for perpetual
// futures. It is the only category this client trades.
const instrumentTypePerpetual = "2"

// orderTypes is the struct schema the venue's settlement contract hashes.
// Field order is part of the hash and must not change.
var orderTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	"Order": {
		{Name: "market", Type: "bytes32"},
		{Name: "instrumentType", Type: "uint8"},
		{Name: "instrumentId", Type: "bytes32"},
		{Name: "direction", Type: "uint8"},
		{Name: "maker", Type: "uint256"},
		{Name: "taker", Type: "uint256"},
		{Name: "amount", Type: "uint256"},
		{Name: "limitPrice", Type: "uint256"},
		{Name: "expiration", Type: "uint256"},
		{Name: "nonce", Type: "uint256"},
		{Name: "counter", Type: "uint256"},
		{Name: "postOnly", Type: "bool"},
		{Name: "reduceOnly", Type: "bool"},
		{Name: "allOrNothing", Type: "bool"},
	},
}

// BuildTypedData maps an order onto the contract's Order struct under the
// given signing domain. Fields the client never sets (taker, counter,
// allOrNothing) are pinned to their zero values.
func BuildTypedData(domain config.DomainParameters, order *types.PlaceOrderInput) apitypes.TypedData {
	limitPrice := "0"
	if order.LimitPrice != nil {
		limitPrice = order.LimitPrice.String()
	}
	expiration := "0"
	if order.Expiration != nil {
		expiration = strconv.FormatInt(*order.Expiration, 10)
	}

	direction := "0"
	if order.Direction == types.Sell {
		direction = "1"
	}

	return apitypes.TypedData{
		Types:       orderTypes,
		PrimaryType: orderPrimaryType,
		Domain: apitypes.TypedDataDomain{
			Name:              domain.Name,
			Version:           domain.Version,
			ChainId:           math.NewHexOrDecimal256(domain.ChainID),
			VerifyingContract: domain.VerifyingContract.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"market":         order.MarketHash,
			"instrumentType": instrumentTypePerpetual,
			"instrumentId":   order.InstrumentHash,
			"direction":      direction,
			"maker":          strconv.FormatUint(order.Subaccount, 10),
			"taker":          "0",
			"amount":         order.Size.String(),
			"limitPrice":     limitPrice,
			"expiration":     expiration,
			"nonce":          strconv.FormatUint(order.Nonce, 10),
			"counter":        "0",
			"postOnly":       order.PostOnly,
			"reduceOnly":     order.ReduceOnly,
			"allOrNothing":   false,
		},
	}
}

// hashTypedData computes the 32-byte digest keccak256(0x1901 || domainSeparator
// || hashStruct(message)) that gets signed.
func hashTypedData(td apitypes.TypedData) ([]byte, error) {
	domainSeparator, err := td.HashStruct("EIP712Domain", td.Domain.Map())
	if err != nil {
		return nil, fmt.Errorf("failed to hash signing domain: %w", err)
	}

	messageHash, err := td.HashStruct(td.PrimaryType, td.Message)
	if err != nil {
		return nil, fmt.Errorf("failed to hash order struct: %w", err)
	}

	payload := make([]byte, 0, 2+len(domainSeparator)+len(messageHash))
	payload = append(payload, 0x19, 0x01)
	payload = append(payload, domainSeparator...)
	payload = append(payload, messageHash...)

	return crypto.Keccak256(payload), nil
}
