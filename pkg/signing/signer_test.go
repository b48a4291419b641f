package signing

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hook-xyz/odyssey-go/pkg/config"
	"github.com/hook-xyz/odyssey-go/pkg/types"
)

// Key and expected outputs recorded from a production signer run against the
// mainnet domain. Any change to the struct schema or field encoding breaks
// these values.
const (
	vectorKey  = "0x28d9a28fc26c2ab04f5d9b662dbe3163211495df6f633bad17720656145e9cdc"
	vectorHash = "0xe471301f9ec44a0a1b66f5b0e2b6f9f720cdfcfcfbb8d96bb92d6b8927a71566"
	vectorSig  = "0x40fd267419f36e21c1955d18ae5e3cb1af3d866f35d5610b24e7fcd3275c694e785819d822e51d25af64a5de2767db787edd9cc6b576d7da0efcc53e258dc6721b"

	vectorMarketHash     = "0x2227a28199b649ce2995eb8a1b0d2b36116b7e1dddb3622d85860dc717df4305"
	vectorInstrumentHash = "0x194add7922e3fd9e6c17ca58efc31f97e6b891d13ea1919c751926daf98dd8a6"
)

func vectorOrder(t *testing.T) *types.PlaceOrderInput {
	t.Helper()

	price := decimal.NewFromInt(2)
	order, err := types.NewPlaceOrderInput(types.OrderParams{
		MarketHash:     vectorMarketHash,
		InstrumentHash: vectorInstrumentHash,
		Subaccount:     37,
		OrderType:      types.Limit,
		Direction:      types.Buy,
		Size:           decimal.NewFromInt(1),
		LimitPrice:     &price,
		TimeInForce:    types.GTC,
	})
	require.NoError(t, err)
	return order
}

func mainnetSigner(t *testing.T) *Signer {
	t.Helper()

	s, err := New(config.Mainnet.Info().Domain, vectorKey)
	require.NoError(t, err)
	return s
}

func TestSignOrder_RecordedVector(t *testing.T) {
	s := mainnetSigner(t)

	sig, hash, err := s.SignOrder(vectorOrder(t))
	require.NoError(t, err)

	assert.Equal(t, vectorHash, hash)
	assert.Equal(t, vectorSig, sig)
}

func TestSignOrder_Deterministic(t *testing.T) {
	s := mainnetSigner(t)
	order := vectorOrder(t)

	sig1, hash1, err := s.SignOrder(order)
	require.NoError(t, err)
	sig2, hash2, err := s.SignOrder(order)
	require.NoError(t, err)

	assert.Equal(t, sig1, sig2)
	assert.Equal(t, hash1, hash2)
}

func TestOrderHash_FieldSensitivity(t *testing.T) {
	s := mainnetSigner(t)

	base, err := s.OrderHash(vectorOrder(t))
	require.NoError(t, err)

	mutations := map[string]func(*types.PlaceOrderInput){
		"direction":  func(o *types.PlaceOrderInput) { o.Direction = types.Sell },
		"subaccount": func(o *types.PlaceOrderInput) { o.Subaccount = 38 },
		"size":       func(o *types.PlaceOrderInput) { o.Size.Add(o.Size, o.Size) },
		"nonce":      func(o *types.PlaceOrderInput) { o.Nonce = 1 },
		"postOnly":   func(o *types.PlaceOrderInput) { o.PostOnly = true },
		"reduceOnly": func(o *types.PlaceOrderInput) { o.ReduceOnly = true },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			order := vectorOrder(t)
			mutate(order)

			hash, err := s.OrderHash(order)
			require.NoError(t, err)
			assert.NotEqual(t, base, hash)
		})
	}
}

func TestOrderHash_DomainSensitivity(t *testing.T) {
	mainnet := mainnetSigner(t)
	testnet, err := New(config.Testnet.Info().Domain, vectorKey)
	require.NoError(t, err)

	order := vectorOrder(t)
	mainHash, err := mainnet.OrderHash(order)
	require.NoError(t, err)
	testHash, err := testnet.OrderHash(order)
	require.NoError(t, err)

	assert.NotEqual(t, mainHash, testHash)
}

func TestSignOrder_SignatureRecovers(t *testing.T) {
	s := mainnetSigner(t)

	sigHex, hashHex, err := s.SignOrder(vectorOrder(t))
	require.NoError(t, err)

	sig, err := hexutil.Decode(sigHex)
	require.NoError(t, err)
	require.Len(t, sig, 65)
	assert.Contains(t, []byte{27, 28}, sig[64])

	digest, err := hexutil.Decode(hashHex)
	require.NoError(t, err)

	sig[64] -= 27
	pub, err := crypto.SigToPub(digest, sig)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), crypto.PubkeyToAddress(*pub))
}

func TestSignOrder_MarketOrderZeroDefaults(t *testing.T) {
	s := mainnetSigner(t)

	order, err := types.NewPlaceOrderInput(types.OrderParams{
		MarketHash:     vectorMarketHash,
		InstrumentHash: vectorInstrumentHash,
		Subaccount:     37,
		OrderType:      types.Market,
		Direction:      types.Sell,
		Size:           decimal.NewFromInt(1),
		TimeInForce:    types.GTC,
	})
	require.NoError(t, err)

	td := BuildTypedData(s.domain, order)
	assert.Equal(t, "0", td.Message["limitPrice"])
	assert.Equal(t, "0", td.Message["expiration"])
	assert.Equal(t, "0", td.Message["taker"])
	assert.Equal(t, "0", td.Message["counter"])
	assert.Equal(t, false, td.Message["allOrNothing"])

	_, _, err = s.SignOrder(order)
	require.NoError(t, err)
}

func TestNew_Errors(t *testing.T) {
	domain := config.Mainnet.Info().Domain

	_, err := New(domain, "")
	assert.True(t, errors.Is(err, ErrSigningUnavailable))

	_, err = New(domain, "0xnothex")
	assert.Error(t, err)
}
