package signing

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/hook-xyz/odyssey-go/pkg/config"
	"github.com/hook-xyz/odyssey-go/pkg/types"
)

// ErrSigningUnavailable is returned when an operation needs a signature but
// no signing key was configured.
var ErrSigningUnavailable = errors.New("signing key not configured")

// Signer holds the private key and the environment's signing domain. The key
// never leaves this struct: it is not logged, serialized, or exposed through
// any accessor.
type Signer struct {
	domain config.DomainParameters
	key    *ecdsa.PrivateKey
}

// New parses the hex private key and binds it to the given signing domain.
// An empty key returns ErrSigningUnavailable so callers can distinguish a
// read-only configuration from a malformed key.
func New(domain config.DomainParameters, privateKeyHex string) (*Signer, error) {
	if privateKeyHex == "" {
		return nil, ErrSigningUnavailable
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse signing key: %w", err)
	}

	return &Signer{domain: domain, key: key}, nil
}

// Address returns the account address derived from the signing key.
func (s *Signer) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

// OrderHash returns the hex digest the venue verifies for this order under
// the signer's domain.
func (s *Signer) OrderHash(order *types.PlaceOrderInput) (string, error) {
	digest, err := hashTypedData(BuildTypedData(s.domain, order))
	if err != nil {
		return "", err
	}
	return hexutil.Encode(digest), nil
}

// SignOrder hashes the order and signs the digest. It returns the 65-byte
// signature and the digest, both hex encoded. The recovery byte is normalized
// to 27/28 as the venue expects.
func (s *Signer) SignOrder(order *types.PlaceOrderInput) (signature, orderHash string, err error) {
	digest, err := hashTypedData(BuildTypedData(s.domain, order))
	if err != nil {
		return "", "", err
	}

	sig, err := crypto.Sign(digest, s.key)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign order digest: %w", err)
	}
	sig[64] += 27

	return hexutil.Encode(sig), hexutil.Encode(digest), nil
}
