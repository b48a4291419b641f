package config

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Environment selects one of the supported venue deployments. The set is
// closed: adding a network is a code change, not configuration.
type Environment string

const (
	Testnet Environment = "testnet"
	Mainnet Environment = "mainnet"
)

// DomainParameters are the EIP-712 domain values binding an order signature
// to one network and exchange contract. Immutable per environment.
type DomainParameters struct {
	Name              string
	Version           string
	ChainID           int64
	VerifyingContract common.Address
}

// EnvironmentInfo holds the endpoints and signing domain for one environment.
type EnvironmentInfo struct {
	HTTPURL string
	WSURL   string
	Domain  DomainParameters
}

var environments = map[Environment]EnvironmentInfo{
	Testnet: {
		HTTPURL: "https://goerli-api.hook.xyz/query",
		WSURL:   "wss://goerli-api.hook.xyz/query",
		Domain: DomainParameters{
			Name:              "Hook",
			Version:           "1.0.0",
			ChainID:           46658378,
			VerifyingContract: common.HexToAddress("0x64247BeF0C0990aF63FCbdd21dc07aC2b251f500"),
		},
	},
	Mainnet: {
		HTTPURL: "https://api-prod.hook.xyz/query",
		WSURL:   "wss://api-prod.hook.xyz/query",
		Domain: DomainParameters{
			Name:              "Hook",
			Version:           "1.0.0",
			ChainID:           4665,
			VerifyingContract: common.HexToAddress("0xF9Bd1BaB25442A3b6888f2086736C6aC76A4Cf4B"),
		},
	},
}

// ParseEnvironment resolves an environment name.
func ParseEnvironment(s string) (Environment, error) {
	env := Environment(s)
	if _, ok := environments[env]; !ok {
		return "", fmt.Errorf("unknown environment %q", s)
	}
	return env, nil
}

// Info returns the endpoints and domain parameters for the environment.
// Constructors validate the environment up front; an unknown value here is a
// programming error.
func (e Environment) Info() EnvironmentInfo {
	info, ok := environments[e]
	if !ok {
		panic(fmt.Sprintf("unknown environment %q", string(e)))
	}
	return info
}
