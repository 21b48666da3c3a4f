package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/ethereum/go-ethereum/common"
)

const (
	ChainSolana = "solana"
	ChainEVM    = "evm"

	FeedJupiter   = "jupiter"
	FeedCoinGecko = "coingecko"

	// SOLMint is the wrapped SOL mint, used as the Jupiter price id.
	SOLMint = "So11111111111111111111111111111111111111112"

	DefaultSolanaAddress = "DuGAeaHQUGP4mZBD2hLUeZpDBUyV3ave6GDUKxkCcwRz"
	DefaultEVMAddress    = "0x63be781E86736971F115fcf86Daa539A5e42E6B0"

	solanaPublicKeyLen = 32
)

var ErrInvalidAddress = errors.New("invalid address")

// Network is one EVM network reachable through the evm preset.
type Network struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	PriceKey string `json:"price_key"`
}

// Chain is a donation preset: where the money goes and how its native token
// is priced.
type Chain struct {
	Name            string    `json:"name"`
	Symbol          string    `json:"symbol"`
	Decimals        int32     `json:"decimals"`
	Feed            string    `json:"feed"`
	AssetID         string    `json:"asset_id"`
	DonationAddress string    `json:"donation_address"`
	Networks        []Network `json:"networks,omitempty"`
}

// Network returns the network with the given id, if the preset has one.
func (c Chain) Network(id int64) (Network, bool) {
	for _, n := range c.Networks {
		if n.ID == id {
			return n, true
		}
	}
	return Network{}, false
}

// PriceKey resolves the asset id to price for a network. Unknown networks
// fall back to the preset's default asset.
func (c Chain) PriceKey(networkID int64) string {
	if n, ok := c.Network(networkID); ok {
		return n.PriceKey
	}
	return c.AssetID
}

// SymbolFor returns the native token symbol on a network.
func (c Chain) SymbolFor(networkID int64) string {
	if n, ok := c.Network(networkID); ok {
		return n.Symbol
	}
	return c.Symbol
}

// SymbolForAsset returns the symbol of the first network priced by assetID.
func (c Chain) SymbolForAsset(assetID string) string {
	if assetID == c.AssetID {
		return c.Symbol
	}
	for _, n := range c.Networks {
		if n.PriceKey == assetID {
			return n.Symbol
		}
	}
	return ""
}

// AssetIDs lists every distinct asset id the preset can be priced with.
func (c Chain) AssetIDs() []string {
	seen := map[string]bool{c.AssetID: true}
	ids := []string{c.AssetID}
	for _, n := range c.Networks {
		if !seen[n.PriceKey] {
			seen[n.PriceKey] = true
			ids = append(ids, n.PriceKey)
		}
	}
	return ids
}

// Presets builds the two donation presets.
func Presets(solanaAddress, evmAddress string) []Chain {
	return []Chain{
		{
			Name:            ChainSolana,
			Symbol:          "SOL",
			Decimals:        9,
			Feed:            FeedJupiter,
			AssetID:         SOLMint,
			DonationAddress: solanaAddress,
		},
		{
			Name:            ChainEVM,
			Symbol:          "ETH",
			Decimals:        18,
			Feed:            FeedCoinGecko,
			AssetID:         "ethereum",
			DonationAddress: evmAddress,
			Networks: []Network{
				{ID: 1, Name: "mainnet", Symbol: "ETH", PriceKey: "ethereum"},
				{ID: 137, Name: "polygon", Symbol: "POL", PriceKey: "matic-network"},
				{ID: 10, Name: "optimism", Symbol: "ETH", PriceKey: "ethereum"},
				{ID: 42161, Name: "arbitrum", Symbol: "ETH", PriceKey: "ethereum"},
				{ID: 8453, Name: "base", Symbol: "ETH", PriceKey: "ethereum"},
				{ID: 7777777, Name: "zora", Symbol: "ETH", PriceKey: "ethereum"},
			},
		},
	}
}

// ChainByName finds a preset by name, case-insensitively.
func ChainByName(chains []Chain, name string) (Chain, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range chains {
		if c.Name == name {
			return c, true
		}
	}
	return Chain{}, false
}

// ValidateAddress checks addr against the address format of the chain.
func ValidateAddress(chain, addr string) error {
	addr = strings.TrimSpace(addr)
	switch chain {
	case ChainSolana:
		if len(base58.Decode(addr)) != solanaPublicKeyLen {
			return fmt.Errorf("%w: %q is not a solana public key", ErrInvalidAddress, addr)
		}
		return nil
	case ChainEVM:
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("%w: %q is not a hex address", ErrInvalidAddress, addr)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown chain %q", ErrInvalidAddress, chain)
	}
}

// NormalizeAddress returns addr in its canonical form (EIP-55 checksum for
// EVM addresses).
func NormalizeAddress(chain, addr string) string {
	addr = strings.TrimSpace(addr)
	if chain == ChainEVM && common.IsHexAddress(addr) {
		return common.HexToAddress(addr).Hex()
	}
	return addr
}
