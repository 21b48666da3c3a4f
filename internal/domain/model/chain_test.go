package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresets(t *testing.T) {
	chains := Presets(DefaultSolanaAddress, DefaultEVMAddress)
	require.Len(t, chains, 2)

	sol, ok := ChainByName(chains, "Solana")
	require.True(t, ok)
	assert.Equal(t, int32(9), sol.Decimals)
	assert.Equal(t, FeedJupiter, sol.Feed)
	assert.Equal(t, SOLMint, sol.PriceKey(0))

	evm, ok := ChainByName(chains, " evm ")
	require.True(t, ok)
	assert.Equal(t, int32(18), evm.Decimals)
	assert.Equal(t, FeedCoinGecko, evm.Feed)

	_, ok = ChainByName(chains, "bitcoin")
	assert.False(t, ok)
}

func TestChain_PriceKey(t *testing.T) {
	evm, _ := ChainByName(Presets(DefaultSolanaAddress, DefaultEVMAddress), ChainEVM)

	tests := []struct {
		network int64
		key     string
		symbol  string
	}{
		{1, "ethereum", "ETH"},
		{137, "matic-network", "POL"},
		{10, "ethereum", "ETH"},
		{42161, "ethereum", "ETH"},
		{8453, "ethereum", "ETH"},
		{7777777, "ethereum", "ETH"},
		{56, "ethereum", "ETH"},
		{0, "ethereum", "ETH"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.key, evm.PriceKey(tt.network), "network %d", tt.network)
		assert.Equal(t, tt.symbol, evm.SymbolFor(tt.network), "network %d", tt.network)
	}
}

func TestChain_AssetIDs(t *testing.T) {
	chains := Presets(DefaultSolanaAddress, DefaultEVMAddress)
	assert.Equal(t, []string{SOLMint}, chains[0].AssetIDs())
	assert.Equal(t, []string{"ethereum", "matic-network"}, chains[1].AssetIDs())

	assert.Equal(t, "POL", chains[1].SymbolForAsset("matic-network"))
	assert.Equal(t, "ETH", chains[1].SymbolForAsset("ethereum"))
	assert.Equal(t, "", chains[1].SymbolForAsset("dogecoin"))
}

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name  string
		chain string
		addr  string
		ok    bool
	}{
		{"solana default", ChainSolana, DefaultSolanaAddress, true},
		{"solana mint", ChainSolana, SOLMint, true},
		{"solana short", ChainSolana, "abc", false},
		{"solana bad alphabet", ChainSolana, "0OIl" + DefaultSolanaAddress[4:], false},
		{"evm default", ChainEVM, DefaultEVMAddress, true},
		{"evm lowercase", ChainEVM, "0x63be781e86736971f115fcf86daa539a5e42e6b0", true},
		{"evm short", ChainEVM, "0x1234", false},
		{"evm solana key", ChainEVM, DefaultSolanaAddress, false},
		{"unknown chain", "tron", DefaultEVMAddress, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAddress(tt.chain, tt.addr)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidAddress)
			}
		})
	}
}

func TestNormalizeAddress(t *testing.T) {
	lower := NormalizeAddress(ChainEVM, "0x63be781e86736971f115fcf86daa539a5e42e6b0")
	assert.Equal(t, NormalizeAddress(ChainEVM, DefaultEVMAddress), lower)
	assert.NotEqual(t, "0x63be781e86736971f115fcf86daa539a5e42e6b0", lower)
	assert.Equal(t, DefaultSolanaAddress, NormalizeAddress(ChainSolana, "  "+DefaultSolanaAddress+" "))
	assert.Equal(t, "not-an-address", NormalizeAddress(ChainEVM, "not-an-address"))
}

func TestPrice_Available(t *testing.T) {
	assert.False(t, Price{}.Available())
	assert.True(t, Price{USDPrice: 1.5}.Available())
}

func TestDataMode_String(t *testing.T) {
	assert.Equal(t, "live", LiveMode.String())
	assert.Equal(t, "test", TestMode.String())
	assert.Equal(t, "unknown", DataMode(99).String())
}
