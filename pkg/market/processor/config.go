package processor

import (
	"github.com/openmarket-labs/marketplace-server/pkg/config"
	"github.com/openmarket-labs/marketplace-server/pkg/config/env"
	"github.com/openmarket-labs/marketplace-server/pkg/config/memory"
	"github.com/openmarket-labs/marketplace-server/pkg/config/wrapper"
)

const (
	envConfigPrefix = "MARKETPLACE_PROCESSOR_"

	RewardPayoutAmountConfigEnvName = envConfigPrefix + "REWARD_PAYOUT_AMOUNT"
	defaultRewardPayoutAmount       = 10_000_000 // 10 tokens with 6 decimals

	RewardMintDecimalsConfigEnvName = envConfigPrefix + "REWARD_MINT_DECIMALS"
	defaultRewardMintDecimals       = 6
)

type conf struct {
	rewardPayoutAmount config.Uint64
	rewardMintDecimals config.Uint64
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			rewardPayoutAmount: env.NewUint64Config(RewardPayoutAmountConfigEnvName, defaultRewardPayoutAmount),
			rewardMintDecimals: env.NewUint64Config(RewardMintDecimalsConfigEnvName, defaultRewardMintDecimals),
		}
	}
}

type testOverrides struct {
	rewardPayoutAmount uint64
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	if overrides.rewardPayoutAmount == 0 {
		overrides.rewardPayoutAmount = defaultRewardPayoutAmount
	}

	return func() *conf {
		return &conf{
			rewardPayoutAmount: wrapper.NewUint64Config(memory.NewConfig(overrides.rewardPayoutAmount), defaultRewardPayoutAmount),
			rewardMintDecimals: wrapper.NewUint64Config(memory.NewConfig(defaultRewardMintDecimals), defaultRewardMintDecimals),
		}
	}
}
