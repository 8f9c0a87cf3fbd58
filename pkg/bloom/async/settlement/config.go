package async

import (
	"time"

	"github.com/bloom-commerce/bloom-server/pkg/config"
	"github.com/bloom-commerce/bloom-server/pkg/config/env"
	"github.com/bloom-commerce/bloom-server/pkg/config/memory"
	"github.com/bloom-commerce/bloom-server/pkg/config/wrapper"
)

const (
	envConfigPrefix = "SETTLEMENT_SWEEP_"

	LookbackConfigEnvName = envConfigPrefix + "LOOKBACK"
	defaultLookback       = 15 * time.Minute
)

type conf struct {
	lookback config.Duration
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			lookback: env.NewDurationConfig(LookbackConfigEnvName, defaultLookback),
		}
	}
}

type testOverrides struct {
	lookback time.Duration
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	if overrides.lookback == 0 {
		overrides.lookback = defaultLookback
	}

	return func() *conf {
		return &conf{
			lookback: wrapper.NewDurationConfig(memory.NewConfig(overrides.lookback), defaultLookback),
		}
	}
}
