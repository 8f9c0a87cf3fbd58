package refund

import (
	"github.com/bloom-commerce/bloom-server/pkg/config"
	"github.com/bloom-commerce/bloom-server/pkg/config/env"
	"github.com/bloom-commerce/bloom-server/pkg/config/memory"
	"github.com/bloom-commerce/bloom-server/pkg/config/wrapper"
)

const (
	envConfigPrefix = "REFUND_SERVICE_"

	RefundNumberPrefixConfigEnvName = envConfigPrefix + "REFUND_NUMBER_PREFIX"
	defaultRefundNumberPrefix       = "RF"

	DocumentNumberBaseConfigEnvName = envConfigPrefix + "DOCUMENT_NUMBER_BASE"
	defaultDocumentNumberBase       = 10000
)

type conf struct {
	refundNumberPrefix config.String
	documentNumberBase config.Uint64
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			refundNumberPrefix: env.NewStringConfig(RefundNumberPrefixConfigEnvName, defaultRefundNumberPrefix),
			documentNumberBase: env.NewUint64Config(DocumentNumberBaseConfigEnvName, defaultDocumentNumberBase),
		}
	}
}

type testOverrides struct {
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			refundNumberPrefix: wrapper.NewStringConfig(memory.NewConfig(defaultRefundNumberPrefix), defaultRefundNumberPrefix),
			documentNumberBase: wrapper.NewUint64Config(memory.NewConfig(uint64(defaultDocumentNumberBase)), defaultDocumentNumberBase),
		}
	}
}
