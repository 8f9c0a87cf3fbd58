package checkout

import (
	"github.com/bloom-commerce/bloom-server/pkg/config"
	"github.com/bloom-commerce/bloom-server/pkg/config/env"
	"github.com/bloom-commerce/bloom-server/pkg/config/memory"
	"github.com/bloom-commerce/bloom-server/pkg/config/wrapper"
)

const (
	envConfigPrefix = "CHECKOUT_SERVICE_"

	TransactionNumberPrefixConfigEnvName = envConfigPrefix + "TRANSACTION_NUMBER_PREFIX"
	defaultTransactionNumberPrefix       = "PT"

	DocumentNumberBaseConfigEnvName = envConfigPrefix + "DOCUMENT_NUMBER_BASE"
	defaultDocumentNumberBase       = 10000
)

type conf struct {
	transactionNumberPrefix config.String
	documentNumberBase      config.Uint64
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			transactionNumberPrefix: env.NewStringConfig(TransactionNumberPrefixConfigEnvName, defaultTransactionNumberPrefix),
			documentNumberBase:      env.NewUint64Config(DocumentNumberBaseConfigEnvName, defaultDocumentNumberBase),
		}
	}
}

type testOverrides struct {
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			transactionNumberPrefix: wrapper.NewStringConfig(memory.NewConfig(defaultTransactionNumberPrefix), defaultTransactionNumberPrefix),
			documentNumberBase:      wrapper.NewUint64Config(memory.NewConfig(uint64(defaultDocumentNumberBase)), defaultDocumentNumberBase),
		}
	}
}
