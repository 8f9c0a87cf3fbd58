package summary

import (
	"github.com/bloom-commerce/bloom-server/pkg/config"
	"github.com/bloom-commerce/bloom-server/pkg/config/env"
	"github.com/bloom-commerce/bloom-server/pkg/config/memory"
	"github.com/bloom-commerce/bloom-server/pkg/config/wrapper"
)

const (
	envConfigPrefix = "SUMMARY_SERVICE_"

	ReportLocaleConfigEnvName = envConfigPrefix + "REPORT_LOCALE"
	defaultReportLocale       = "en-US"

	ScheduleConfigEnvName = envConfigPrefix + "SCHEDULE"
	defaultSchedule       = "0 23 * * *"
)

type conf struct {
	reportLocale config.String
	schedule     config.String
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			reportLocale: env.NewStringConfig(ReportLocaleConfigEnvName, defaultReportLocale),
			schedule:     env.NewStringConfig(ScheduleConfigEnvName, defaultSchedule),
		}
	}
}

type testOverrides struct {
	reportLocale string
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	if overrides.reportLocale == "" {
		overrides.reportLocale = defaultReportLocale
	}

	return func() *conf {
		return &conf{
			reportLocale: wrapper.NewStringConfig(memory.NewConfig(overrides.reportLocale), defaultReportLocale),
			schedule:     wrapper.NewStringConfig(memory.NewConfig(defaultSchedule), defaultSchedule),
		}
	}
}
