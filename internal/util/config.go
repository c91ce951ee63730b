package util

import (
	"strings"

	"github.com/gkf-project/gkf/backend/pkg/linker"
)

// LinkerConfigFromEnv reads per-source resolver settings from the
// environment. Keys follow LINKER_<SOURCE>_<SETTING>, e.g.
// LINKER_WIKIDATA_ENDPOINT. Unset keys leave the zero value so each
// resolver applies its own defaults.
func LinkerConfigFromEnv(source string) linker.Config {
	prefix := "LINKER_" + strings.ToUpper(source) + "_"
	return linker.Config{
		Endpoint:              GetEnv(prefix + "ENDPOINT"),
		Timeout:               GetEnvSeconds(prefix+"TIMEOUT_SECONDS", 0),
		MaxResults:            GetEnvInt(prefix+"MAX_RESULTS", 0),
		Language:              GetEnv(prefix + "LANGUAGE"),
		RequestsPerSecond:     GetEnvNumeric(prefix+"REQUESTS_PER_SECOND", 0),
		MaxConcurrentRequests: int64(GetEnvInt(prefix+"MAX_CONCURRENT_REQUESTS", 0)),
	}
}
