//go:generate app-config -input ./app.json -output ./config_structs.go -pkg config --struct BaseConfig -extension overrides.yml
//go:generate config-getters -input ./config_structs.go -output config_getters.go
package config

import (
	"fmt"
	"time"
)

func (a BaseConfig) Validate() error {
	return nil
}

func (p Persistence) GetPingTimeout() time.Duration {
	if p.PingTimeoutExpression == "" {
		return 5 * time.Second
	}

	dur, err := time.ParseDuration(p.PingTimeoutExpression)
	if err != nil {
		panic(
			fmt.Sprintf("unable to parse time: expr %s", p.PingTimeoutExpression),
		)
	}
	return dur
}

// GetOtelIdentifier satisfies persistence.Config; empty disables the otel hook.
func (p Persistence) GetOtelIdentifier() string {
	return ""
}

// GetDSN builds the connection string handed to sql.Open. For file backed
// drivers the database field already is the full DSN.
func (p Persistence) GetDSN() string {
	switch p.Driver {
	case "sqlite", "sqlite3", "":
		if p.Database == "" {
			return "file::memory:?cache=shared"
		}
		return p.Database
	default:
		return fmt.Sprintf("%s/%s", p.Server, p.Database)
	}
}
