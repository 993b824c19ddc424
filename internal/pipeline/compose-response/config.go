// internal/pipeline/compose-response/config.go
package composeresponse

type Config struct {
	PageSize int
}

func LoadConfig() *Config {
	return &Config{
		PageSize: 8,
	}
}
