// internal/pipeline/rank-alternatives/config.go
package rankalternatives

type Config struct {
	MaxAlternatives int
}

func LoadConfig() *Config {
	return &Config{
		MaxAlternatives: 3,
	}
}
