// internal/pipeline/extract-signals/config.go
package extractsignals

type Config struct {
	DefaultPlanType string
}

func LoadConfig() *Config {
	return &Config{
		DefaultPlanType: "prepaid",
	}
}
