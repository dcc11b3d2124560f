package configs

import (
	"flag"
	"os"

	"github.com/bazario/chat-service/internal/infrastructure/env"
)

// DeterminePath resolves the config file location from the --config flag,
// the CHAT_CONFIG env var or a list of conventional locations. An empty
// result means "defaults only", which is a valid way to run the service.
func DeterminePath() string {
	var configPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	if configPath == "" {
		configPath = env.GetString("CHAT_CONFIG", "")
	}

	if configPath == "" {
		candidates := []string{
			"./config.yaml",
			"./config.yml",
			"/etc/chat-service/config.yaml",
			"/app/config.yaml", // common in Docker
		}

		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	return configPath
}
