package initializers

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv reads a dotenv file into the process environment. The file is
// optional in containerized deployments where DATABASE_URL and friends
// arrive from the orchestrator; callers decide whether a miss is fatal.
func LoadEnv() error {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}
