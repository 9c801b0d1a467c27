package config

import (
	"fmt"
	"strings"
)

// ValidateConfig rejects configurations that would fail at first use.
func ValidateConfig(cfg *Config) error {
	var missing []string

	if cfg.DBUser == "" {
		missing = append(missing, "DB_USER")
	}
	if cfg.DBName == "" {
		missing = append(missing, "DB_NAME")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if cfg.S3Bucket != "" && cfg.AWSRegion == "" {
		return fmt.Errorf("AWS_REGION is required when S3_BUCKET_NAME is set")
	}
	return nil
}
