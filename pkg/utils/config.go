// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"errors"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/LeeDigitalWorks/filegate/pkg/logger"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

var (
	ConfigurationFileDirectory string
)

// LoadConfiguration merges <configFileName>.{toml,yaml,json,...} from the
// usual search paths into viper and enables environment overrides.
// Returns whether a file was found.
func LoadConfiguration(configFileName string, required bool) bool {
	viper.SetConfigName(configFileName)
	viper.AddConfigPath(ResolvePath(ConfigurationFileDirectory))
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.filegate")
	viper.AddConfigPath("/etc/filegate/")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if required {
				logger.Fatal().Msgf("Config file not found: %s", configFileName)
			}
			logger.Info().Msgf("Config file not found: %s", configFileName)
			return false
		}

		if required {
			logger.Fatal().Err(err).Msgf("Failed to load required config file: %s", configFileName)
		}
		logger.Warn().Err(err).Msgf("Failed to load config file: %s", configFileName)
		return false
	}
	logger.Info().Msgf("Loaded config file: %s", viper.ConfigFileUsed())

	return true
}

// LoadDotEnv exports the KEY=value pairs of dir/.env into the process
// environment, the way dotenv does. Variables that are already set win.
// Exported keys reach viper through AutomaticEnv (S3_BUCKET_NAME fills
// s3_bucket_name) and the SDK credential chains (AWS_ACCESS_KEY_ID,
// AWS_PROFILE).
func LoadDotEnv(dir string) bool {
	path := filepath.Join(ResolvePath(dir), ".env")
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn().Err(err).Str("path", path).Msg("Cannot stat .env file")
		}
		return false
	}

	vars, err := gotenv.Read(path)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Failed to load .env file")
		return false
	}

	exported := 0
	for key, val := range vars {
		if _, ok := os.LookupEnv(key); ok {
			continue
		}
		if err := os.Setenv(key, val); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("Failed to export .env variable")
			continue
		}
		exported++
	}
	logger.Info().Str("path", path).Int("exported", exported).Msg("Loaded .env file")
	return true
}

// ResolvePath expands a leading ~ to the current user's home directory.
func ResolvePath(path string) string {
	if path == "" {
		return "."
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	usr, err := user.Current()
	if err != nil {
		return path
	}
	if path == "~" {
		return usr.HomeDir
	}
	return filepath.Join(usr.HomeDir, path[2:])
}
