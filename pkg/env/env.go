// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package env

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

const (
	Local      = "local"
	Production = "production"
	Testing    = "testing"
)

var Env = Local

func IsLocal() bool {
	return Env == Local
}

func IsProduction() bool {
	return Env == Production
}

func IsTesting() bool {
	return Env == Testing
}

// Load resolves ENV from viper (config file or environment) once the
// configuration has been read. Unknown values fall back to local.
func Load() string {
	v := strings.ToLower(viper.GetString("env"))
	if v == "" {
		v = strings.ToLower(os.Getenv("ENV"))
	}

	switch v {
	case Production, Testing:
		Env = v
	default:
		Env = Local
	}
	return Env
}

// GinMode maps the environment onto gin's run mode.
func GinMode() string {
	switch Env {
	case Production:
		return gin.ReleaseMode
	case Testing:
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
