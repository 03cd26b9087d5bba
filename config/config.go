// Package config wires viper: registered defaults, LNGET_* environment variables and lnget.toml.
package config

import (
	"strings"

	"github.com/lnget-cli/lnget/constant"
	"github.com/lnget-cli/lnget/filesystem"
	"github.com/lnget-cli/lnget/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer maps config keys to environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup loads defaults, environment bindings and the config file if present.
func Setup() error {
	viper.SetConfigName(constant.Lnget)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Lnget)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}
