package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/lnget-cli/lnget/color"
	"github.com/lnget-cli/lnget/config"
	"github.com/lnget-cli/lnget/constant"
	"github.com/lnget-cli/lnget/filesystem"
	"github.com/lnget-cli/lnget/icon"
	"github.com/lnget-cli/lnget/style"
	"github.com/lnget-cli/lnget/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

func configFilePath() string {
	return filepath.Join(where.Config(), constant.Lnget+".toml")
}

// field returns the registered field for key or an error suggesting the closest key.
func field(key string) (config.Field, error) {
	if f, ok := config.Default[key]; ok {
		return f, nil
	}

	closest := lo.MinBy(lo.Keys(config.Default), func(a, b string) bool {
		return levenshtein.Distance(key, a) < levenshtein.Distance(key, b)
	})
	return config.Field{}, fmt.Errorf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(key),
		style.Fg(color.Yellow)(closest),
	)
}

// parseValue converts raw command line values to the type of f's default.
func parseValue(f config.Field, raw []string) (any, error) {
	if len(raw) == 0 {
		return nil, errors.New("value is required")
	}

	switch f.Value.(type) {
	case string:
		return raw[0], nil
	case int:
		n, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid integer value: %s", raw[0])
		}
		return n, nil
	case bool:
		b, err := strconv.ParseBool(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value: %s", raw[0])
		}
		return b, nil
	case []string:
		return raw, nil
	default:
		return nil, fmt.Errorf("unsupported type for %s", f.Key)
	}
}

// writeConfig saves the current settings, creating the file if needed.
func writeConfig() error {
	err := viper.WriteConfig()
	if errors.As(err, new(viper.ConfigFileNotFoundError)) {
		return viper.SafeWriteConfig()
	}
	return err
}

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", []string{}, "Keys to describe, all if empty")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	lo.Must0(configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys))
	configInfoCmd.SetOut(os.Stdout)
}

var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe configuration keys",
	Run: func(cmd *cobra.Command, args []string) {
		fields := lo.Values(config.Default)

		if keys := lo.Must(cmd.Flags().GetStringSlice("key")); len(keys) > 0 {
			fields = make([]config.Field, 0, len(keys))
			for _, k := range keys {
				f, err := field(k)
				handleErr(err)
				fields = append(fields, f)
			}
		}

		slices.SortFunc(fields, func(a, b config.Field) int {
			switch {
			case a.Key < b.Key:
				return -1
			case a.Key > b.Key:
				return 1
			default:
				return 0
			}
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(lo.ToSlicePtr(fields)))
			return
		}

		for i := range fields {
			cmd.Print(fields[i].Pretty())

			if i < len(fields)-1 {
				cmd.Print("\n\n")
			}
		}
		cmd.Println()
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
}

var configSetCmd = &cobra.Command{
	Use:               "set key value...",
	Short:             "Set a configuration key",
	Args:              cobra.MinimumNArgs(2),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		f, err := field(args[0])
		handleErr(err)

		v, err := parseValue(f, args[1:])
		handleErr(err)

		viper.Set(f.Key, v)
		handleErr(writeConfig())

		fmt.Printf(
			"%s set %s to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(f.Key),
			style.Fg(color.Yellow)(fmt.Sprint(v)),
		)
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
}

var configGetCmd = &cobra.Command{
	Use:               "get key",
	Short:             "Print the value of a configuration key",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		f, err := field(args[0])
		handleErr(err)
		fmt.Println(viper.Get(f.Key))
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the current configuration to " + constant.Lnget + ".toml",
	Run: func(cmd *cobra.Command, args []string) {
		path := configFilePath()

		if lo.Must(cmd.Flags().GetBool("force")) {
			if err := filesystem.API().Remove(path); err != nil && !os.IsNotExist(err) {
				handleErr(err)
			}
		}

		handleErr(viper.SafeWriteConfig())
		fmt.Printf("%s wrote config to %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), path)
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Delete the config file",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(configFilePath()))
		fmt.Printf("%s deleted config\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)

	configResetCmd.Flags().StringP("key", "k", "", "Key to reset")
	configResetCmd.Flags().BoolP("all", "a", false, "Reset every key")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")
	configResetCmd.MarkFlagsOneRequired("key", "all")
	lo.Must0(configResetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys))
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset configuration keys to their defaults",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("all")) {
			for k, f := range config.Default {
				viper.Set(k, f.Value)
			}
			handleErr(writeConfig())
			fmt.Printf("%s reset all config values\n", style.Fg(color.Green)(icon.Get(icon.Success)))
			return
		}

		f, err := field(lo.Must(cmd.Flags().GetString("key")))
		handleErr(err)

		viper.Set(f.Key, f.Value)
		handleErr(writeConfig())

		fmt.Printf(
			"%s reset %s to default value %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(f.Key),
			style.Fg(color.Yellow)(fmt.Sprint(f.Value)),
		)
	},
}
