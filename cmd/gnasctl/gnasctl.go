package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gnasmp/gnasctl/cmd/gnasctl/root"
	"github.com/gnasmp/gnasctl/internal/cliutil"
	"github.com/gnasmp/gnasctl/pkg/launcher"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cmd     = root.NewRootCmd()
)

func init() {
	cobra.OnInitialize(initConfig)
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is $HOME/.gnasctl.yaml)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		var exitErr *launcher.ExitError
		if !errors.As(err, &exitErr) {
			log.Error(err)
		}
		os.Exit(launcher.ExitCode(err))
	}
}

func initConfig() {
	cliutil.SetDefaults(viper.GetViper())
	viper.SetEnvPrefix("GNASCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigName(".gnasctl")
		viper.SetConfigType("yaml")
		// Create an empty config so that `config set` has a file to write.
		_ = viper.SafeWriteConfig()
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Debug("No config file found")
			return
		}
		fmt.Println("Can't read config:", err)
		os.Exit(1)
	}
}
