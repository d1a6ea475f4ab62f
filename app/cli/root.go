// Package cli implements librarianctl, a small admin client for the
// lending API. Configuration comes from ~/.config/librarianctl/config.yml
// and LIBRARIANCTL_* environment variables.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "librarianctl",
	Short: "Admin client for the library lending API",
	Long: `librarianctl talks to a running lending API instance.

Set the server address with --server, LIBRARIANCTL_SERVER, or the
"server" key in the config file. Authenticated commands need a token
obtained via "librarianctl login".`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("server", "http://localhost:8080", "API server base URL")
	rootCmd.PersistentFlags().String("token", "", "bearer token (overrides stored token)")

	viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(booksCmd)
	rootCmd.AddCommand(copiesCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(returnCmd)
}

func initConfig() {
	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "librarianctl"))
	}
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.SetEnvPrefix("librarianctl")
	viper.AutomaticEnv()

	// Missing config file is fine; flags and env cover everything.
	_ = viper.ReadInConfig()
}
