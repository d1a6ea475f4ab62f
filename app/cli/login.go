package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with a library card and store the token",
	RunE: func(cmd *cobra.Command, args []string) error {
		card, _ := cmd.Flags().GetString("card")
		password, _ := cmd.Flags().GetString("password")
		if card == "" || password == "" {
			return fmt.Errorf("both --card and --password are required")
		}

		var resp struct {
			Token string `json:"token"`
		}
		err := newClient().do(cmd.Context(), "POST", "/v1/patrons/login", map[string]string{
			"card_number": card,
			"password":    password,
		}, &resp)
		if err != nil {
			return err
		}

		if err := storeToken(resp.Token); err != nil {
			return fmt.Errorf("token received but could not be saved: %w", err)
		}
		fmt.Println(color.GreenString("logged in, token saved"))
		return nil
	},
}

func init() {
	loginCmd.Flags().String("card", "", "library card number")
	loginCmd.Flags().String("password", "", "password")
}

func storeToken(token string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	dir := filepath.Join(home, ".config", "librarianctl")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	cfg := map[string]string{
		"server": viper.GetString("server"),
		"token":  token,
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.yml"), raw, 0o600)
}
