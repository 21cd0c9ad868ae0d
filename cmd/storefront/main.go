package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	// .env is optional; real config comes from the environment.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "storefront",
		Short:   "Storefront - compre e gerencie vouchers de internet",
		Version: Version,
	}

	rootCmd.PersistentFlags().String("api-url", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().String("session-db", "", "Session database path (overrides config)")

	rootCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(vouchersCmd())
	rootCmd.AddCommand(selectCmd())
	rootCmd.AddCommand(cartCmd())
	rootCmd.AddCommand(checkoutCmd())
	rootCmd.AddCommand(confirmCmd())
	rootCmd.AddCommand(ordersCmd())
	rootCmd.AddCommand(panelCmd())
	rootCmd.AddCommand(adminCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
