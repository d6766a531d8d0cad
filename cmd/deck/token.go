package main

import (
	"github.com/spf13/cobra"

	"vibin_discovery/client"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Request a session token from a dev mode server",
	RunE:  runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().String("user", "", "user id to issue the token for (default: user_id from config)")
}

func runToken(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetString("user")
	if userID == "" {
		userID = cfg.UserID
	}
	p := newPrinter(cmd.OutOrStdout(), !noColor)
	if userID == "" {
		p.Error("no user id: pass --user or set user_id")
		return errNoUser
	}

	c, err := client.New(cfg.BaseURL, cfg.RequestTimeout, logger.Named("client"))
	if err != nil {
		return err
	}
	defer c.Close()

	creds, err := c.RequestToken(cmd.Context(), userID)
	if err != nil {
		return err
	}
	p.Success("token for %s", creds.UserID)
	p.Print("%s", creds.Token)
	return nil
}
