package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vibin_discovery/client"
	"vibin_discovery/discovery"
)

var swipeCmd = &cobra.Command{
	Use:   "swipe",
	Short: "Start an interactive discovery session",
	Long: `Start an interactive discovery session.

Cards are read from the server in the background. Type help at the prompt
for the list of commands.`,
	RunE: runSwipe,
}

func init() {
	rootCmd.AddCommand(swipeCmd)
	swipeCmd.Flags().String("user", "", "user id (default: user_id from config)")
	swipeCmd.Flags().String("token", "", "session token (default: token from config)")
}

func runSwipe(cmd *cobra.Command, args []string) error {
	lc := loginConfig{Token: cfg.Token, UserID: cfg.UserID}
	if v, _ := cmd.Flags().GetString("user"); v != "" {
		lc.UserID = v
	}
	if v, _ := cmd.Flags().GetString("token"); v != "" {
		lc.Token = v
	}

	c, err := client.New(cfg.BaseURL, cfg.RequestTimeout, logger.Named("client"))
	if err != nil {
		return err
	}
	defer c.Close()

	sess := discovery.NewSession(c, discovery.OptionsFromConfig(cfg), logger.Named("discovery"))
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if err := login(ctx, c, sess, lc); err != nil {
		return err
	}

	r := &repl{
		sess: sess,
		p:    newPrinter(cmd.OutOrStdout(), !noColor),
		log:  logger.Named("repl"),
	}
	if prefs, err := c.Preferences(ctx); err != nil {
		logger.Debug("could not load preferences", zap.Error(err))
	} else {
		r.prefs = *prefs
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sess.Run(gctx) })
	g.Go(func() error {
		r.watch(gctx)
		return nil
	})
	g.Go(func() error {
		defer cancel()
		return r.run(gctx, cmd.InOrStdin())
	})
	return g.Wait()
}
