package app

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/slack-go/slack"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"spamcheck/internal/config"
	"spamcheck/internal/digest"
	"spamcheck/internal/httpx"
	"spamcheck/internal/integrations/llm"
	slackbot "spamcheck/internal/integrations/slack"
)

func newTopCmd(c *cli) *cobra.Command {
	var limit int
	var post bool
	cmd := &cobra.Command{
		Use:   "top",
		Short: "List the most reported numbers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				limit = c.cfg.DigestSize
			}
			if post {
				if !c.cfg.SlackConfigured() || c.cfg.DigestChannelID == "" {
					return errors.New("--post needs slack_bot_token, slack_app_token and digest_channel_id")
				}
				cfg := c.cfg
				cfg.DigestSize = limit
				if err := digest.Post(cfg, c.rt.svc, slackbot.NewClient(newSlackAPI(cfg))); err != nil {
					return fmt.Errorf("post digest: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Digest posted to %s\n", cfg.DigestChannelID)
				return nil
			}

			rows := c.rt.svc.TopReported(limit)
			w := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(w, "No numbers have been reported yet.")
				return nil
			}
			for i, r := range rows {
				fmt.Fprintln(w, formatRow(i+1, r.Number, r.SpamReports, r.LegitReports))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "number of rows (default digest_size)")
	cmd.Flags().BoolVar(&post, "post", false, "post the list to digest_channel_id on Slack instead of printing it")
	return cmd
}

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Slack bot and the reported-numbers digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			if !cfg.SlackConfigured() {
				return errors.New("serve needs slack_bot_token and slack_app_token")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			api := newSlackAPI(cfg)
			client := slackbot.NewClient(api)

			var explainer slackbot.Explainer
			if cfg.LLMConfigured() {
				explainer = llm.NewExplainer(cfg, httpx.ExternalHTTPClient(), c.logger)
				c.logger.Info("llm explanations enabled", zap.String("model", cfg.LLMModel))
			}
			bot := slackbot.NewBot(c.rt.svc, client, explainer, c.logger)

			c.logger.Info("starting spamcheck bot")
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return slackbot.StartSlackBot(gctx, api, bot)
			})
			g.Go(func() error {
				return digest.Run(gctx, cfg, c.rt.svc, client, c.logger)
			})
			if err := g.Wait(); err != nil {
				return fmt.Errorf("slack bot error: %w", err)
			}
			c.logger.Info("shutting down")
			return nil
		},
	}
}

func newSlackAPI(cfg config.Config) *slack.Client {
	return slack.New(
		cfg.SlackBotToken,
		slack.OptionAppLevelToken(cfg.SlackAppToken),
		slack.OptionHTTPClient(httpx.ExternalHTTPClient()),
	)
}
