/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/exercise-tracker/apiserver/internal/mq"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect tracker events on the configured broker",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail [channel]",
	Short: "Print events from a channel until interrupted",
	Long: fmt.Sprintf(`Print events from a channel until interrupted. Channels:

	%s
	%s
`, mq.ChannelUserCreated, mq.ChannelExerciseLogged),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		channel := mq.ChannelExerciseLogged
		if len(args) == 1 {
			channel = args[0]
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		broker, err := mq.Open(ctx, cfg.MQ)
		if err != nil {
			return err
		}
		if broker == nil {
			return errors.New("events tail needs MQ_BACKEND=rabbitmq or pubsub")
		}
		defer broker.Close()

		log.Info("tailing events", "channel", channel)
		err = broker.Subscribe(ctx, channel, func(ctx context.Context, msg mq.Message) error {
			fmt.Fprintln(cmd.OutOrStdout(), string(msg.Data))
			log.Debug("event received", "id", msg.ID, "type", msg.Attributes[mq.AttrEventType])
			return nil
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsTailCmd)
}
