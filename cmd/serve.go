package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	transport "github.com/abhisek/lexicon/internal/transport/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the leaderboard and term catalog over HTTP",
	Long: `Expose the shared leaderboard as JSON and as a live websocket feed.

Point it at the same store the players use (usually --store redis) so the
board updates as scores come in.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		cfg := transport.Config{
			Addr:          rt.cfg.Serve.Addr,
			RatePerSecond: rt.cfg.Serve.RatePerSecond,
			Burst:         rt.cfg.Serve.Burst,
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Printf("serve: listening on %s (store %s)", cfg.Addr, rt.cfg.Store.Backend)
		return transport.New(rt.board, cfg).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides serve.addr)")
}
