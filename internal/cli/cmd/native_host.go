package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bnema/comet/internal/infrastructure/messaging"
	"github.com/bnema/comet/internal/logging"
)

var nativeHostCmd = &cobra.Command{
	Use:   "native-host",
	Short: "Serve the browser extension over native messaging",
	Long: `Answer length-prefixed JSON messages on stdin/stdout, as started by the
browser. Arguments added by the browser (the caller origin) are ignored.

This command is not meant to be run by hand; see 'comet install'.`,
	Hidden:             true,
	DisableFlagParsing: true,
	RunE:               runNativeHost,
}

func init() {
	rootCmd.AddCommand(nativeHostCmd)
}

func runNativeHost(_ *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(logging.WithComponent(a.Ctx(), "native-host"), syscall.SIGTERM)
	defer stop()

	origin := ""
	if len(args) > 0 {
		origin = args[0]
	}
	logging.FromContext(ctx).Info().Str("origin", origin).Msg("native host started")

	host := messaging.NewNativeHost(a.Router)
	return host.Serve(ctx, os.Stdin, os.Stdout)
}
