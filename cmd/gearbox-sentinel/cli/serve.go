package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/publu/gearbox-sentinel/internal/config"
	"github.com/publu/gearbox-sentinel/internal/observability/tracing"
	"github.com/publu/gearbox-sentinel/internal/server"
)

const defaultServePort = 8080

func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve pools, positions, rewards and stats as a JSON API",
		Args:  cobra.ExactArgs(0),
		RunE:  runServe,
	}
	cmd.Flags().Int("port", 0, "listen port (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := tracing.InjectTraceID(cmd.Context(), "serve")

	service, cfg, err := newService()
	if err != nil {
		return err
	}

	serverCfg := cfg.Server
	if serverCfg == nil {
		serverCfg = &config.ServerConfig{Port: defaultServePort}
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		serverCfg = &config.ServerConfig{Host: serverCfg.Host, Port: port}
	}
	if err := serverCfg.Validate(); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}

	return server.New(serverCfg, service).Start(ctx)
}
