package cli

import (
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	rootCmd = &cobra.Command{
		Use:   "gearbox-sentinel",
		Short: "Read-only monitor for Gearbox lending pools, rewards and credit accounts",
	}
)

func Setup() error {
	rootCmd.AddCommand(PositionCmd())
	rootCmd.AddCommand(PoolsCmd())
	rootCmd.AddCommand(TopCmd())
	rootCmd.AddCommand(RewardsCmd())
	rootCmd.AddCommand(StatsCmd())
	rootCmd.AddCommand(ServeCmd())
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (built-in defaults when omitted)")
	return rootCmd.Execute()
}

func GetConfigPath() string {
	return cfgPath
}
