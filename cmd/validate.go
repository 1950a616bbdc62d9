package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Jingren-Tang/minitransit/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration without running a simulation",
	RunE:  validate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	net, err := cfg.Network.Build()
	if err != nil {
		return fmt.Errorf("network: %w", err)
	}
	fleet, err := cfg.Fleet.Build()
	if err != nil {
		return fmt.Errorf("fleet: %w", err)
	}
	for _, v := range fleet {
		if !net.HasStation(v.CurrentStation) {
			return fmt.Errorf("vehicle %s starts at unknown station %q", v.ID, v.CurrentStation)
		}
	}
	cmd.Printf("configuration ok: %d stations, %d vehicles\n", len(net.Stations()), len(fleet))
	return nil
}
