package cli

import (
	"github.com/spf13/cobra"
)

var Version string

// RootCmd represents the root command
var RootCmd = &cobra.Command{
	Use:   "tambua",
	Short: "Client identity resolution service",
	Long: `Tambua resolves a client's identity attributes - public IP, approximate
geolocation, browser, operating system and device class - from inbound
request headers and optional payload overrides.

Running tambua with no subcommand starts the HTTP service.`,
	Version: Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runServe()
		}
		return cmd.Help()
	},
}

// Execute is called by main
func Execute(version string) error {
	Version = version
	RootCmd.Version = version
	return RootCmd.Execute()
}

func init() {
	RootCmd.AddCommand(serveCmd)
	RootCmd.AddCommand(resolveCmd)
	RootCmd.AddCommand(doctorCmd)
	RootCmd.AddCommand(fetchdbCmd)
}
