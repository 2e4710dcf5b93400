package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "gluesql 0.1.0"

func init() {
	gluesqlCmd.AddCommand(
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number of GlueSQL",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Println(version)
			},
		})

	gluesqlCmd.AddCommand(
		&cobra.Command{
			Use:   "config",
			Short: "Print the config variables and where each was set",
			Run: func(cmd *cobra.Command, args []string) {
				for _, s := range cfg.Settings() {
					fmt.Printf("%s=%s (%s)\n", s.Name, s.Value, s.By)
				}
			},
		})
}
