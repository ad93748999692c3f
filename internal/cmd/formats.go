package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/forgeservicelab/forge.combined-log-parser/accesslog"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the supported log dialects",
	RunE: func(cmd *cobra.Command, args []string) error {
		formats := accesslog.NewRegistry().Formats()
		if outputFmt == "json" {
			return json.NewEncoder(os.Stdout).Encode(formats)
		}
		for _, f := range formats {
			fmt.Println(f)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
