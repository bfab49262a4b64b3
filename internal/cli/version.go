package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set via ldflags at build time
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		if JSONOutput() {
			out, _ := json.MarshalIndent(map[string]string{
				"version":    Version,
				"commit":     Commit,
				"build_date": BuildDate,
				"go_version": runtime.Version(),
				"os":         runtime.GOOS,
				"arch":       runtime.GOARCH,
			}, "", "  ")
			fmt.Println(string(out))
			return
		}

		fmt.Printf("ttyrew %s\n", Version)
		if Verbose() {
			fmt.Println(renderKV([][2]string{
				{"Commit", Commit},
				{"Built", BuildDate},
				{"Go", runtime.Version()},
				{"Platform", runtime.GOOS + "/" + runtime.GOARCH},
			}))
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
