package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "clipper <url>",
		Short:        "Download a clip from a video URL and render it as a 9:16 vertical short",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().String("start", "", "Clip start time (ss, mm:ss or hh:mm:ss)")
	root.Flags().String("end", "", "Clip end time (ss, mm:ss or hh:mm:ss)")
	root.Flags().String("out", "", "Output file path (default: <output dir>/clip_<start>_to_<end>.mp4)")
	root.Flags().String("cookies-file", "", "Path to a cookies.txt file for restricted videos")
	root.Flags().String("config", "", "Path to config.yaml")
	root.Flags().BoolP("verbose", "v", false, "Enable debug logging")
	_ = root.MarkFlagRequired("start")
	_ = root.MarkFlagRequired("end")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
