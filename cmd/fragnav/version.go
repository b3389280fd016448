package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Version information set at build time via ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

// buildInfo describes the running binary.
type buildInfo struct {
	Version   string `yaml:"version"`
	Commit    string `yaml:"commit"`
	Date      string `yaml:"date"`
	GoVersion string `yaml:"go"`
}

// currentBuild collects the build information.
// ldflags values win over the module build information; missing values
// are "(devel)" for the version and "unknown" otherwise.
func currentBuild() buildInfo {
	b := buildInfo{
		Version:   version,
		Commit:    commit,
		Date:      date,
		GoVersion: runtime.Version(),
	}

	info, ok := debug.ReadBuildInfo()
	if ok {
		if b.Version == "" {
			b.Version = info.Main.Version
		}
		if b.Commit == "" {
			b.Commit = vcsSetting(info, "vcs.revision")
			if len(b.Commit) > 7 {
				b.Commit = b.Commit[:7]
			}
		}
		if b.Date == "" {
			b.Date = vcsSetting(info, "vcs.time")
		}
	}

	if b.Version == "" {
		b.Version = "(devel)"
	}
	if b.Commit == "" {
		b.Commit = "unknown"
	}
	if b.Date == "" {
		b.Date = "unknown"
	}
	return b
}

func vcsSetting(info *debug.BuildInfo, key string) string {
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

// getVersion returns the version string shown by --version and in reports.
func getVersion() string {
	return currentBuild().Version
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, build date and Go version of fragnav.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			short, err := cmd.Flags().GetBool("short")
			if err != nil {
				return err
			}
			asYAML, err := cmd.Flags().GetBool("yaml")
			if err != nil {
				return err
			}

			b := currentBuild()
			out := cmd.OutOrStdout()

			switch {
			case short:
				fmt.Fprintln(out, b.Version)
			case asYAML:
				enc := yaml.NewEncoder(out)
				defer enc.Close()
				return enc.Encode(b)
			default:
				fmt.Fprintf(out, "fragnav version %s\n", b.Version)
				fmt.Fprintf(out, "  commit: %s\n", b.Commit)
				fmt.Fprintf(out, "  built:  %s\n", b.Date)
				fmt.Fprintf(out, "  go:     %s\n", b.GoVersion)
			}
			return nil
		},
	}

	cmd.Flags().BoolP("short", "s", false, "Print the version number only")
	cmd.Flags().Bool("yaml", false, "Print the build information as YAML")

	return cmd
}
