package cmd

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// buildInfo describes the running binary.
type buildInfo struct {
	Module   string
	Version  string
	Commit   string
	Built    string
	Modified bool
}

// resolveBuildInfo starts from the values set with -ldflags and fills the
// gaps from the module and VCS metadata embedded by the Go toolchain, so a
// plain `go install` still reports something useful.
func resolveBuildInfo(info *debug.BuildInfo, ok bool) buildInfo {
	b := buildInfo{Module: "github.com/elcfinder/elcfinder", Version: version, Commit: commit, Built: date}
	if !ok || info == nil {
		return b
	}
	if info.Main.Path != "" {
		b.Module = info.Main.Path
	}
	if b.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		b.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "none" {
				b.Commit = s.Value
			}
		case "vcs.time":
			if b.Built == "unknown" {
				b.Built = s.Value
			}
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}
	return b
}

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the elcfinder build and runtime details",
	Long: `Print which elcfinder binary is running.

Release builds report the version, commit and build time stamped at link
time. Builds from source fall back to the module version and VCS revision
recorded by the Go toolchain.

Include this output when reporting a ranking that looks wrong.`,
	Run: func(cmd *cobra.Command, _ []string) {
		b := resolveBuildInfo(debug.ReadBuildInfo())
		cmd.Printf("elcfinder %s\n", b.Version)
		cmd.Printf("  Module:  %s\n", b.Module)
		if b.Modified {
			cmd.Printf("  Commit:  %s (modified)\n", b.Commit)
		} else {
			cmd.Printf("  Commit:  %s\n", b.Commit)
		}
		cmd.Printf("  Built:   %s\n", b.Built)
		cmd.Printf("  Runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}
