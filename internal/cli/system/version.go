package system

import (
	"fmt"

	goversion "go.hein.dev/go-version"

	"github.com/julianstephens/habitual/internal/cli"
)

// Build metadata, overridden with -ldflags "-X".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

type VersionCmd struct {
	Short  bool   `short:"s" help:"Print just the version number."`
	Output string `short:"o" enum:"json,yaml" default:"json" help:"Output format. One of 'yaml' or 'json'."`
}

func (c *VersionCmd) Run(_ *cli.Context) error {
	fmt.Print(goversion.FuncWithOutput(c.Short, Version, Commit, Date, c.Output))
	return nil
}
