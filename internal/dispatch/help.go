package dispatch

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/dotandev/tooling/internal/args"
	"github.com/dotandev/tooling/internal/registry"
	"github.com/dotandev/tooling/internal/task"
)

var (
	usageColor  = color.New(color.FgYellow)
	groupColor  = color.New(color.FgBlue, color.Bold, color.Underline)
	taskColor   = color.New(color.FgGreen)
	labelColor  = color.New(color.FgCyan)
	optionColor = color.New(color.FgBlue)
)

// RenderHelp writes the usage line and every task grouped by prefix.
func RenderHelp(w io.Writer, reg *registry.Registry, defaultNetwork string) {
	usageColor.Fprintln(w, "Usage: tooling <task> [options] [positionals]")
	usageColor.Fprintf(w, "Global options: --%s <name> (default: %s)\n", args.NetworkFlag, defaultNetwork)
	usageColor.Fprintln(w, "Tasks:")

	for _, g := range reg.Groups() {
		header := g.Prefix
		if header == "" {
			header = "general"
		}
		fmt.Fprintf(w, "\n%s\n", groupColor.Sprint(strings.ToUpper(header)))

		for _, e := range g.Entries {
			fmt.Fprintf(w, "  - %s: %s\n", taskColor.Sprint(e.CuratedName), e.Meta.Description)
			if e.Meta.Positionals != "" {
				fmt.Fprintf(w, "    %s %s\n", labelColor.Sprint("Positionals:"), e.Meta.Positionals)
			}
			if len(e.Meta.Options) > 0 {
				fmt.Fprintf(w, "    %s\n", labelColor.Sprint("Options:"))
				for _, opt := range e.Meta.Options {
					desc := opt.Description
					if desc == "" {
						desc = "No description"
					}
					fmt.Fprintf(w, "      %s: %s\n", optionColor.Sprint(optionDetails(opt)), desc)
				}
			}
		}
	}
	fmt.Fprintln(w)
}

func optionDetails(opt task.Option) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--%s (%s", args.FlagName(opt.Name), opt.Type)
	if opt.Required {
		b.WriteString(", required")
	}
	if opt.Default != "" {
		fmt.Fprintf(&b, ", default: %s", opt.Default)
	}
	b.WriteString(")")
	return b.String()
}
