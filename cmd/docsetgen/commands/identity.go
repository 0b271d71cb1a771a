package commands

import (
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/docsetgen/internal/project"
)

// IdentityCmd implements the 'identity' command.
type IdentityCmd struct{}

func (IdentityCmd) Run(g *Global, _ *CLI) error {
	p := g.Identity
	defaults := project.FromIdentity(p)

	tw := tabwriter.NewWriter(g.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Company:\t%s\n", p.CompanyName().OrElse("-"))
	_, _ = fmt.Fprintf(tw, "Nickname:\t%s\n", p.Nickname().OrElse("-"))
	_, _ = fmt.Fprintf(tw, "Name:\t%s\n", p.FirstMiddleLastName().OrElse("-"))
	_, _ = fmt.Fprintf(tw, "Default company ID:\t%s\n", orDash(defaults.CompanyID()))
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
