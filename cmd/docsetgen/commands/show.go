package commands

import (
	"fmt"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// ShowCmd implements the 'show' command.
type ShowCmd struct {
	Format string `short:"f" enum:"text,yaml" default:"text" help:"Output format (text or yaml)"`
}

type projectView struct {
	ProjectName   string `yaml:"project_name"`
	CompanyName   string `yaml:"company_name"`
	CompanyID     string `yaml:"company_id"`
	SourceRoot    string `yaml:"source_root"`
	OutputPath    string `yaml:"output_path"`
	TemplatesPath string `yaml:"templates_path"`
	Valid         bool   `yaml:"valid"`
	Problem       string `yaml:"problem,omitempty"`
}

func (s *ShowCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadProject(g, root)
	if err != nil {
		return err
	}

	v := projectView{
		ProjectName:   cfg.ProjectName(),
		CompanyName:   cfg.CompanyName(),
		CompanyID:     cfg.CompanyID(),
		SourceRoot:    cfg.SourceRoot().OrElse(""),
		OutputPath:    cfg.OutputPath(),
		TemplatesPath: cfg.TemplatesPath(),
		Valid:         true,
	}
	if err := cfg.Validate(); err != nil {
		v.Valid = false
		v.Problem = reasonOf(err)
	}

	if s.Format == "yaml" {
		enc := yaml.NewEncoder(g.Out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode project: %w", err)
		}
		return enc.Close()
	}

	tw := tabwriter.NewWriter(g.Out, 0, 0, 2, ' ', 0)
	row := func(label, value string) {
		if value == "" {
			value = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s:\t%s\n", label, value)
	}
	row("Project", v.ProjectName)
	row("Company", v.CompanyName)
	row("Company ID", v.CompanyID)
	row("Source root", v.SourceRoot)
	row("Output path", v.OutputPath)
	row("Templates", v.TemplatesPath)
	if v.Valid {
		row("Status", "ready")
	} else {
		row("Status", "invalid: "+v.Problem)
	}
	return tw.Flush()
}
