package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docsetgen/internal/project"
)

// SetCmd implements the 'set' command.
type SetCmd struct {
	Key   string `arg:"" enum:"project-name,company-name,company-id,source-root,output-path,templates-path" help:"Setting to change (${enum})"`
	Value string `arg:"" optional:"" help:"New value; omit to clear"`
}

var setters = map[string]func(*project.Configuration, string){
	"project-name":   (*project.Configuration).SetProjectName,
	"company-name":   (*project.Configuration).SetCompanyName,
	"company-id":     (*project.Configuration).SetCompanyID,
	"source-root":    (*project.Configuration).SetSourceRoot,
	"output-path":    (*project.Configuration).SetOutputPath,
	"templates-path": (*project.Configuration).SetTemplatesPath,
}

func (s *SetCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadProject(g, root)
	if err != nil {
		return err
	}
	setters[s.Key](cfg, s.Value)
	if err := saveProject(g, root, cfg); err != nil {
		return err
	}
	if s.Value == "" {
		_, _ = fmt.Fprintf(g.Out, "Cleared %s\n", s.Key)
	} else {
		_, _ = fmt.Fprintf(g.Out, "Set %s = %s\n", s.Key, s.Value)
	}
	return nil
}
