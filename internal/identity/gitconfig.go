package identity

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5/config"

	"git.home.luguber.info/inful/docsetgen/internal/foundation"
	"git.home.luguber.info/inful/docsetgen/internal/logfields"
)

// GitConfigProvider reads identity details from the user's global git
// configuration: user.name for the names and user.company (a non-standard
// key) for the company. The configuration is loaded once, on first use.
type GitConfigProvider struct {
	load   func() (*config.Config, error)
	once   sync.Once
	static Static
}

// NewGitConfigProvider returns a provider backed by the global git config.
func NewGitConfigProvider() *GitConfigProvider {
	return &GitConfigProvider{
		load: func() (*config.Config, error) { return config.LoadConfig(config.GlobalScope) },
	}
}

func (g *GitConfigProvider) resolve() Static {
	g.once.Do(func() {
		cfg, err := g.load()
		if err != nil || cfg == nil {
			slog.Debug("Global git config unavailable", logfields.Error(err))
			return
		}
		g.static = staticFromGitConfig(cfg)
	})
	return g.static
}

func staticFromGitConfig(cfg *config.Config) Static {
	var s Static
	fields := strings.Fields(cfg.User.Name)
	switch len(fields) {
	case 0:
	case 1:
		s.First = fields[0]
	default:
		s.First = fields[0]
		s.Last = fields[len(fields)-1]
		s.Middle = strings.Join(fields[1:len(fields)-1], " ")
	}
	if cfg.Raw != nil && cfg.Raw.HasSection("user") {
		s.Company = strings.TrimSpace(cfg.Raw.Section("user").Option("company"))
	}
	return s
}

func (g *GitConfigProvider) CompanyName() foundation.Option[string] { return g.resolve().CompanyName() }

// Nickname is never known to git.
func (g *GitConfigProvider) Nickname() foundation.Option[string] { return foundation.None[string]() }

func (g *GitConfigProvider) FirstLastName() foundation.Option[string] {
	return g.resolve().FirstLastName()
}

func (g *GitConfigProvider) FirstMiddleLastName() foundation.Option[string] {
	return g.resolve().FirstMiddleLastName()
}
