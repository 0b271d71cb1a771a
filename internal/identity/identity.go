// Package identity supplies default developer and company details used to
// pre-populate a new project. Sources are opaque: each lookup yields an
// optional string and never fails.
package identity

import (
	"os"
	"strings"

	"git.home.luguber.info/inful/docsetgen/internal/foundation"
)

// Provider looks up identity details.
type Provider interface {
	CompanyName() foundation.Option[string]
	Nickname() foundation.Option[string]
	FirstLastName() foundation.Option[string]
	FirstMiddleLastName() foundation.Option[string]
}

// Static is a Provider with fixed values. The zero value knows nothing.
type Static struct {
	Company string
	Nick    string
	First   string
	Middle  string
	Last    string
}

func (s Static) CompanyName() foundation.Option[string] { return foundation.FromString(s.Company) }
func (s Static) Nickname() foundation.Option[string]    { return foundation.FromString(s.Nick) }

func (s Static) FirstLastName() foundation.Option[string] {
	return foundation.FromString(joinNames(s.First, s.Last))
}

func (s Static) FirstMiddleLastName() foundation.Option[string] {
	return foundation.FromString(joinNames(s.First, s.Middle, s.Last))
}

// Environment variables read by EnvProvider.
const (
	EnvCompanyName = "DOCSETGEN_COMPANY_NAME"
	EnvNickname    = "DOCSETGEN_NICKNAME"
	EnvFirstName   = "DOCSETGEN_FIRST_NAME"
	EnvMiddleName  = "DOCSETGEN_MIDDLE_NAME"
	EnvLastName    = "DOCSETGEN_LAST_NAME"
)

// EnvProvider reads identity details from DOCSETGEN_* environment variables.
type EnvProvider struct{}

func (EnvProvider) snapshot() Static {
	return Static{
		Company: strings.TrimSpace(os.Getenv(EnvCompanyName)),
		Nick:    strings.TrimSpace(os.Getenv(EnvNickname)),
		First:   strings.TrimSpace(os.Getenv(EnvFirstName)),
		Middle:  strings.TrimSpace(os.Getenv(EnvMiddleName)),
		Last:    strings.TrimSpace(os.Getenv(EnvLastName)),
	}
}

func (e EnvProvider) CompanyName() foundation.Option[string]   { return e.snapshot().CompanyName() }
func (e EnvProvider) Nickname() foundation.Option[string]      { return e.snapshot().Nickname() }
func (e EnvProvider) FirstLastName() foundation.Option[string] { return e.snapshot().FirstLastName() }
func (e EnvProvider) FirstMiddleLastName() foundation.Option[string] {
	return e.snapshot().FirstMiddleLastName()
}

// Chain asks each provider in order and returns the first value found.
type Chain []Provider

func (c Chain) first(get func(Provider) foundation.Option[string]) foundation.Option[string] {
	for _, p := range c {
		if p == nil {
			continue
		}
		if v := get(p); v.IsSome() {
			return v
		}
	}
	return foundation.None[string]()
}

func (c Chain) CompanyName() foundation.Option[string] {
	return c.first(Provider.CompanyName)
}

func (c Chain) Nickname() foundation.Option[string] {
	return c.first(Provider.Nickname)
}

func (c Chain) FirstLastName() foundation.Option[string] {
	return c.first(Provider.FirstLastName)
}

func (c Chain) FirstMiddleLastName() foundation.Option[string] {
	return c.first(Provider.FirstMiddleLastName)
}

// Default returns the provider chain used by the CLI: environment first,
// then the global git configuration.
func Default() Provider {
	return Chain{EnvProvider{}, NewGitConfigProvider()}
}

func joinNames(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}
