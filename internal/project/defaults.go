package project

import (
	"git.home.luguber.info/inful/docsetgen/internal/identity"
	"git.home.luguber.info/inful/docsetgen/internal/util/strutil"
)

// FromIdentity returns a new configuration with the company name and a
// default company ID taken from provider. The company ID is
// "com.<slug>" of the company name, falling back to the developer's name.
func FromIdentity(provider identity.Provider) *Configuration {
	c := New()
	if provider == nil {
		return c
	}
	company, hasCompany := provider.CompanyName().Get()
	if hasCompany {
		c.SetCompanyName(company)
	}

	owner := company
	if !hasCompany {
		owner = provider.FirstLastName().
			OrElse(provider.Nickname().OrElse(""))
	}
	c.SetCompanyID(DefaultCompanyID(owner))
	return c
}

// DefaultCompanyID derives a reverse-DNS identifier from a display name,
// or returns "" when nothing usable remains.
func DefaultCompanyID(owner string) string {
	slug := strutil.Slug(owner)
	if slug == "" {
		return ""
	}
	return "com." + slug
}
