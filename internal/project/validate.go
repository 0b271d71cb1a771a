package project

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"git.home.luguber.info/inful/docsetgen/internal/foundation"
	derrors "git.home.luguber.info/inful/docsetgen/internal/foundation/errors"
	"git.home.luguber.info/inful/docsetgen/internal/util/strutil"
)

var errCompanyIDCharacters = validation.NewError("validation_company_id_characters",
	"must contain only letters, digits, '.', '-' and '_'")

var companyIDRule = validation.By(func(value any) error {
	id, _ := value.(string)
	if !strutil.ContainsOnlyCharactersFromSet(id, strutil.IdentifierCharacters) {
		return errCompanyIDCharacters
	}
	return nil
})

var errSourceRootMissing = validation.NewError("validation_source_root_missing", "must be set before generating")

var sourceRootRule = validation.By(func(value any) error {
	if root, ok := value.(foundation.Option[string]); ok && root.IsSome() {
		return nil
	}
	return errSourceRootMissing
})

// Validate checks the invariants that must hold before generation: a
// non-blank project name, a company ID made of identifier characters when one
// is set, and a source root. The error is CodeInvalidConfiguration and lists
// every failing field.
func (c *Configuration) Validate() error {
	projectName := strings.TrimSpace(c.projectName)
	err := validation.Errors{
		"project_name": validation.Validate(projectName, validation.Required),
		"company_id":   validation.Validate(c.companyID, companyIDRule),
		"source_root":  validation.Validate(c.sourceRoot, sourceRootRule),
	}.Filter()
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return derrors.WrapError(err, derrors.CategoryValidation, "Invalid project configuration").
			WithCode(derrors.CodeInvalidConfiguration).
			Build()
	}

	fields := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	return derrors.NewError(derrors.CategoryValidation, "Invalid project configuration").
		WithCode(derrors.CodeInvalidConfiguration).
		WithReason(fieldErrs.Error()).
		WithContext("fields", fields).
		UserAction().
		Build()
}
