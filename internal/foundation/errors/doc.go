// Package errors provides the classified error primitives used across docsetgen.
//
// Two ways of building an error are supported:
//
//   - MakeError(code, description, reason) for the stable, numbered error codes that
//     upstream reporting depends on (template path checks, invalid configuration,
//     pipeline failures and so on).
//   - The fluent ErrorBuilder for everything else that still wants a category,
//     severity and context attached.
//
// Example usage:
//
//	err := errors.MakeError(errors.CodeTemplatePathNotFound,
//		"Template path not found", "no such directory: "+path)
//
//	err := errors.WrapError(cause, errors.CategoryStorage, "record generation run").
//		WithContext("project", name).
//		Build()
package errors
