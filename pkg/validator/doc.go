// Package validator provides rule-based validation for onboarding input.
//
// Rules are values built by constructor functions and evaluated together by
// Apply, which collects every failure into ValidationErrors rather than
// stopping at the first one:
//
//	err := validator.Apply(
//		validator.Required("companyName", data.CompanyName),
//		validator.ValidEmail("contactEmail", data.ContactEmail),
//		validator.OneOf("language", data.Language, "en", "fr", "de"),
//	)
//
// Each ValidationError carries a translation key and values so the HTTP layer
// can localize messages through pkg/i18n.
package validator
