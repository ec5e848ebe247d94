// Package validation checks configuration and pipeline metadata before use.
//
// Struct tag validation (backed by go-playground/validator) covers
// configuration structs; the fluent Validator covers values assembled at
// runtime such as stage names and call ids. Both report failures as an
// errors.AppError with code INVALID_INPUT and a "fields" detail.
//
//	v := validation.New()
//	v.StageName("stage", name).Range("concurrency", n, 1, 1024)
//	if err := v.Validate(); err != nil {
//	    return err
//	}
package validation
