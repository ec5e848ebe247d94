// Package errors provides the structured error type used by pipekit for
// rejections detected while building pipelines.
//
// Errors returned by user stages are never converted to AppError: they
// surface unchanged at the pipeline call site. AppError is reserved for
// problems the library itself detects, such as a stage whose output type
// does not match the next stage's input type when assembling dynamically.
package errors
