// Package gemini provides an implementation of the generation.Generator
// interface that uses Google's Gemini API to write product copy.
//
// This package is an infrastructure adapter: it translates a validated
// domain.GenerationRequest into a single GenerateContent call in JSON
// response mode, with the copywriting system instruction and a genai.Schema
// describing the six required fields, and hands the text payload to
// generation.ParseResult.
//
// Calls are never retried. A failed call surfaces as
// generation.ErrTransportFailure so the caller decides what to do next.
package gemini
