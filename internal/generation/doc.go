// Package generation defines the boundary between StoreBoost and the external
// AI/LLM services that write product copy. It owns the provider-neutral half
// of a generation: request validation, the copywriting system instruction,
// the prompt template, the declared output schema, and the strict
// parse-and-validate step that turns model text into a domain.GenerationResult
// or a typed Error.
//
// Provider adapters (Gemini, OpenAI) live under internal/platform and
// implement the Generator interface by combining these pieces with a single
// remote call.
package generation
