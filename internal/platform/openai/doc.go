// Package openai implements generation.Generator on top of an OpenAI-compatible
// chat completions API (OpenAI itself, or a gateway such as OpenRouter via a
// custom base URL). The six-field output contract is enforced with strict
// JSON schema response formatting and re-checked by generation.ParseResult.
package openai
