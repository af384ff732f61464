// Package model defines the provider‑agnostic abstraction for generative
// language models used by the narrator.
//
// Core goals:
//   - One synchronous Generate call per story turn
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (OpenAI, Anthropic, Google Gemini and a local OpenAI-compatible
// endpoint such as Ollama) implement the Model interface in sub-packages so
// the narrator stays decoupled from vendor SDKs.
package model
