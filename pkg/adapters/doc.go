// Package adapters defines the provider-agnostic text generation contract used
// by the name generator and shared HTTP plumbing for its implementations.
//
// Subpackages:
//   - cloudflare (Workers AI)
//   - gemini (Generative Language API)
package adapters
