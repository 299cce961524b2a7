// Package engines provides the synthesis engine implementations:
// the OpenAI speech API, the gtts-cli subprocess, and a deterministic
// mock for tests.
package engines
