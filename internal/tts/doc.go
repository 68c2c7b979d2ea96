// Package tts defines the Synthesizer capability and its two providers: Free,
// the credential-less translate endpoint, and Cloud, Google Cloud
// Text-to-Speech. Callers select a provider by configuration and program
// against the interface.
package tts
