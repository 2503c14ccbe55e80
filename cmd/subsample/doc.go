// Command subsample builds reduced copies of LJSpeech-convention speech
// datasets.
//
// The run command samples a fixed-size random subset of the source index and
// materializes the matching wavs by hardlink (with a copy fallback) into a
// self-contained output directory. Companion commands verify dataset
// consistency, show the run ledger, and manage configuration.
package main
