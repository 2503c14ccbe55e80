// Package metadata reads and writes the pipe-delimited index file that pairs
// each dataset record with its audio asset.
//
// The on-disk convention is one record per line, `id|text|normalized_text`,
// with the audio asset named `{id}.wav` in a sibling wavs directory. Parsing
// splits on the first two delimiters only, so the normalized text field may
// itself contain pipes. Lines missing the normalized text fall back to the raw
// text; anything shorter is dropped.
package metadata
