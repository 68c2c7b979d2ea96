// Package timeline assembles narrated slideshows.
//
// Pipeline.Run turns phrase rows into one video: every row is rendered to a
// still frame, both texts are narrated through the resolver, the clip
// durations fix the segment length, and the encoded segments are joined in
// row order. Each run owns a RunContext whose work directory holds frames,
// narration and segments until the run ends.
//
// Progress is published on an optional event channel as (fraction, message)
// pairs: 0.0 before the first row, i/n before row i, and 1.0 once the output
// is written.
package timeline
