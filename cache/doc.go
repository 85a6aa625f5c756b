// SPDX-License-Identifier: EPL-2.0

// Package cache loads, decodes and memoises the source audio the mixer
// places on its buses.
//
// A source is looked up on disk under
// ContentPathPrefix/InstrumentID/WaveformKey first and fetched from
// AudioBaseURL/WaveformKey when it is not there. The decoder is chosen by the
// key's extension, and the decoded audio is resampled and channel mapped to
// the layout the mixer asked for before it is stored. Entries are keyed by
// instrument, waveform and layout, so two mixers with different output
// formats do not share decoded data.
package cache
