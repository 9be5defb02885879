// Package hls models the variant streams offered for a single episode and
// selects the variant closest to a requested quality tier.
//
// The remote service publishes one HLS master playlist per episode. Only the
// #EXT-X-STREAM-INF subset of the format matters here: each entry names a
// resolution, a bandwidth, and a media playlist URI. Tiers are a fixed
// ordered set; selection prefers an exact match, then the nearest lower
// tier, then the nearest higher, and always reports when a substitution
// happened so callers can surface it.
package hls
