// Package broadcast fans values out to any number of channel subscribers.
//
// Two delivery policies are provided:
//
//   - Latest keeps a single slot per subscriber. A slow reader only ever
//     sees the newest value; intermediate values are dropped. New
//     subscribers receive the current value immediately.
//   - Queue never drops. Each subscriber owns an unbounded FIFO drained by
//     its own goroutine, so publishers never block on slow readers.
//
// Both are safe for concurrent use. Close ends every subscription by
// closing its channel.
package broadcast
