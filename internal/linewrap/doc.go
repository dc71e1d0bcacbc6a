// Package linewrap implements greedy, column-limited soft line wrapping.
//
// Text is appended in fragments. A plain space is a soft-wrap point, '\n' is a
// hard line break and '·' is a space that never wraps. Everything between
// those characters accumulates into atomic segments that are never split, even
// when a single segment is wider than the column limit: the limit decides
// where to break, it never truncates.
//
// When a logical line is flushed, segments that would open a wrapped line with
// a unary '+' or '-' are folded into their predecessor first, then segments are
// packed greedily into runs that fit the limit. Every run after the first goes
// on its own physical line, indented by the level and prefix that were current
// when the last soft-wrap point was appended.
package linewrap
