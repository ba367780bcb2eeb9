// Package ratelimit implements per-client fixed-window request limiting.
//
// The limiter keeps one window record per client key in a pluggable Store.
// Checks are lock-atomic read-modify-write operations and cannot fail: every
// check yields an allow/deny decision with the remaining quota or the
// seconds until the window resets. A cron-driven Sweeper evicts lapsed
// records so memory stays bounded.
package ratelimit
