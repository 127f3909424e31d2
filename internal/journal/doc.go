// Package journal keeps a SQLite history of watch cycles: when each started,
// what the bundler reported, and whether the publish succeeded.
package journal
