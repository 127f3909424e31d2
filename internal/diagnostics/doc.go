// Package diagnostics turns raw bundler messages into the short, de-noised
// text shown in the terminal, and decides which of them are worth showing.
package diagnostics
