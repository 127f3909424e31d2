// Package browser points a browser at the development URL after a publish.
//
// On macOS a running Google Chrome is driven through AppleScript so the
// existing tab is reused; elsewhere, or when that fails, the first publish
// opens a new tab with the system opener and later publishes do nothing.
package browser
