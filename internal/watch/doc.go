// Package watch turns bundler events into the edit-compile-publish loop.
//
// The Controller is a four-state machine (Idle, Compiling, Reporting,
// Finalizing). Each rebuild clears the terminal and shows "Compiling...".
// When the rebuild finishes, the classified report is printed. A build
// without errors is then finalized into the static directory, and the
// browser is notified after a delay: the first publish opens the page and
// later ones reload it.
package watch
