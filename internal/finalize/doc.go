// Package finalize turns one bundler output directory into the published
// static site.
//
// The pipeline runs as ordered stages; each one completes before the next
// begins and any failure aborts the remaining stages:
//
//	favicon        copy the fingerprinted favicon to its canonical name
//	manifest       delete the per-cycle asset manifest
//	mirror         make the static dir an exact mirror of the build dir
//	relocate_index move index.html to the template path of the serving layer
//	verify_assets  report template references missing from the static dir
//
// A missing favicon and missing assets are warnings. Everything else that
// fails is returned as a fatal finalize error naming the stage.
package finalize
