// Package watch provides file watching with debounced callbacks.
//
// A Watcher monitors a directory tree with fsnotify and invokes a callback
// once events have been quiet for the debounce period. Events inside the
// window are coalesced, so the callback receives the full set of changed
// paths. Directories created after startup are added automatically.
package watch
