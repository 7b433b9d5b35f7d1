// Package trigger delivers capture requests to a session through a single
// consumer queue.
//
// Sources (stdin commands, files dropped into a watched directory, SIGUSR1)
// never block: when the queue is full a signal is dropped and logged. The
// Dispatcher handles one signal at a time, so two captures never overlap.
package trigger
