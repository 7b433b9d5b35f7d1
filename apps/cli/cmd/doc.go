// Package cmd implements the shotlog CLI commands using Cobra.
//
// Available commands:
//   - start: Begin a new capture session and document
//   - resume: Continue numbering in an existing document
//   - displays: List attached displays and their indices
//   - scan: Show the last screenshot number in a document
//   - journal: List sessions recorded in a journal database
//   - validate: Check a config file without capturing
//   - init: Create a starter shotlog.yaml
//   - version: Show shotlog version information
//
// A session reads triggers from stdin, from files dropped in a watched
// directory and, on Unix, from SIGUSR1. It stops on "stop", on SIGINT or
// SIGTERM, and when stdin ends while no directory is watched.
package cmd
