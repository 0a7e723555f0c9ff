// Package shell runs user-visible commands. Every command is printed,
// optionally confirmed, and then executed either through the configured
// interpreter or as an in-process action that performs the equivalent
// filesystem change.
package shell
