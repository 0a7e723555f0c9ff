// Package testutil provides filesystem fixtures and assertions for homesync
// tests.
//
// Tests run against the real filesystem under t.TempDir(). Environment
// isolates HOME and the XDG directories so that code resolving paths from
// the environment never touches the developer's own files.
package testutil
