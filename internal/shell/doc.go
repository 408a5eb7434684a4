// Package shell reports whether the install directory is reachable from the
// user's PATH and, when it is not, which line to add to which shell rc file.
//
// Reporting is advisory. Nothing here modifies rc files or changes the
// installer's exit status.
package shell
