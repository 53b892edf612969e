// Package platform hides the permission differences between Unix and Windows
// for the files pkgen keeps under its home directory.
package platform
