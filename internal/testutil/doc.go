// Package testutil provides testing utilities and helpers for the
// oauth-nativeapps library.
package testutil
