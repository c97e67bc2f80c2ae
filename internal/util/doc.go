// Package util provides small shared helpers for string handling and
// log sanitization used across the native-apps library.
package util
