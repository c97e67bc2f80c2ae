// Package redirect validates OAuth redirect URIs against RFC 8252
// native-application rules and classifies their native-ness for the
// client detector.
//
// The package deliberately maintains two different standards:
//
//   - Validate / ValidateWithReason are strict and security-relevant:
//     they fail closed, reject dangerous schemes unconditionally, and
//     accept loopback redirects only on the exact interfaces RFC 8252
//     names.
//   - Classify and IsNativeURI are permissive heuristics used only for
//     scoring how native-like a client's registered URIs look. They must
//     never be used for acceptance decisions.
package redirect
