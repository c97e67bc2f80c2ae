// Package detector classifies OAuth clients as native or web
// applications and resolves the enhanced-PKCE, custom-scheme, and
// loopback policy decisions for each client through a three-tier
// override chain (per-client override, global setting, algorithmic
// fallback).
//
// Classification is a weighted multi-signal score: redirect URI
// conventions, client confidentiality, and configuration heuristics.
// A manual per-client override short-circuits scoring entirely.
package detector
