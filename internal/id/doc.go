// Package id generates URL-safe identifiers.
//
// Each identifier is built from UUIDv4 bytes encoded as base32 (RFC 4648)
// with no padding: 26 lowercase characters that are safe in URLs, metadata
// headers, and file paths.
package id
