// Package branding centralizes product naming so every surface renders the
// same name.
package branding

// AppName is the user-facing product name.
const AppName = "Commitsmith"
