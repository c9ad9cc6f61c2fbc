// Package service wires protocol transport to the git workflow tools.
//
// It is the transport adapter layer: the package knows how to run MCP over
// stdio or HTTP and delegates business meaning to the handlers in the domain
// package.
package service
