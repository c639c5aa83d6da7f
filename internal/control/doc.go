// Package control implements the WebSocket command protocol: the
// per-connection session loop, the command dispatcher, and the layout
// reconciliation that merges live window state with persisted geometry.
package control
