// Package server wires the HTTP surface: the REST API for accounts, the
// observability endpoints, and the websocket upgrade for the control channel.
package server
