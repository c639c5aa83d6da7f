// Package winsys provides the production implementations of the window
// system and launcher capabilities: an X11/EWMH adapter and an os/exec
// process launcher.
package winsys
