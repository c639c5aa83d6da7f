// Package database provides the PostgreSQL-backed repositories and the
// connection/migration plumbing shared by them.
package database
