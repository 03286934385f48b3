// Package project models the project lifecycle: draft, publication, archival
// with republication, and permanent deletion. Every operation returns a new
// immutable value; persistence belongs to the caller.
package project
