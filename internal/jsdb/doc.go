// Package jsdb is a small client for a JSDB server. It covers the one call
// the CLI needs: appending a document to an array collection. Connection
// settings travel in an explicit Config value; there is no package state.
package jsdb
