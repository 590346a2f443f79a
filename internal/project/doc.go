// Package project scaffolds the local project folder. It powers the
// "jsdb init" command: the marker directory (.jsdb) with its db, functions
// and hosting subtrees is rendered from embedded templates, once.
package project
