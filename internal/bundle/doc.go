// Package bundle packs a project folder into a zip archive and uploads it to
// the server's bundles collection. Archive, Uploader and Deploy are the three
// steps behind "jsdb deploy"; the remote side is reached through a Pusher,
// normally a *jsdb.Collection.
package bundle
