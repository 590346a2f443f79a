// Package config manages user-level settings stored at ~/.jsdbcli/config.yaml.
// Values resolve flag first, then JSDB_* environment variables, then the
// settings file, then defaults. The file is checked against an embedded JSON
// schema before it is read and before it is written.
package config
