// Package translog records completed streams to a SQLite transfer log.
//
// Records are written asynchronously through a buffered channel so the
// response path never blocks on storage; when the buffer is full, records
// are dropped and counted. A cron-scheduled pruner keeps the log within the
// configured retention window.
package translog
