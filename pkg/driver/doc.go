// Package driver runs the read, validate, encode and log loop of a PMS
// sensor.
//
// Records are delta encoded against the previous record in the same log
// buffer. The baseline is committed only when the log accepts a record in
// the buffer the record was encoded for. When the log starts a new buffer
// the record is encoded again against zeros and retried a bounded number
// of times, so every buffer decodes on its own.
package driver
