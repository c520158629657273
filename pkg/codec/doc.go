// Package codec compresses sensor frames into delta encoded records.
//
// A record is the sequence of variable-length codes (see EncodeDelta) of
// the differences between the derived values of a frame and those of the
// previous frame in the same log buffer, followed by the low 15 bits of the
// wire checksum. Values are packed with no byte alignment and the record is
// padded with zero bits to a whole byte. The first record of a buffer is
// encoded against zero so each buffer decodes on its own.
package codec
