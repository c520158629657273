// Package frame reads Plantower PMS3003/PMS5003 frames from a byte stream.
package frame

// A frame on the wire:
//
//	'B' 'M' LEN:16 PM1A PM25A PM10A PM1B PM25B PM10B C1 C2 [C3 C4 C5 C6] R1 SUM:16
//
// All values are big-endian 16-bit. LEN is 0x14 for the short frame
// (PMS3003) and 0x1c for the long frame (PMS5003) which carries four more
// particle count bins. SUM is 'B'+'M' plus every byte of LEN and of the
// fields, truncated to 16 bits.
