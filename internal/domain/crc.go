package domain

import (
	"encoding/hex"

	"github.com/sigurn/crc8"
)

// crcTable is the CRC-8 lookup table used by existing senders:
// polynomial 0x07, init 0x00, no reflection, no final XOR.
var crcTable = crc8.MakeTable(crc8.CRC8)

// ComputeCRC8 returns the CRC-8 of data as two lowercase hex digits.
// The empty message yields "00".
func ComputeCRC8(data []byte) string {
	sum := crc8.Checksum(data, crcTable)
	return hex.EncodeToString([]byte{sum})
}
