package utils

import (
	"fmt"
	"hash/crc32"
)

func CRC32Hash(bs []byte) string {
	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(bs))
}
