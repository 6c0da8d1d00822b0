package ica

import (
	"encoding/hex"
	"fmt"
	"io"
)

// newOfflineId reads 16 random bytes and formats them as lowercase hex in
// 8-4-4-4-12 groups. No version bits are set, the vendor does not check.
func newOfflineId(random io.Reader) (string, error) {
	var buf [16]byte
	_, err := io.ReadFull(random, buf[:])
	if err != nil {
		return "", fmt.Errorf("generate offline id: %w", err)
	}
	h := hex.EncodeToString(buf[:])
	return fmt.Sprintf("%s-%s-%s-%s-%s", h[0:8], h[8:12], h[12:16], h[16:20], h[20:32]), nil
}
