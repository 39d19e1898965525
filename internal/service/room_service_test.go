package service

import (
	"strings"
	"testing"
)

func TestGenerateRoomCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code := generateRoomCode()
		if len(code) != roomCodeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), roomCodeLength)
		}
		for _, ch := range code {
			if !strings.ContainsRune(roomCodeCharset, ch) {
				t.Fatalf("code %q contains %q outside the charset", code, ch)
			}
		}
		seen[code] = true
	}
	// 200 draws from a 36^8 space colliding would mean a broken generator.
	if len(seen) < 199 {
		t.Fatalf("got %d distinct codes out of 200", len(seen))
	}
}
