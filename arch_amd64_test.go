package detour

import (
	"bytes"
	"testing"
)

func TestJmpBytesAMD64(t *testing.T) {
	got := jmpBytes(0xDEADBEEFCAFEBABE)
	want := []byte{0x48, 0xB8, 0xBE, 0xBA, 0xFE, 0xCA, 0xEF, 0xBE, 0xAD, 0xDE, 0xFF, 0xE0}
	if !bytes.Equal(got, want) {
		t.Errorf("jmpBytes(0xDEADBEEFCAFEBABE) = % X, want % X", got, want)
	}
	if len(got) != patchSize {
		t.Errorf("len(jmpBytes(...)) = %d, want patchSize %d", len(got), patchSize)
	}
}
