package signing

import "testing"

func TestContentHash(t *testing.T) {
	// sha256 of "abc", a fixed vector.
	got := ContentHash([]byte("abc"))
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestContentHashDiffers(t *testing.T) {
	if ContentHash([]byte("a")) == ContentHash([]byte("b")) {
		t.Error("different payloads must hash differently")
	}
}

func TestNewSignerRejectsGarbage(t *testing.T) {
	if _, err := NewSigner([]byte("not a p12 blob"), "password"); err == nil {
		t.Fatal("expected an error for malformed certificate bytes")
	}
}
