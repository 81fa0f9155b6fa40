//go:build unix

package debug

import "testing"

func TestResidentBytes(t *testing.T) {
	rss, err := residentBytes()
	if err != nil {
		t.Fatalf("getrusage: %v", err)
	}
	if rss == 0 {
		t.Fatalf("expected non-zero peak rss")
	}
}
