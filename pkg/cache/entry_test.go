package cache

import (
	"testing"
	"time"
)

func TestNewEntry(t *testing.T) {
	data := []byte(`{"results": []}`)
	entry := NewEntry(data, 200, 30*time.Minute)

	if string(entry.Data) != string(data) {
		t.Errorf("Data = %s, want %s", entry.Data, data)
	}
	if entry.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", entry.StatusCode)
	}
	if entry.IsExpired() {
		t.Error("fresh entry should not be expired")
	}

	ttl := entry.TTL()
	if ttl <= 29*time.Minute || ttl > 30*time.Minute {
		t.Errorf("TTL() = %v, want just under 30m", ttl)
	}
}

func TestNewEntry_DefaultTTL(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
	}{
		{name: "zero", ttl: 0},
		{name: "negative", ttl: -time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := NewEntry(nil, 200, tt.ttl)
			if got := entry.TTL(); got <= DefaultTTL-time.Minute || got > DefaultTTL {
				t.Errorf("TTL() = %v, want just under %v", got, DefaultTTL)
			}
		})
	}
}

func TestEntry_IsExpired(t *testing.T) {
	entry := &Entry{
		Expires:  time.Now().Add(-time.Second),
		CachedAt: time.Now().Add(-time.Hour),
	}

	if !entry.IsExpired() {
		t.Error("past-expiry entry should report expired")
	}
	if got := entry.TTL(); got != 0 {
		t.Errorf("TTL() = %v, want 0 for an expired entry", got)
	}
}
