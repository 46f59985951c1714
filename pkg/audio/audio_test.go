package audio

import (
	"testing"
	"time"
)

func TestStopTokenFires(t *testing.T) {
	tok := NewStopToken()

	select {
	case <-tok.Done():
		t.Fatal("armed token already done")
	default:
	}

	tok.Stop()
	select {
	case <-tok.Done():
	case <-time.After(time.Second):
		t.Fatal("Stop did not fire the token")
	}

	// Stop is idempotent.
	tok.Stop()
}

func TestStopTokenReset(t *testing.T) {
	tok := NewStopToken()
	tok.Stop()
	tok.Reset()

	select {
	case <-tok.Done():
		t.Fatal("token still done after Reset")
	default:
	}

	// Reset on an armed token is a no-op.
	tok.Reset()
	tok.Stop()
	select {
	case <-tok.Done():
	case <-time.After(time.Second):
		t.Fatal("token did not fire after re-arm")
	}
}

func TestNormalizeTranscript(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  hola   mundo \n", "hola mundo"},
		{"[BLANK_AUDIO]", ""},
		{" (silence) ", ""},
		{"", ""},
		{"abre discord.", "abre discord."},
	}
	for _, tt := range tests {
		if got := normalizeTranscript(tt.in); got != tt.want {
			t.Errorf("normalizeTranscript(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
