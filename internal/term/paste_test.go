package term

import "testing"

func TestEncodePasteToBytes(t *testing.T) {
	t.Run("plain paste", func(t *testing.T) {
		got := EncodePasteToBytes("echo hi\n", false)
		if string(got) != "echo hi\n" {
			t.Fatalf("unexpected plain paste encoding: %q", string(got))
		}
	})

	t.Run("bracketed paste", func(t *testing.T) {
		got := EncodePasteToBytes("echo hi\n", true)
		want := "\x1b[200~echo hi\n\x1b[201~"
		if string(got) != want {
			t.Fatalf("unexpected bracketed paste encoding: %q", string(got))
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := EncodePasteToBytes("", true); got != nil {
			t.Fatalf("expected nil for empty paste, got %q", string(got))
		}
	})
}

func TestEncodeSubmit(t *testing.T) {
	if got := string(EncodeSubmit("ls", false)); got != "ls\r" {
		t.Fatalf("got %q", got)
	}
	if got := string(EncodeSubmit("ls", true)); got != "\x1b[200~ls\x1b[201~\r" {
		t.Fatalf("got %q", got)
	}
}

func TestInterpreterBracketedPasteDetection(t *testing.T) {
	in := NewInterpreter(NewScreen(20, 4))

	in.Feed("abc\x1b[?2004h")
	if !in.BracketedPaste() {
		t.Fatalf("expected bracketed paste to be enabled")
	}

	in.Feed("xyz\x1b[?2004l")
	if in.BracketedPaste() {
		t.Fatalf("expected bracketed paste to be disabled")
	}
	if got := in.Screen().RowText(0); got != "abcxyz" {
		t.Fatalf("mode sequences leaked onto the screen: %q", got)
	}
}

func TestInterpreterBracketedPasteDetectionAcrossChunks(t *testing.T) {
	in := NewInterpreter(NewScreen(20, 4))

	in.Feed("\x1b[?20")
	if !in.Pending() {
		t.Fatalf("expected a pending sequence")
	}
	in.Feed("04h")
	if !in.BracketedPaste() {
		t.Fatalf("expected bracketed paste enable sequence across chunks to be detected")
	}
}
