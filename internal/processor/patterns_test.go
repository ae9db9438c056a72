package processor

import "testing"

func TestLoneGlyph(t *testing.T) {
	for _, s := range []string{"✶", "✻", "✽", "·", "✢", "*", "  ✶  ", " ✢ "} {
		if !loneGlyphRe.MatchString(s) {
			t.Fatalf("expected %q to be a lone glyph", s)
		}
	}
	for _, s := range []string{"✶ Thinking", "✢ Running…"} {
		if loneGlyphRe.MatchString(s) {
			t.Fatalf("expected %q not to be a lone glyph", s)
		}
	}
}

func TestStatusLineText(t *testing.T) {
	tests := []struct {
		line   string
		status string
		ok     bool
	}{
		{"✶ Thinking...", "Thinking", true},
		{"✢ Running…", "Running", true},
		{"✻ Compacting conversation…", "Compacting conversation", true},
		{"Compacting conversation…", "Compacting conversation", true},
		{"Processing files...", "Processing files", true},
		{"✢ Setting up… (5m 45s · ↓ 9.1k tokens)", "Setting up", true},
		{"✶ Thinking… [2s]", "Thinking", true},
		{"Read(file.kt)", "", false},
		{"Bash(ls -la)", "", false},
	}
	for _, tt := range tests {
		status, ok := statusLineText(tt.line)
		if ok != tt.ok || status != tt.status {
			t.Fatalf("%q: got (%q, %v), want (%q, %v)", tt.line, status, ok, tt.status, tt.ok)
		}
	}
}

func TestBarLine(t *testing.T) {
	for _, s := range []string{"[0] 0:zsh  1:claude*", "[0] 0:bash  1:claude*  2:htop-", "[1] 0:bash  1:vim*"} {
		if !barLineRe.MatchString(s) {
			t.Fatalf("expected %q to be a bar line", s)
		}
	}
	for _, s := range []string{"normal content here", "  some indented text"} {
		if barLineRe.MatchString(s) {
			t.Fatalf("expected %q not to be a bar line", s)
		}
	}
}

func TestFenceLine(t *testing.T) {
	for _, s := range []string{
		"──────────────────────────────────────────",
		"════════════════════════════════════════",
		"---",
		"===",
		"-- x --",
	} {
		if !isFenceLine(s, 0.6) {
			t.Fatalf("expected %q to be a fence", s)
		}
	}
	for _, s := range []string{"", "   ", "a - b", "x = y + z"} {
		if isFenceLine(s, 0.6) {
			t.Fatalf("expected %q not to be a fence", s)
		}
	}
}

func TestStatusInfoLine(t *testing.T) {
	yes := []string{
		"   CPU: 51% | RAM: 11% | GPU0: 0%",
		"   CPU: 57% | RAM: 11% | GPU0: 0%                         Checking for updates",
		"  /media/external-drive/crystal_society | Context left until auto-compact: 11%",
		"  22.1/24.0GB | GPU1: 0% 0.0/24.0GB",
	}
	no := []string{
		"  Bash(RUN_SLOW_TESTS=1 uv run pytest tests/test_simulator.py::TestChessFullGame",
		"Hello world",
		"  ⎿  some output from a tool",
		"● Bash(ss -tlnp | grep -E '5000|8000')",
		"  ps aux | grep '[p]ython.*crystal_society'",
	}
	for _, s := range yes {
		if !isStatusInfoLine(s) {
			t.Fatalf("expected %q to be status info", s)
		}
	}
	for _, s := range no {
		if isStatusInfoLine(s) {
			t.Fatalf("expected %q not to be status info", s)
		}
	}
}

func TestToolProgress(t *testing.T) {
	for _, s := range []string{"⎿  Running… (2s · timeout 10m)", "⎿  Running… (15s · timeout 10m)"} {
		if !toolProgress.MatchString(s) {
			t.Fatalf("expected %q to be tool progress", s)
		}
	}
	for _, s := range []string{"⎿  some actual command output here", "⎿  PASS: test_chess_game (3.2s)"} {
		if toolProgress.MatchString(s) {
			t.Fatalf("expected %q not to be tool progress", s)
		}
	}
}

func TestShellPrompt(t *testing.T) {
	yes := []string{
		"➜  projects2 c",
		"➜  projects2 cd self_awareness",
		"➜  self_awareness",
		"$ ls -la",
		"% cd foo",
		"# apt install vim",
	}
	no := []string{
		"❯ ok, lets try the slow tests again",
		"> some claude code input",
		"brain_like  self_awareness",
		"  some output text",
		"● Bash(ls -la)",
	}
	for _, s := range yes {
		if !shellPromptRe.MatchString(s) {
			t.Fatalf("expected %q to be a shell prompt", s)
		}
	}
	for _, s := range no {
		if shellPromptRe.MatchString(s) {
			t.Fatalf("expected %q not to be a shell prompt", s)
		}
	}
}

func TestPromptAndSelectorHelpers(t *testing.T) {
	if !isBarePrompt("❯") || !isBarePrompt("  >   ") {
		t.Fatalf("bare prompts not detected")
	}
	if isBarePrompt("❯ Yes") || isBarePrompt("text") {
		t.Fatalf("prompt with text must not be bare")
	}
	if stripSelector("> opt1") != stripSelector("  opt1") {
		t.Fatalf("selector strip mismatch")
	}
	if stripBullet("● Done") != stripBullet("  Done") {
		t.Fatalf("bullet strip mismatch")
	}
	if !isBackgroundHint("ctrl+b ctrl+b (twice) to run in background") {
		t.Fatalf("background hint not detected")
	}
	if !isFooterLine("⏵⏵ accept edits on (shift+tab to cycle)", 0.6) {
		t.Fatalf("hint row should be part of the footer")
	}
}

func TestIndicatorStatus(t *testing.T) {
	tests := []struct {
		row  string
		want string
	}{
		{"✶ Thinking…", "Thinking…"},
		{" ✻  Compacting conversation…", "Compacting conversation…"},
		{"✶ Running tests…   CPU: 5% | RAM", "Running tests…"},
		{"✶ C", ""},
		{"✶ on", ""},
		{"· +9 lines ctrl-o for more", ""},
		{"✶ Consety/tasks/foo", ""},
		{"✶ Stats | more", ""},
		{"✶", ""},
	}
	for _, tt := range tests {
		if got := indicatorStatus(tt.row); got != tt.want {
			t.Fatalf("%q: got %q, want %q", tt.row, got, tt.want)
		}
	}
}
