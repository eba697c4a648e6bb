package patch

import (
	"strings"
	"testing"
)

func TestFirstChangedLine(t *testing.T) {
	tests := []struct {
		name string
		diff string
		want int
	}{
		{
			name: "addition directly after header",
			diff: "@@ -1,3 +1,4 @@\n+added line\n context\n",
			want: 1,
		},
		{
			name: "addition after context lines",
			diff: "@@ -10,4 +10,5 @@\n one\n two\n+three\n four\n",
			want: 12,
		},
		{
			name: "removal does not advance new-file position",
			diff: "@@ -5,4 +5,4 @@\n keep\n-old\n+new\n keep\n",
			want: 6,
		},
		{
			name: "pure removal falls back to hunk start",
			diff: "@@ -7,3 +7,2 @@\n a\n-b\n c\n",
			want: 7,
		},
		{
			name: "only first hunk considered",
			diff: "@@ -1,2 +1,2 @@\n a\n b\n@@ -9,2 +9,3 @@\n+late add\n",
			want: 1,
		},
		{
			name: "header without counts",
			diff: "@@ -3 +3 @@\n-x\n+y\n",
			want: 3,
		},
		{
			name: "no hunk header",
			diff: "*** Update File: a.go\n+something\n",
			want: 0,
		},
		{
			name: "empty",
			diff: "",
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstChangedLine(tt.diff); got != tt.want {
				t.Errorf("FirstChangedLine() = %d, want %d", got, tt.want)
			}
		})
	}
}

const envelopeOutput = `applying changes
*** Begin Patch
*** Update File: src/index.ts
@@
-const a = 1;
+const a = 2;
*** Add File: src/util.ts
+export const b = 3;
*** End Patch
done
`

func TestFindForPath_Envelope(t *testing.T) {
	got := FindForPath(envelopeOutput, "/repo/src/index.ts", "/repo")
	if !strings.Contains(got, "*** Update File: src/index.ts") {
		t.Errorf("block missing file marker: %q", got)
	}
	if !strings.Contains(got, "+const a = 2;") {
		t.Errorf("block missing changed line: %q", got)
	}
	if strings.Contains(got, "util.ts") {
		t.Errorf("block bled into next file section: %q", got)
	}
}

func TestFindForPath_EnvelopeSecondFile(t *testing.T) {
	got := FindForPath(envelopeOutput, "/repo/src/util.ts", "/repo")
	if !strings.Contains(got, "*** Add File: src/util.ts") {
		t.Errorf("block missing file marker: %q", got)
	}
	if strings.Contains(got, "index.ts") {
		t.Errorf("block contains wrong file: %q", got)
	}
}

const unifiedOutput = `running git diff
diff --git a/cmd/main.go b/cmd/main.go
--- a/cmd/main.go
+++ b/cmd/main.go
@@ -1,3 +1,4 @@
 package main
+import "fmt"
diff --git a/pkg/x.go b/pkg/x.go
--- a/pkg/x.go
+++ b/pkg/x.go
@@ -2,2 +2,3 @@
+var y int
`

func TestFindForPath_Unified(t *testing.T) {
	got := FindForPath(unifiedOutput, "/repo/pkg/x.go", "/repo")
	if !strings.Contains(got, "+++ b/pkg/x.go") {
		t.Errorf("block missing header: %q", got)
	}
	if !strings.Contains(got, "+var y int") {
		t.Errorf("block missing changed line: %q", got)
	}
	if strings.Contains(got, "main.go") {
		t.Errorf("block contains wrong file: %q", got)
	}
	if line := FirstChangedLine(got); line != 2 {
		t.Errorf("FirstChangedLine on extracted block = %d, want 2", line)
	}
}

func TestFindForPath_BasenameFallback(t *testing.T) {
	got := FindForPath(unifiedOutput, "/elsewhere/checkout/x.go", "/elsewhere")
	if !strings.Contains(got, "+++ b/pkg/x.go") {
		t.Errorf("basename fallback failed: %q", got)
	}
}

func TestFindForPath_NoMatch(t *testing.T) {
	if got := FindForPath(unifiedOutput, "/repo/other.go", "/repo"); got != "" {
		t.Errorf("expected no match, got %q", got)
	}
	if got := FindForPath("", "/repo/a.go", "/repo"); got != "" {
		t.Errorf("expected no match on empty output, got %q", got)
	}
	if got := FindForPath("plain command output\nnothing here\n", "/repo/a.go", "/repo"); got != "" {
		t.Errorf("expected no match on plain output, got %q", got)
	}
}
