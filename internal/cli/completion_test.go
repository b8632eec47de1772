package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/adcanvas/pkg/treatment"
)

// complete runs cobra's hidden completion command and returns its
// candidates.
func complete(t *testing.T, args ...string) []string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"__complete"}, args...))
	if err := root.Execute(); err != nil {
		t.Fatalf("__complete %v: %v", args, err)
	}

	var got []string
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if strings.HasPrefix(line, ":") {
			continue
		}
		name, _, _ := strings.Cut(line, "\t")
		got = append(got, name)
	}
	return got
}

func TestFlagCompletions(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"analyze", "--format", ""}, []string{"square", "portrait", "story"}},
		{[]string{"analyze", "--objective", ""}, []string{"offer", "launch", "awareness"}},
		{[]string{"compose", "x.json", "--band", ""}, []string{"top", "upper"}},
		{[]string{"treatments", "--objective", ""}, []string{"offer", "launch", "awareness"}},
		{[]string{"cache", "clear", "--kind", ""}, []string{"plan", "image"}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args[:len(tt.args)-1], " "), func(t *testing.T) {
			got := complete(t, tt.args...)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("completions = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTreatmentCompletion(t *testing.T) {
	got := complete(t, "compose", "x.json", "--treatment", "")
	catalog := treatment.DefaultCatalog()
	if len(got) != len(catalog) {
		t.Fatalf("got %d treatment ids, want %d", len(got), len(catalog))
	}
	for i, tr := range catalog {
		if got[i] != tr.ID {
			t.Errorf("completion %d = %q, want %q", i, got[i], tr.ID)
		}
	}
}

func TestImageArgCompletion(t *testing.T) {
	got := complete(t, "analyze", "")
	if strings.Join(got, ",") != "png,jpg,jpeg,webp" {
		t.Errorf("analyze arg completion = %v, want image extensions", got)
	}
	if got := complete(t, "compose", ""); strings.Join(got, ",") != "json" {
		t.Errorf("compose arg completion = %v, want json", got)
	}
}
