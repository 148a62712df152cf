package logger

import "testing"

func TestTruncate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"short", "resume.pdf", 20, "resume.pdf"},
		{"trimmed", "  resume.pdf \n", 20, "resume.pdf"},
		{"cut", "curriculum vitae", 10, "curriculum..."},
		{"multibyte", "résumé final", 6, "résumé..."},
		{"zero limit", "anything", 0, ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Truncate(tc.in, tc.limit); got != tc.want {
				t.Fatalf("Truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	for _, json := range []bool{false, true} {
		log, err := New(json, true)
		if err != nil {
			t.Fatalf("New(json=%v): %v", json, err)
		}
		log.Debug("logger ready")
	}
}
