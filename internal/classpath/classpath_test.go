package classpath

import (
	"os"
	"testing"
)

func TestExtractBasisSourcePath(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{
			name:   "typical_verbose_output",
			in:     "version      = 1.12.0.1479\ninstall_dir  = /usr/local/lib/clojure\ncp_file      = /home/u/.clojure/.cpcache/409707.cp\ncp_valid     = true\n",
			want:   "/home/u/.clojure/.cpcache/409707.cp",
			wantOK: true,
		},
		{
			name:   "first_match_wins",
			in:     "cp_file=/a/first.cp\ncp_file=/b/second.cp\n",
			want:   "/a/first.cp",
			wantOK: true,
		},
		{
			name:   "rhs_is_trimmed",
			in:     "cp_file =   /tmp/x.cp  \n",
			want:   "/tmp/x.cp",
			wantOK: true,
		},
		{
			name:   "absent_marker",
			in:     "version = 1.2.3.4\nnothing here\n",
			wantOK: false,
		},
		{
			name:   "key_must_match_exactly",
			in:     "not_cp_file = /x.cp\n/m2/cp_file=weird.jar\n",
			wantOK: false,
		},
		{
			name:   "empty_input",
			in:     "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractBasisSourcePath(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ExtractBasisSourcePath ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Fatalf("ExtractBasisSourcePath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLastLine(t *testing.T) {
	in := "cp_file = /tmp/x.cp\ncp_valid = true\n/tmp/a.jar:/tmp/b.jar\n\n"
	if got := LastLine(in); got != "/tmp/a.jar:/tmp/b.jar" {
		t.Fatalf("LastLine = %q", got)
	}
	if got := LastLine("\n\n"); got != "" {
		t.Fatalf("LastLine of blank input = %q, want empty", got)
	}
}

func TestIsDiagnosticLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{line: "version      = 1.12.0.1479", want: true},
		{line: "cp_file      = /c/.cpcache/409707.cp", want: true},
		{line: "install_dir  = /usr/local/lib/clojure", want: true},
		// Classpath entries may legitimately contain an equals sign.
		{line: "/m2/conf=prod.jar:/m2/b.jar", want: false},
		{line: "/tmp/a.jar:/tmp/b.jar", want: false},
		{line: "", want: false},
	}

	for _, tt := range tests {
		if got := IsDiagnosticLine(tt.line); got != tt.want {
			t.Fatalf("IsDiagnosticLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestCompose_OrderAndDuplicatesPreserved(t *testing.T) {
	sep := string(os.PathListSeparator)

	got := Compose("p1", "p2", "p3")
	if want := "p1" + sep + "p2" + sep + "p3"; got != want {
		t.Fatalf("Compose = %q, want %q", got, want)
	}

	// Duplicates survive exactly as given.
	got = Compose("dup", "dup")
	if want := "dup" + sep + "dup"; got != want {
		t.Fatalf("Compose = %q, want %q", got, want)
	}
}

func TestCompose_DropsEmptyParts(t *testing.T) {
	sep := string(os.PathListSeparator)
	got := Compose("", "a", "", "b", "")
	if want := "a" + sep + "b"; got != want {
		t.Fatalf("Compose = %q, want %q", got, want)
	}
	if got := Compose(); got != "" {
		t.Fatalf("Compose() = %q, want empty", got)
	}
}

func TestDeriveBasisPath(t *testing.T) {
	if got := DeriveBasisPath("/c/.cpcache/409707.cp"); got != "/c/.cpcache/409707.basis" {
		t.Fatalf("DeriveBasisPath = %q", got)
	}
	// No filesystem access, no suffix: the sidecar suffix is appended.
	if got := DeriveBasisPath("/c/odd-name"); got != "/c/odd-name.basis" {
		t.Fatalf("DeriveBasisPath = %q", got)
	}
}
