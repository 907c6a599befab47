package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearStrukturEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STRUKTUR_ROOT",
		"STRUKTUR_OUTPUT",
		"STRUKTUR_INLINE_CONTENT",
		"STRUKTUR_PATH_STYLE",
		"STRUKTUR_EXCLUDES",
		"STRUKTUR_VERBOSE",
	} {
		t.Setenv(key, "")
	}
}

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// newFixture creates a small tree plus a scratch dir for output and config files.
func newFixture(t *testing.T) (root, scratch string) {
	t.Helper()
	clearStrukturEnv(t)
	root = t.TempDir()
	scratch = t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "b"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "x.txt"), []byte("hi\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "b", "y.txt"), []byte("yo\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return root, scratch
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile %s: %v", path, err)
	}
	return string(data)
}

const fixtureContent = "📁 b/\n" +
	"    📄 b/y.txt:\n" +
	"        yo\n" +
	"📄 x.txt:\n" +
	"    hi\n"

func TestRun_NonInteractiveWritesOutputAndMirrors(t *testing.T) {
	root, scratch := newFixture(t)
	outPath := filepath.Join(scratch, "output.txt")

	stdout, stderr, err := runCLI(t, "",
		"--root", root+"/",
		"--output", outPath,
		"--content",
		"--non-interactive",
		"--config", filepath.Join(scratch, "none.toml"),
	)
	if err != nil {
		t.Fatalf("run failed: %v (stderr=%s)", err, stderr)
	}
	if got := readOutput(t, outPath); got != fixtureContent {
		t.Fatalf("unexpected output file:\n%s\nwant:\n%s", got, fixtureContent)
	}
	if !strings.HasPrefix(stdout, fixtureContent) {
		t.Fatalf("console should mirror every line, got:\n%s", stdout)
	}
	if !strings.Contains(stdout, "✅ Output saved to "+outPath) {
		t.Fatalf("missing confirmation in:\n%s", stdout)
	}
	if !strings.Contains(stdout, "dirs=1 files=2 unreadable=0") {
		t.Fatalf("missing counts in:\n%s", stdout)
	}
}

func TestRun_PromptsForRootAndToggle(t *testing.T) {
	root, scratch := newFixture(t)
	outPath := filepath.Join(scratch, "output.txt")

	_, stderr, err := runCLI(t, "\n"+root+"//\nmaybe\nn\n",
		"--output", outPath,
		"--config", filepath.Join(scratch, "none.toml"),
		"--path-style", "name",
	)
	if err != nil {
		t.Fatalf("run failed: %v (stderr=%s)", err, stderr)
	}
	want := "📁 b/\n" +
		"    📄 y.txt\n" +
		"📄 x.txt\n"
	if got := readOutput(t, outPath); got != want {
		t.Fatalf("unexpected output file:\n%s\nwant:\n%s", got, want)
	}
	if strings.Count(stderr, rootQuestion) != 2 {
		t.Fatalf("expected the folder question to be repeated after a blank answer, stderr:\n%s", stderr)
	}
	if strings.Count(stderr, inlineQuestion) != 2 {
		t.Fatalf("expected the toggle question to be repeated after an invalid answer, stderr:\n%s", stderr)
	}
}

func TestRun_ConfigFileAndEnvSkipPrompts(t *testing.T) {
	root, scratch := newFixture(t)
	outPath := filepath.Join(scratch, "tree.txt")
	configPath := filepath.Join(scratch, "struktur.yaml")
	if err := os.WriteFile(configPath, []byte("inline_content: false\npath_excludes:\n  - \"b/\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("STRUKTUR_ROOT", root)
	t.Setenv("STRUKTUR_OUTPUT", outPath)

	_, stderr, err := runCLI(t, "", "--config", configPath, "--quiet")
	if err != nil {
		t.Fatalf("run failed: %v (stderr=%s)", err, stderr)
	}
	if got := readOutput(t, outPath); got != "📄 x.txt\n" {
		t.Fatalf("unexpected output %q", got)
	}
	if strings.Contains(stderr, rootQuestion) || strings.Contains(stderr, inlineQuestion) {
		t.Fatalf("configured values must not be prompted for, stderr:\n%s", stderr)
	}
}

func TestRun_QuietSuppressesMirror(t *testing.T) {
	root, scratch := newFixture(t)
	outPath := filepath.Join(scratch, "output.txt")

	stdout, _, err := runCLI(t, "", "--root", root, "--output", outPath, "--content=false", "-q", "--config", filepath.Join(scratch, "none.toml"))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if strings.Contains(stdout, "📄") {
		t.Fatalf("quiet run should not mirror tree lines:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Output saved") {
		t.Fatalf("quiet run should still confirm:\n%s", stdout)
	}
}

func TestRun_UnreadableFileWarnsButSucceeds(t *testing.T) {
	root, scratch := newFixture(t)
	if err := os.WriteFile(filepath.Join(root, "blob.bin"), []byte{0xff, 0xfe, 0x00}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "b", "z.bin"), []byte{0xc3, 0x28}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	outPath := filepath.Join(scratch, "output.txt")

	_, stderr, err := runCLI(t, "", "--root", root, "--output", outPath, "--content", "--verbose", "--config", filepath.Join(scratch, "none.toml"))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	got := readOutput(t, outPath)
	if !strings.Contains(got, "📄 blob.bin:\n    [cannot read file: ") {
		t.Fatalf("expected placeholder in:\n%s", got)
	}
	if !strings.Contains(got, "📁 b/") || !strings.Contains(got, "📄 x.txt:") {
		t.Fatalf("siblings should still be written:\n%s", got)
	}
	if !strings.Contains(stderr, "WARNING: 2 file(s) could not be read") {
		t.Fatalf("expected warning, stderr:\n%s", stderr)
	}
	if !strings.Contains(stderr, "2 errors occurred:") {
		t.Fatalf("expected the failure list header, stderr:\n%s", stderr)
	}
	for _, rel := range []string{"blob.bin", "b/z.bin"} {
		if !strings.Contains(stderr, "* "+rel+": ") {
			t.Fatalf("expected %s in the failure list, stderr:\n%s", rel, stderr)
		}
	}
	if !strings.Contains(stderr, "struktur: read blob.bin") {
		t.Fatalf("verbose run should log the read failure, stderr:\n%s", stderr)
	}
}

func TestRun_OutputInsideRootIsIdempotent(t *testing.T) {
	root, scratch := newFixture(t)
	outPath := filepath.Join(root, "output.txt")
	args := []string{"--root", root, "--output", outPath, "--content", "-q", "--config", filepath.Join(scratch, "none.toml")}

	if _, _, err := runCLI(t, "", args...); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := readOutput(t, outPath)
	if _, _, err := runCLI(t, "", args...); err != nil {
		t.Fatalf("second run: %v", err)
	}
	second := readOutput(t, outPath)
	if first != fixtureContent || first != second {
		t.Fatalf("runs differ or include the output file:\n%s\n---\n%s", first, second)
	}
}

func TestRun_ExitCodes(t *testing.T) {
	root, scratch := newFixture(t)
	noConfig := filepath.Join(scratch, "none.toml")

	cases := []struct {
		name  string
		stdin string
		args  []string
		code  int
	}{
		{
			name: "missing root",
			args: []string{"--root", filepath.Join(root, "nope"), "--output", filepath.Join(scratch, "a.txt"), "--non-interactive"},
			code: ExitRootInaccessible,
		},
		{
			name: "root is a file",
			args: []string{"--root", filepath.Join(root, "x.txt"), "--output", filepath.Join(scratch, "b.txt"), "--non-interactive"},
			code: ExitRootInaccessible,
		},
		{
			name: "no root when non-interactive",
			args: []string{"--output", filepath.Join(scratch, "c.txt"), "--non-interactive"},
			code: ExitConfigInvalid,
		},
		{
			name: "invalid path style",
			args: []string{"--root", root, "--path-style", "absolute"},
			code: ExitConfigInvalid,
		},
		{
			name: "output directory missing",
			args: []string{"--root", root, "--output", filepath.Join(scratch, "missing", "out.txt"), "--non-interactive"},
			code: ExitOutputFailure,
		},
		{
			name:  "input ends before an answer",
			stdin: "",
			args:  []string{"--output", filepath.Join(scratch, "d.txt")},
			code:  ExitGenericError,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runCLI(t, tc.stdin, append(tc.args, "--config", noConfig)...)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := ExitCode(err); got != tc.code {
				t.Fatalf("ExitCode=%d, want %d (err=%v)", got, tc.code, err)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(scratch, "a.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("output must not be created when the root is missing, stat err=%v", err)
	}
}

func TestRun_PromptAbortIsReported(t *testing.T) {
	_, scratch := newFixture(t)
	_, _, err := runCLI(t, "", "--output", filepath.Join(scratch, "o.txt"), "--config", filepath.Join(scratch, "none.toml"))
	if !errors.Is(err, ErrPromptAborted) {
		t.Fatalf("expected ErrPromptAborted, got %v", err)
	}
}

func TestExitCode(t *testing.T) {
	if ExitCode(nil) != ExitSuccess {
		t.Fatal("nil error should map to success")
	}
	if ExitCode(errors.New("plain")) != ExitGenericError {
		t.Fatal("plain error should map to generic error")
	}
	wrapped := errors.Join(errors.New("ctx"), exitErr(ExitOutputFailure, errors.New("disk")))
	if ExitCode(wrapped) != ExitOutputFailure {
		t.Fatal("wrapped ExitError should keep its code")
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, errors.New("boom"))
	if buf.String() != "ERROR: boom\n" {
		t.Fatalf("unexpected %q", buf.String())
	}
}
