package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vjoin/internal/concat"
	"vjoin/internal/medialist"
	"vjoin/internal/services"
	"vjoin/internal/testsupport"
)

func TestAddAndListFillPlaceholders(t *testing.T) {
	env := setupCLITestEnv(t)
	a := env.media(t, "a.mp4")
	notes := env.media(t, "notes.txt")

	out, _, err := env.run(t, "add", a, notes, filepath.Join(env.mediaDir, "gone.mp4"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	requireContains(t, out, "Added "+a)
	requireContains(t, out, "Skipped unsupported file: "+notes)
	requireContains(t, out, "Skipped missing file: ")
	requireContains(t, out, "1 file in the list")

	out, _, err = env.run(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "00:00:05")
	requireContains(t, out, "h264")
	requireContains(t, out, "(empty)")
	requireContains(t, out, "Policy: placeholder-fill")
}

func TestMoveReorderAndPlan(t *testing.T) {
	env := setupCLITestEnv(t)
	a := env.media(t, "a.mp4")
	b := env.media(t, "b.mp4")
	c := env.media(t, "it's c.mkv")

	if _, _, err := env.run(t, "add", a, b, c); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, _, err := env.run(t, "move", "3", "1"); err != nil {
		t.Fatalf("move: %v", err)
	}

	out, _, err := env.run(t, "plan")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	wantDirective := "file '" + strings.ReplaceAll(c, "'", `'\''`) + "'\nfile '" + a + "'\nfile '" + b + "'\n"
	requireContains(t, out, wantDirective)
	requireContains(t, out, "-f concat -safe 0 -i '<concat-list>' -c copy")
	requireContains(t, out, filepath.Join(env.mediaDir, "it's c-combined.mp4"))

	_, _, err = env.run(t, "reorder", "1", "1", "2")
	if !errors.Is(err, medialist.ErrInvalidPermutation) {
		t.Fatalf("expected invalid permutation, got %v", err)
	}
	if services.ExitCode(err) != services.ExitValidation {
		t.Fatalf("exit code = %d", services.ExitCode(err))
	}

	if _, _, err := env.run(t, "reorder", "2", "3", "1"); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	out, _, err = env.run(t, "plan")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	requireContains(t, out, "file '"+a+"'\nfile '"+b+"'\nfile '")
}

func TestJoinRunsAndClearsList(t *testing.T) {
	env := setupCLITestEnv(t)
	a := env.media(t, "a.mp4")
	b := env.media(t, "b.mp4")

	if _, _, err := env.run(t, "add", a, b); err != nil {
		t.Fatalf("add: %v", err)
	}
	out, _, err := env.run(t, "join")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	output := filepath.Join(env.mediaDir, "a-combined.mp4")
	requireContains(t, out, output)

	directive, err := os.ReadFile(output + ".directive")
	if err != nil {
		t.Fatalf("read captured directive: %v", err)
	}
	if string(directive) != "file '"+a+"'\nfile '"+b+"'\n" {
		t.Fatalf("directive = %q", directive)
	}
	for _, src := range []string{a, b} {
		if _, err := os.Stat(src); err != nil {
			t.Fatalf("expected %s to remain without --delete-sources: %v", src, err)
		}
	}

	_, _, err = env.run(t, "join")
	if !errors.Is(err, concat.ErrEmptyList) {
		t.Fatalf("expected empty list after successful join, got %v", err)
	}
}

func TestJoinFilesWithDeleteSources(t *testing.T) {
	env := setupCLITestEnv(t)
	a := env.media(t, "a.mp4")
	b := env.media(t, "b.mp4")

	out, _, err := env.run(t, "join", "--delete-sources", a, b)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	requireContains(t, out, "Joining 2 files")
	requireNotContains(t, out, "Not deleted")
	for _, src := range []string{a, b} {
		if _, err := os.Stat(src); !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("expected %s deleted, stat err = %v", src, err)
		}
	}
	if _, err := os.Stat(filepath.Join(env.mediaDir, "a-combined.mp4")); err != nil {
		t.Fatalf("expected output: %v", err)
	}
}

func TestJoinToolFailureExitCode(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFFmpegScript("echo 'codec mismatch' >&2\nexit 1\n"))
	a := env.media(t, "a.mp4")

	_, _, err := env.run(t, "join", "--delete-sources", a)
	if services.ExitCode(err) != services.ExitExternalTool {
		t.Fatalf("expected external tool exit code, got %d (%v)", services.ExitCode(err), err)
	}
	if _, statErr := os.Stat(a); statErr != nil {
		t.Fatalf("expected source untouched after failure: %v", statErr)
	}
}

func TestJoinMissingFileIsNotFound(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := env.run(t, "join", filepath.Join(env.mediaDir, "nope.mp4"))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSortUsesNumericCollation(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithPolicy(string(medialist.PolicyAppendDedup), 0))
	part10 := env.media(t, "Part10.mp4")
	part2 := env.media(t, "part2.mp4")
	part1 := env.media(t, "part1.mp4")

	if _, _, err := env.run(t, "add", part10, part2, part1, part1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, _, err := env.run(t, "sort", "--locale", "en"); err != nil {
		t.Fatalf("sort: %v", err)
	}
	out, _, err := env.run(t, "plan")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	requireContains(t, out, "file '"+part1+"'\nfile '"+part2+"'\nfile '"+part10+"'\n")
}

func TestRemoveAndClear(t *testing.T) {
	env := setupCLITestEnv(t)
	a := env.media(t, "a.mp4")
	b := env.media(t, "b.mp4")

	if _, _, err := env.run(t, "add", "--thumbnails", a, b); err != nil {
		t.Fatalf("add: %v", err)
	}
	out, _, err := env.run(t, "remove", "1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	requireContains(t, out, "Removed "+a)

	_, _, err = env.run(t, "remove", "1")
	if !errors.Is(err, medialist.ErrEmptySlot) {
		t.Fatalf("expected empty slot error, got %v", err)
	}

	if _, _, err := env.run(t, "clear"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	_, _, err = env.run(t, "plan")
	if !errors.Is(err, concat.ErrEmptyList) {
		t.Fatalf("expected empty list after clear, got %v", err)
	}
}

func TestInspectPrintsMediaInfo(t *testing.T) {
	env := setupCLITestEnv(t)
	a := env.media(t, "a.mp4")

	out, _, err := env.run(t, "inspect", a)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "a.mp4")
	requireContains(t, out, "00:00:05")
	requireContains(t, out, "640x360 @ 30/1")
	requireContains(t, out, "2 ch, 48000 Hz")
	requireContains(t, out, "2.0 kB")

	out, _, err = env.run(t, "inspect", "--json", "--thumbnail", a)
	if err != nil {
		t.Fatalf("inspect --json: %v", err)
	}
	requireContains(t, out, `"codec": "h264"`)
	requireContains(t, out, `"thumbnail": "`)
}

func TestDoctorReportsStubbedTools(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := env.run(t, "doctor")
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	requireContains(t, out, "ffmpeg version 7.1-test")
	requireContains(t, out, "ffprobe version 7.1-test")
	requireContains(t, out, "ready to join")
}

func TestConfigInitValidateAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = env.run(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := env.run(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}

	out, _, err = env.run(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "manual_override = true")
	requireContains(t, out, "insert_policy = ")
	requireContains(t, out, "placeholder-fill")
}

func TestInvalidConfigExitCode(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[join]\ninsert_policy = \"shuffle\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, err := runCLI(t, []string{"list"}, path)
	if services.ExitCode(err) != services.ExitConfiguration {
		t.Fatalf("expected configuration exit code, got %d (%v)", services.ExitCode(err), err)
	}
}

func TestParseSlotNumber(t *testing.T) {
	if idx, err := parseSlotNumber("3"); err != nil || idx != 2 {
		t.Fatalf("parseSlotNumber(3) = %d, %v", idx, err)
	}
	for _, bad := range []string{"0", "-1", "x", ""} {
		if _, err := parseSlotNumber(bad); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("parseSlotNumber(%q) expected validation error, got %v", bad, err)
		}
	}
}
