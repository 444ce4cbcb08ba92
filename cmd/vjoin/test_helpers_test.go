package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vjoin/internal/config"
	"vjoin/internal/testsupport"
)

// stubFFmpeg writes the concat output ($9), answers -version and otherwise
// treats the last argument as a thumbnail destination.
const stubFFmpeg = `case "$1" in
  -version) echo "ffmpeg version 7.1-test"; exit 0 ;;
  -f) cp "$6" "$9.directive"; printf 'joined' > "$9"; exit 0 ;;
esac
for last; do :; done
printf 'jpeg' > "$last"
`

const stubFFprobe = `case "$*" in
  -version*) echo "ffprobe version 7.1-test" ;;
  *format=duration*) printf '5.000000\n' ;;
  *codec_name*) printf 'h264\n' ;;
  *-show_format*) printf '{"streams":[{"index":0,"codec_name":"h264","codec_type":"video","width":640,"height":360,"r_frame_rate":"30/1"},{"index":1,"codec_name":"aac","codec_type":"audio","sample_rate":"48000","channels":2}],"format":{"duration":"5.0","size":"2048","bit_rate":"3200","format_name":"mov,mp4"}}' ;;
esac
`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	mediaDir   string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("VJOIN_FFMPEG", "")
	t.Setenv("VJOIN_FFPROBE", "")

	opts = append([]testsupport.ConfigOption{
		testsupport.WithFFmpegScript(stubFFmpeg),
		testsupport.WithFFprobeScript(stubFFprobe),
	}, opts...)
	cfg := testsupport.NewConfig(t, opts...)

	configPath := filepath.Join(base, "vjoin.toml")
	writeTestConfig(t, configPath, cfg)

	mediaDir := filepath.Join(base, "media")
	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		t.Fatalf("mkdir media: %v", err)
	}
	return &cliTestEnv{cfg: cfg, configPath: configPath, mediaDir: mediaDir}
}

// media creates name under the media directory and returns its path.
func (e *cliTestEnv) media(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(e.mediaDir, name)
	testsupport.WriteFile(t, path, 64)
	return path
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLI(t, args, e.configPath)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}
