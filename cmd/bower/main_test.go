package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ohler55/ojg/oj"
	"github.com/vango-dev/bower/internal/config"
	bowererrors "github.com/vango-dev/bower/internal/errors"
)

// projectDir writes a bower.config.json pointing at the shared component
// fixture and returns its directory.
func projectDir(t *testing.T, mutate func(*config.Config)) string {
	t.Helper()

	root, err := filepath.Abs(filepath.Join("..", "..", "testdata", "bower_components"))
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	cfg := config.New()
	cfg.AssetsRoot = root
	if mutate != nil {
		mutate(cfg)
	}
	if err := cfg.SaveTo(filepath.Join(dir, config.ConfigFileName)); err != nil {
		t.Fatal(err)
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func TestURLCommand(t *testing.T) {
	dir := projectDir(t, nil)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "minified and versioned",
			args: []string{"url", "jquery", "dist/jquery.js"},
			want: "/bower/jquery/dist/jquery.min.js?version=2.1.3",
		},
		{
			name: "extra values",
			args: []string{"url", "bootstrap", "dist/css/bootstrap.css", "theme=dark"},
			want: "/bower/bootstrap/dist/css/bootstrap.css?theme=dark&version=3.3.2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{"--config", dir, "--log-level", "error"}, tt.args...)...)
			if err != nil {
				t.Fatalf("url error: %v", err)
			}
			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("url = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestURLCommand_ServerName(t *testing.T) {
	dir := projectDir(t, func(c *config.Config) {
		c.Server.ServerName = "unit.test"
		c.Subdomain = "static"
		c.TryMinified = false
	})

	out, err := execute(t, "--config", dir, "--log-level", "error", "url", "jquery", "dist/jquery.js")
	if err != nil {
		t.Fatalf("url error: %v", err)
	}
	want := "http://static.unit.test/bower/jquery/dist/jquery.js?version=2.1.3"
	if got := strings.TrimSpace(out); got != want {
		t.Errorf("url = %q, want %q", got, want)
	}
}

func TestURLCommand_Errors(t *testing.T) {
	dir := projectDir(t, nil)

	tests := []struct {
		name string
		args []string
		code string
	}{
		{"bad pair", []string{"url", "jquery", "dist/jquery.js", "theme"}, "B030"},
		{"missing component", []string{"url", "nope", "x.js"}, "B002"},
		{"path violation", []string{"url", "..", "x.js"}, "B001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"--config", dir, "--log-level", "error"}, tt.args...)...)
			if code := bowererrors.CodeOf(err); code != tt.code {
				t.Errorf("error = %v (code %q), want %s", err, code, tt.code)
			}
		})
	}
}

func TestResolveCommand(t *testing.T) {
	dir := projectDir(t, nil)

	out, err := execute(t, "--config", dir, "--log-level", "error", "resolve", "jquery", "dist/jquery.js")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	v, err := oj.ParseString(out)
	if err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	doc, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("output = %T, want object", v)
	}

	want := map[string]any{
		"component":     "jquery",
		"filename":      "dist/jquery.min.js",
		"path":          "jquery/dist/jquery.min.js",
		"minified":      true,
		"version":       "2.1.3",
		"versionSource": "bower.json",
	}
	for k, w := range want {
		if doc[k] != w {
			t.Errorf("%s = %v, want %v", k, doc[k], w)
		}
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "init", dir)
	if err != nil {
		t.Fatalf("init error: %v", err)
	}
	if !strings.Contains(out, config.ConfigFileName) {
		t.Errorf("init output = %q", out)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.URLPrefix != "/bower" {
		t.Errorf("URLPrefix = %q", cfg.URLPrefix)
	}

	if _, err := execute(t, "init", dir); bowererrors.CodeOf(err) != "B010" {
		t.Errorf("second init error = %v, want B010", err)
	}
	if _, err := execute(t, "init", dir, "--force"); err != nil {
		t.Errorf("init --force error: %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version = %q, want %q", out, version)
	}
}

func TestNewLogger(t *testing.T) {
	if _, err := newLogger(io.Discard, config.LogConfig{Level: "debug", Format: "json"}); err != nil {
		t.Errorf("newLogger error: %v", err)
	}
	if _, err := newLogger(io.Discard, config.LogConfig{Level: "loud", Format: "text"}); bowererrors.CodeOf(err) != "B030" {
		t.Errorf("bad level error = %v, want B030", err)
	}
	if _, err := newLogger(io.Discard, config.LogConfig{Level: "info", Format: "xml"}); bowererrors.CodeOf(err) != "B030" {
		t.Errorf("bad format error = %v, want B030", err)
	}
}

func TestServeHandler(t *testing.T) {
	dir := projectDir(t, nil)
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	logger, err := newLogger(io.Discard, cfg.Log)
	if err != nil {
		t.Fatal(err)
	}

	handler, b, err := newServeHandler(cfg, logger)
	if err != nil {
		t.Fatalf("newServeHandler error: %v", err)
	}
	if b.Pattern() != "/bower/{component}/{filename...}" {
		t.Errorf("Pattern() = %q", b.Pattern())
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bower/jquery/dist/jquery.min.js?version=2.1.3", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("asset status = %d, want 200", rec.Code)
	}
	want, err := os.ReadFile(filepath.Join(cfg.AssetsRoot, "jquery", "dist", "jquery.min.js"))
	if err != nil {
		t.Fatal(err)
	}
	if rec.Body.String() != string(want) {
		t.Errorf("body = %q, want %q", rec.Body.String(), want)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bower/jquery/missing.js", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing status = %d, want 404", rec.Code)
	}

	if _, err := b.Resolve("jquery", "dist/jquery.js"); err != nil {
		t.Fatal(err)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d, want 200", rec.Code)
	}
	for _, name := range []string{"bower_requests_total", "bower_resolutions_total"} {
		if !strings.Contains(rec.Body.String(), name) {
			t.Errorf("metrics output missing %s", name)
		}
	}
}
