package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"NAMEGEN_CONFIG", "NAMEGEN_PRIMARY", "NAMEGEN_FALLBACK", "NAMEGEN_FORCE_PRIMARY_FAILURE",
		"NAMEGEN_REQUIRE_STYLES", "NAMEGEN_RATE_LIMIT", "REDIS_URL", "AUDIT_LOG_PATH", "SENTRY_DSN",
		"TRACE_ENABLED", "CLOUDFLARE_ACCOUNT_ID", "CLOUDFLARE_API_TOKEN", "CLOUDFLARE_BASE_URL",
		"GEMINI_API_KEY", "GEMINI_API_TOKEN", "GEMINI_BASE_URL",
	} {
		t.Setenv(k, "")
	}
}

func TestRunVersionAndUsage(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := run(context.Background(), []string{"version"}, &out, &errOut); code != 0 {
		t.Fatalf("version exit %d", code)
	}
	if !strings.Contains(out.String(), "version=") {
		t.Fatalf("unexpected version output: %q", out.String())
	}

	errOut.Reset()
	if code := run(context.Background(), nil, &out, &errOut); code != 1 {
		t.Fatalf("expected usage exit 1, got %d", code)
	}
	if !strings.Contains(errOut.String(), "usage: namegen") {
		t.Fatalf("missing usage: %q", errOut.String())
	}
}

func TestRunValidate(t *testing.T) {
	isolateEnv(t)
	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{"validate", "-genre", "fantasy", "-complexity", "4", "-count", "3"}, &out, &errOut)
	if code != 0 || !strings.Contains(out.String(), "request is valid") {
		t.Fatalf("expected valid request, code=%d out=%q err=%q", code, out.String(), errOut.String())
	}

	out.Reset()
	errOut.Reset()
	code = run(context.Background(), []string{"validate", "-genre", "fantasy", "-count", "101"}, &out, &errOut)
	if code != 1 || !strings.Contains(errOut.String(), "Count must be between 1 and 100") {
		t.Fatalf("expected count error, code=%d err=%q", code, errOut.String())
	}

	t.Setenv("NAMEGEN_REQUIRE_STYLES", "true")
	errOut.Reset()
	code = run(context.Background(), []string{"validate", "-genre", "fantasy"}, &out, &errOut)
	if code != 1 || !strings.Contains(errOut.String(), "at least one style") {
		t.Fatalf("expected styles error, code=%d err=%q", code, errOut.String())
	}
}

func TestRunGenerate(t *testing.T) {
	isolateEnv(t)
	gemini := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"names\":[\"Vela\",\"Quill\"]}"}]}}]}`))
	}))
	defer gemini.Close()

	auditPath := filepath.Join(t.TempDir(), "audit.jsonl")
	t.Setenv("GEMINI_API_TOKEN", "key")
	t.Setenv("GEMINI_BASE_URL", gemini.URL)
	t.Setenv("AUDIT_LOG_PATH", auditPath)

	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{"generate", "-genre", "fantasy", "-styles", "celtic, ,sea", "-count", "2"}, &out, &errOut)
	if code != 0 {
		t.Fatalf("generate exit %d: %s", code, errOut.String())
	}
	if !strings.HasPrefix(out.String(), "Vela\nQuill\n") || !strings.Contains(out.String(), "provider=gemini") {
		t.Fatalf("unexpected output: %q", out.String())
	}

	b, err := os.ReadFile(auditPath)
	if err != nil {
		t.Fatalf("audit log: %v", err)
	}
	if !strings.Contains(string(b), `"actor":"cli"`) {
		t.Fatalf("unexpected audit log: %s", b)
	}
}

func TestRunAuditExportNeedsInput(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := run(context.Background(), []string{"audit-export"}, &out, &errOut); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if code := run(context.Background(), []string{"audit-export", filepath.Join(t.TempDir(), "missing.jsonl")}, &out, &errOut); code != 1 {
		t.Fatalf("expected exit 1 for missing input, got %d", code)
	}
}

func TestSplitStyles(t *testing.T) {
	if got := splitStyles(""); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
	if got := splitStyles(" a,,b "); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected styles: %#v", got)
	}
}
