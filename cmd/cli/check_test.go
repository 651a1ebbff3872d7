package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/probe"
	"github.com/hamed0406/sitecheck/internal/report"
)

func noneChanged(string) bool { return false }

func changedOnly(names ...string) func(string) bool {
	return func(n string) bool {
		for _, x := range names {
			if x == n {
				return true
			}
		}
		return false
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestPlan_DefaultURLs(t *testing.T) {
	cfg, tgts, err := (&checkOptions{}).plan(nil, noneChanged)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if cfg != defaultConfig {
		t.Fatalf("cfg = %+v", cfg)
	}
	got := domain.URLs(tgts)
	if len(got) != 4 || got[3] != "https://www.thiswebsitedoesnotexist.com" {
		t.Fatalf("default urls = %v", got)
	}
}

func TestPlan_FileThenFlags(t *testing.T) {
	path := writeFile(t, "targets.yaml", `
workers: 8
timeout: 2s
max_retries: 0
targets:
  - https://a.example
  - url: https://b.example
    max_retries: 3
`)
	o := &checkOptions{files: []string{path}, workers: 3}
	cfg, tgts, err := o.plan([]string{"https://c.example"}, changedOnly("workers"))
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if cfg.Workers != 3 || cfg.Timeout != 2*time.Second || cfg.MaxRetries != 0 {
		t.Fatalf("cfg = %+v", cfg)
	}
	urls := domain.URLs(tgts)
	if strings.Join(urls, ",") != "https://a.example,https://b.example,https://c.example" {
		t.Fatalf("urls = %v", urls)
	}
	if tgts[1].Policy.MaxRetries == nil || *tgts[1].Policy.MaxRetries != 3 {
		t.Fatalf("per-target policy lost: %+v", tgts[1].Policy)
	}
}

func TestPlan_Rejects(t *testing.T) {
	if _, _, err := (&checkOptions{}).plan([]string{"example.com", "ftp://x"}, noneChanged); err == nil {
		t.Fatal("want error for invalid URLs")
	}

	o := &checkOptions{workers: 0}
	if _, _, err := o.plan([]string{"https://a.example"}, changedOnly("workers")); !errors.As(err, new(*domain.ConfigError)) {
		t.Fatalf("want ConfigError, got %v", err)
	}

	empty := writeFile(t, "empty.txt", "# nothing here\n")
	if _, _, err := (&checkOptions{files: []string{empty}}).plan(nil, noneChanged); err == nil {
		t.Fatal("want error for a file without targets")
	}
}

func TestRun_PrintsLinesSummaryAndJSON(t *testing.T) {
	p := probe.ProberFunc(func(_ context.Context, target string, _ time.Duration) (int, error) {
		if target == "https://down.example" {
			return 0, errors.New("no such host")
		}
		return 200, nil
	})
	jsonPath := filepath.Join(t.TempDir(), "out.json")
	o := &checkOptions{jsonOut: jsonPath, failOnErrors: true}
	cfg := defaultConfig
	cfg.MaxRetries = 1

	var out bytes.Buffer
	err := o.run(context.Background(), cfg, domain.TargetsFromURLs([]string{"https://up.example", "https://down.example"}), p, &out, zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), "1 of 2 checks failed") {
		t.Fatalf("want fail-on-errors error, got %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "Website: https://up.example, Status Code: 200") {
		t.Fatalf("missing ok line:\n%s", text)
	}
	if !strings.Contains(text, "Website: https://down.example, Error: failed after 2 attempts: no such host") {
		t.Fatalf("missing error line:\n%s", text)
	}
	if !strings.HasSuffix(strings.TrimSpace(text), "Checked 2 URLs: 1 OK, 1 failed") {
		t.Fatalf("missing summary:\n%s", text)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var doc report.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Results) != 2 || doc.Summary.Failed != 1 {
		t.Fatalf("json report = %+v", doc)
	}
}

func TestRun_CanceledReportsEveryURL(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := probe.ProberFunc(func(context.Context, string, time.Duration) (int, error) {
		t.Error("no attempt expected after cancellation")
		return 200, nil
	})

	var out bytes.Buffer
	err := (&checkOptions{}).run(ctx, defaultConfig, domain.TargetsFromURLs([]string{"https://a.example", "https://b.example"}), p, &out, zap.NewNop())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if !strings.Contains(out.String(), "Checked 2 URLs: 0 OK, 2 failed") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestValidateFiles(t *testing.T) {
	good := writeFile(t, "ok.yaml", "workers: 2\ntargets:\n  - https://a.example\n")
	var out bytes.Buffer
	if err := validateFiles([]string{good}, &out); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.HasPrefix(out.String(), "OK: 1 targets, 2 workers") {
		t.Fatalf("unexpected output %q", out.String())
	}

	bad := writeFile(t, "bad.yaml", "targets:\n  - notaurl\n  - url: https://b.example\n    max_retries: -1\n")
	err := validateFiles([]string{bad}, &out)
	if err == nil || !strings.Contains(err.Error(), "targets[0]") || !strings.Contains(err.Error(), "targets[1]") {
		t.Fatalf("want both problems reported, got %v", err)
	}
}
