// Command shadow_compare replays GET requests against this service and the legacy portal
// backend and reports differences in status codes and JSON bodies.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const (
	compareJSON   = "json"
	compareStatus = "status"
)

type target struct {
	Name         string   `yaml:"name"`
	Path         string   `yaml:"path"`
	Critical     bool     `yaml:"critical"`
	Compare      string   `yaml:"compare"`
	IgnoreFields []string `yaml:"ignore_fields"`
}

type targetsFile struct {
	IgnoreFields []string `yaml:"ignore_fields"`
	Targets      []target `yaml:"targets"`
}

type fetched struct {
	status   int
	body     []byte
	duration time.Duration
}

type comparison struct {
	Target      target
	Go          fetched
	Legacy      fetched
	StatusMatch bool
	BodyMatch   bool
	Error       error
}

func main() {
	var (
		goBase      string
		legacyBase  string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:8080", "Go API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:5000", "Legacy portal backend base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "shadow_compare", "targets.yaml"), "Path to YAML targets file")
	flag.DurationVar(&timeout, "timeout", 15*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	ctx := context.Background()

	var (
		comparisons  []comparison
		breaking     int
		optionalDiff int
	)
	for _, t := range targets {
		comp := compareTarget(ctx, client, goBase, legacyBase, t)
		if comp.Error != nil || !comp.StatusMatch || !comp.BodyMatch {
			if t.Critical {
				breaking++
			} else {
				optionalDiff++
			}
		}
		comparisons = append(comparisons, comp)
	}

	printReport(os.Stdout, comparisons)

	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optionalDiff)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file targetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	for i := range file.Targets {
		t := &file.Targets[i]
		if t.Path == "" {
			return nil, fmt.Errorf("target %d has no path", i)
		}
		if t.Name == "" {
			t.Name = t.Path
		}
		switch t.Compare {
		case "":
			t.Compare = compareJSON
		case compareJSON, compareStatus:
		default:
			return nil, fmt.Errorf("target %q: unknown compare mode %q", t.Name, t.Compare)
		}
		t.IgnoreFields = append(t.IgnoreFields, file.IgnoreFields...)
	}
	return file.Targets, nil
}

func compareTarget(ctx context.Context, client *http.Client, goBase, legacyBase string, tgt target) comparison {
	comp := comparison{Target: tgt}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := fetch(gctx, client, goBase, tgt.Path)
		if err != nil {
			return fmt.Errorf("go request failed: %w", err)
		}
		comp.Go = res
		return nil
	})
	g.Go(func() error {
		res, err := fetch(gctx, client, legacyBase, tgt.Path)
		if err != nil {
			return fmt.Errorf("legacy request failed: %w", err)
		}
		comp.Legacy = res
		return nil
	})
	if err := g.Wait(); err != nil {
		comp.Error = err
		return comp
	}

	comp.StatusMatch = comp.Go.status == comp.Legacy.status
	if tgt.Compare == compareStatus {
		comp.BodyMatch = true
		return comp
	}
	comp.BodyMatch = bodiesEqual(comp.Go.body, comp.Legacy.body, tgt.IgnoreFields)
	return comp
}

func fetch(ctx context.Context, client *http.Client, base, path string) (fetched, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		return fetched{}, err
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return fetched{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fetched{}, fmt.Errorf("read body: %w", err)
	}
	return fetched{status: resp.StatusCode, body: body, duration: time.Since(start)}, nil
}

// bodiesEqual compares two payloads as JSON, dropping ignored keys at any depth.
func bodiesEqual(a, b []byte, ignore []string) bool {
	if len(ignore) == 0 && bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	skip := make(map[string]struct{}, len(ignore))
	for _, field := range ignore {
		skip[field] = struct{}{}
	}
	return reflect.DeepEqual(normalize(aj, skip), normalize(bj, skip))
}

func normalize(v interface{}, skip map[string]struct{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, v2 := range val {
			if _, ignored := skip[k]; ignored {
				continue
			}
			out[k] = normalize(v2, skip)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, v2 := range val {
			out[i] = normalize(v2, skip)
		}
		return out
	case float64:
		if val == float64(int64(val)) {
			return int64(val)
		}
		return val
	default:
		return val
	}
}

func printReport(w io.Writer, results []comparison) {
	fmt.Fprintln(w, "Shadow Compare Report")
	fmt.Fprintln(w, "======================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.StatusMatch || !res.BodyMatch {
			status = "DIFF"
		}
		fmt.Fprintf(w, "[%s] %s (GET %s)\n", status, res.Target.Name, res.Target.Path)
		fmt.Fprintf(w, "  Go Status: %d (%s)\n", res.Go.status, res.Go.duration)
		fmt.Fprintf(w, "  Legacy Status: %d (%s)\n", res.Legacy.status, res.Legacy.duration)
		if res.Error != nil {
			fmt.Fprintf(w, "  Error: %v\n", res.Error)
		} else {
			fmt.Fprintf(w, "  Status match: %t | Body match: %t | Critical: %t\n", res.StatusMatch, res.BodyMatch, res.Target.Critical)
		}
	}
}
