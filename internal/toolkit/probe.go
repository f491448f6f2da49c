package toolkit

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/bio-mcp/bio-mcp-seqkit/internal/log"
)

// Info describes the detected seqkit binary.
type Info struct {
	Path     string
	Version  string
	ProbedAt time.Time
}

const (
	probeCacheKey = "toolkit-info"
	probeTTL      = 5 * time.Minute
	versionBudget = 10 * time.Second
)

// Probe resolves the seqkit binary and its version. Results are cached
// with a short TTL so repeated checks (doctor, serve startup) do not
// re-exec the tool.
type Probe struct {
	binPath string
	cache   *cache.Cache

	// Overridable for tests.
	lookPath   func(file string) (string, error)
	runVersion func(ctx context.Context, path string) (string, error)
}

// NewProbe creates a probe for the configured binary path.
func NewProbe(binPath string) *Probe {
	p := &Probe{
		binPath:  binPath,
		cache:    cache.New(probeTTL, 2*probeTTL),
		lookPath: exec.LookPath,
	}
	p.runVersion = p.version
	return p
}

// Detect resolves the binary and reports its version, from cache when
// fresh.
func (p *Probe) Detect(ctx context.Context) (Info, error) {
	if v, found := p.cache.Get(probeCacheKey); found {
		return v.(Info), nil
	}

	path, err := p.lookPath(p.binPath)
	if err != nil {
		return Info{}, fmt.Errorf("seqkit not found (looked for %q): %w", p.binPath, err)
	}

	version, err := p.runVersion(ctx, path)
	if err != nil {
		return Info{}, err
	}

	info := Info{Path: path, Version: version, ProbedAt: time.Now()}
	p.cache.Set(probeCacheKey, info, cache.DefaultExpiration)
	log.Info(log.CatProbe, "toolkit detected", "path", path, "version", version)
	return info, nil
}

func (p *Probe) version(ctx context.Context, path string) (string, error) {
	vctx, cancel := context.WithTimeout(ctx, versionBudget)
	defer cancel()

	out, err := exec.CommandContext(vctx, path, "version").Output()
	if err != nil {
		return "", fmt.Errorf("running seqkit version: %w", err)
	}
	return parseVersion(string(out)), nil
}

// parseVersion extracts "v2.5.1" from "seqkit v2.5.1". Unrecognized
// layouts come back whole so the caller still has something to report.
func parseVersion(out string) string {
	line := out
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	fields := strings.Fields(line)
	if len(fields) >= 2 && fields[0] == "seqkit" {
		return fields[1]
	}
	return line
}
