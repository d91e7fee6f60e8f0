// Command scran-extract reads scraped society posts as JSONL and writes one
// extraction result per post: event drafts plus audited rejects
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"scran/internal/adapters/llm"
	"scran/internal/core/version"
	"scran/internal/platform/config"
	"scran/internal/platform/logger"
	"scran/internal/services/extract/domain"
	extractmod "scran/internal/services/extract/module"
)

func mustSetEnv(k, v string) {
	if v != "" {
		_ = os.Setenv(k, v)
	}
}

func main() {
	var (
		in          = flag.String("in", "-", "input JSONL of posts, '-' for stdin")
		out         = flag.String("out", "-", "output JSONL of extraction results, '-' for stdout")
		workers     = flag.Int("workers", 4, "concurrency (>=1)")
		overlay     = flag.String("overlay", "", "optional lexicon overlay YAML")
		metricsAddr = flag.String("metrics-addr", "", "serve prometheus metrics on this address (e.g. :9090)")
		showVersion = flag.Bool("version", false, "print build info and exit")
	)
	flag.Parse()

	if *showVersion {
		bi := version.Info()
		fmt.Printf("%s %s (%s, %s)\n", bi.Service, bi.Version, bi.Commit, bi.Date)
		return
	}

	l := logger.Get()

	// Pass CLI flags into ENGINE_* so the module reads one config surface
	mustSetEnv("ENGINE_LEXICON_OVERLAY", *overlay)

	root := config.New()
	llmCfg := root.Prefix("LLM_")

	var ports domain.Ports
	if key := llmCfg.MayString("API_KEY", ""); key != "" {
		client, err := llm.New(llm.Options{
			APIKey:          key,
			Model:           llmCfg.MayString("MODEL", ""),
			MaxTokens:       llmCfg.MayInt("MAX_TOKENS", 0),
			Timeout:         llmCfg.MayDuration("TIMEOUT", 0),
			BudgetPerMinute: llmCfg.MayInt("BUDGET_PER_MINUTE", 0),
			CacheTTL:        llmCfg.MayDuration("CACHE_TTL", 0),
			CacheSize:       llmCfg.MayInt("CACHE_SIZE", 0),
		})
		if err != nil {
			l.Fatal().Err(err).Msg("llm client init failed")
		}
		ports.Text = client
		ports.Vision = client
	} else {
		l.Warn().Msg("LLM_API_KEY not set, collaborator escalation disabled")
	}

	em := extractmod.New(root, ports, extractmod.Options{})
	ex := em.Extractor()

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				l.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	r := os.Stdin
	if *in != "-" {
		f, err := os.Open(*in)
		if err != nil {
			l.Fatal().Err(err).Msg("open input")
		}
		defer f.Close()
		r = f
	}
	w := os.Stdout
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			l.Fatal().Err(err).Msg("create output")
		}
		defer f.Close()
		w = f
	}

	nw := *workers
	if nw < 1 {
		nw = 1
	}

	var (
		enc      = json.NewEncoder(w)
		encMu    sync.Mutex
		jobs     = make(chan domain.RawPost, nw)
		wg       sync.WaitGroup
		drafts   atomic.Int64
		rejected atomic.Int64
		failed   atomic.Int64
	)

	ctx := context.Background()
	started := time.Now()

	for i := 0; i < nw; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				res, err := ex.ExtractPost(ctx, p)
				if err != nil {
					failed.Add(1)
					l.Warn().Err(err).Str("post_id", p.ID).Msg("post skipped")
					continue
				}
				drafts.Add(int64(len(res.Drafts)))
				rejected.Add(int64(len(res.Rejected)))
				encMu.Lock()
				err = enc.Encode(res)
				encMu.Unlock()
				if err != nil {
					l.Fatal().Err(err).Msg("write output")
				}
			}
		}()
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	posts := 0
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var p domain.RawPost
		if err := json.Unmarshal(line, &p); err != nil {
			failed.Add(1)
			l.Warn().Err(err).Msg("bad input line skipped")
			continue
		}
		posts++
		jobs <- p
	}
	close(jobs)
	wg.Wait()
	if err := sc.Err(); err != nil {
		l.Fatal().Err(err).Msg("read input")
	}

	l.Info().
		Int("posts", posts).
		Int64("drafts", drafts.Load()).
		Int64("rejected_segments", rejected.Load()).
		Int64("failed", failed.Load()).
		Dur("took", time.Since(started)).
		Msg("extraction run complete")
}
