// Package pipeline runs one summarization request end to end: parse the
// repository URL, fetch the listing, select and fetch file contents
// under the character budget, assemble the model context, and invoke
// the model. Everything a request touches (budget, selections, context)
// is created here and discarded when the request ends.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kevinmichaelchen/repo-lens/internal/assemble"
	"github.com/kevinmichaelchen/repo-lens/internal/config"
	"github.com/kevinmichaelchen/repo-lens/internal/github"
	"github.com/kevinmichaelchen/repo-lens/internal/llm"
	"github.com/kevinmichaelchen/repo-lens/internal/models"
	"github.com/kevinmichaelchen/repo-lens/internal/selector"
)

// Summarizer wires the collaborators once and serves many requests; it
// holds only read-only configuration and stateless clients.
type Summarizer struct {
	cfg     *config.Config
	gh      *github.Client
	invoker *llm.Invoker
	log     *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) *Summarizer {
	transport := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
	return &Summarizer{
		cfg: cfg,
		gh:  github.NewClient(cfg.GitHubToken),
		invoker: llm.NewInvoker(transport, llm.Options{
			APIKey:      cfg.LLMAPIKey,
			MaxAttempts: cfg.LLMMaxAttempts,
			BackoffBase: cfg.LLMBackoffBase,
			Timeout:     cfg.LLMTimeout,
		}),
		log: log,
	}
}

// Summarize answers "what does this repository do?" for one GitHub URL.
// The whole request, fetches and model calls included, runs under one
// deadline; on expiry in-flight work is cancelled and no partial result
// is returned.
func (s *Summarizer) Summarize(ctx context.Context, rawURL string) (models.SummaryResult, error) {
	started := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	owner, repo, err := github.ParseRepoURL(rawURL)
	if err != nil {
		return models.SummaryResult{}, err
	}
	log := s.log.With(zap.String("repo", owner+"/"+repo))

	info, err := s.gh.GetRepoInfo(ctx, owner, repo)
	if err != nil {
		return models.SummaryResult{}, err
	}

	listing, err := s.gh.ListTree(ctx, owner, repo, info.Ref)
	if err != nil {
		return models.SummaryResult{}, err
	}
	log.Info("fetched listing",
		zap.String("ref", info.Ref),
		zap.Int("entries", len(listing)))

	selections, err := selector.Select(ctx, listing, s.fetchFunc(info), selector.Options{
		ContextCharBudget: s.cfg.ContextCharBudget,
		MaxSourceFiles:    s.cfg.MaxSourceFiles,
		MaxBlobBytes:      s.cfg.MaxBlobBytes,
		FetchWorkers:      s.cfg.FetchWorkers,
	})
	if err != nil {
		return models.SummaryResult{}, err
	}

	assembled := assemble.Assemble(
		assemble.RenderHeader(info),
		assemble.RenderTree(listing),
		selections,
	)
	log.Info("assembled context",
		zap.Int("files", len(selections)),
		zap.Int("chars", len(assembled)))

	inv, err := s.invoker.Invoke(ctx, assembled)
	if err != nil {
		return models.SummaryResult{}, err
	}
	log.Info("summary ready",
		zap.Int("attempts", inv.Attempts),
		zap.Bool("repaired", inv.Repaired),
		zap.Duration("elapsed", time.Since(started)))

	return inv.Summary, nil
}

func (s *Summarizer) fetchFunc(info models.RepoInfo) selector.FetchFunc {
	return func(ctx context.Context, path string) ([]byte, error) {
		return s.gh.FetchFile(ctx, info.Owner, info.Repo, info.Ref, path)
	}
}
