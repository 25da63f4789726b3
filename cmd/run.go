package cmd

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexicon/internal/app"
	"github.com/abhisek/lexicon/internal/config"
	"github.com/abhisek/lexicon/internal/grading"
	"github.com/abhisek/lexicon/internal/identity"
	"github.com/abhisek/lexicon/internal/judge"
	"github.com/abhisek/lexicon/internal/llm"
	"github.com/abhisek/lexicon/internal/question"
	"github.com/abhisek/lexicon/internal/score"
	"github.com/abhisek/lexicon/internal/session"
	"github.com/abhisek/lexicon/internal/store"
)

// runtime bundles the opened store and the repositories built on it.
type runtime struct {
	cfg      config.Config
	docs     store.DocStore
	profiles store.ProfileRepo
	board    store.LeaderboardRepo
	events   store.JudgeEventRepo
}

func (r *runtime) Close() error {
	return r.docs.Close()
}

// loadConfig reads the config file and environment, then applies the
// persistent flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		if err := store.EnsureDir(p); err != nil {
			return cfg, fmt.Errorf("resolve DB path: %w", err)
		}
		cfg.Store.SQLitePath = p
	}
	if b, _ := cmd.Flags().GetString("store"); b != "" {
		cfg.Store.Backend = b
	}
	if uid, _ := cmd.Flags().GetString("uid"); uid != "" {
		cfg.UID = uid
	}
	return cfg, cfg.Validate()
}

// openRuntime loads the config and opens the configured store.
func openRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.StoreOptions()
	if err != nil {
		return nil, err
	}
	docs, err := store.Open(cmd.Context(), opts)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	paths := store.NewPaths(cfg.AppID)
	return &runtime{
		cfg:      cfg,
		docs:     docs,
		profiles: store.NewProfileRepo(docs, paths),
		board:    store.NewLeaderboardRepo(docs, paths),
		events:   store.NewJudgeEventRepo(docs, paths),
	}, nil
}

// keeper resolves the player identity and loads their profile.
func (r *runtime) keeper(ctx context.Context) (*score.Keeper, error) {
	ident, err := identity.Resolve(r.cfg.UID)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	k := score.NewKeeper(ident, r.profiles, r.board)
	if _, err := k.Load(ctx); err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return k, nil
}

// judge builds the free-text judge. The remote judge is used when enabled
// and a provider is configured; otherwise answers are matched locally.
func (r *runtime) judge(ctx context.Context) (judge.Judge, bool) {
	if !r.cfg.Judge.Enabled {
		return judge.Local{}, false
	}
	llmCfg, ok := llm.ResolveConfig()
	if !ok {
		log.Printf("judge: no LLM provider configured, matching answers locally")
		return judge.Local{}, false
	}
	provider, err := llm.NewProvider(ctx, llmCfg, r.events)
	if err != nil {
		log.Printf("judge: LLM provider: %v", err)
		return judge.Local{}, false
	}
	remote := judge.NewRemote(provider, judge.DefaultRemoteConfig())
	return judge.WithFallback(remote, r.cfg.Judge.Timeout, r.events), true
}

// runPlay opens the store, builds dependencies, and launches the TUI.
func runPlay(cmd *cobra.Command) error {
	ctx := cmd.Context()
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	keeper, err := rt.keeper(ctx)
	if err != nil {
		return err
	}
	j, remote := rt.judge(ctx)
	machine := session.New(question.NewSelector(nil), keeper, session.Options{
		TimedBudget: rt.cfg.Game.TimedBudget,
	})

	skip, _ := cmd.Flags().GetBool("skip-intro")
	opts := app.Options{
		Machine:     machine,
		Grader:      grading.New(j),
		Board:       rt.board,
		Events:      rt.events,
		RemoteJudge: remote,
		SkipWelcome: skip,
	}
	if dir, err := store.DataDir(); err == nil {
		opts.LogPath = filepath.Join(dir, "lexicon.log")
	}

	return app.Run(ctx, opts)
}
