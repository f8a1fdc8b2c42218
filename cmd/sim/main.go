package main

import (
	"context"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Harshitk-cp/arbiter/internal/config"
	"github.com/Harshitk-cp/arbiter/internal/domain"
	"github.com/Harshitk-cp/arbiter/internal/service"
	"github.com/Harshitk-cp/arbiter/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	var (
		populations   = flag.String("population", "100", "comma-separated population sizes to sweep")
		repC1         = flag.String("rep-c1", "3", "comma-separated reputation growth limits (c1) to sweep")
		repC2         = flag.String("rep-c2", "1", "comma-separated reputation growth rates (c2) to sweep")
		useRep        = flag.String("use-rep", "true", "comma-separated reputation toggles to sweep")
		fixedThresh   = flag.Bool("fixed-threshold", false, "treat the confidence threshold as a head count")
		questions     = flag.Int("questions", domain.DefaultQuestionsPerEpoch, "questions per epoch")
		epochs        = flag.Int("epochs", domain.DefaultEpochs, "number of epochs")
		epochsPerSave = flag.Int("epochs-per-save", domain.DefaultEpochsPerSave, "epochs between snapshot saves")
		expDomains    = flag.Int("experience-domains", domain.DefaultExperienceDomainCount, "knowledge domains per agent")
		contention    = flag.Float64("contention-center", domain.DefaultContentionCenter, "center of the contention distribution")
		threshold     = flag.Float64("confidence-threshold", domain.DefaultConfidenceThreshold, "quorum confidence threshold")
		boost         = flag.Float64("experience-boost", domain.DefaultExperienceBoost, "alignment bonus for experienced agents")
		secondary     = flag.Int("secondary-contexts", domain.DefaultSecondaryContextCount, "secondary context domains per question")
		affinity      = flag.Float64("rep-affinity", domain.DefaultReputationAffinity, "selection affinity multiplier")
		seed          = flag.Int64("seed", 0, "random seed (0 derives one from the current time)")
		outDir        = flag.String("out", "", "snapshot output directory (overrides OUTPUT_DIR)")
		taxonomyPath  = flag.String("taxonomy", "", "taxonomy JSON file (overrides TAXONOMY_PATH; built-in set if empty)")
		quiet         = flag.Bool("quiet", false, "silence per-question logging")
	)
	flag.Parse()

	logger := newLogger(*quiet)
	defer func() { _ = logger.Sync() }()

	if err := config.Load(); err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	taxonomy := loadTaxonomy(*taxonomyPath, logger)

	base := domain.DefaultParams()
	base.FixedThreshold = *fixedThresh
	base.QuestionsPerEpoch = *questions
	base.Epochs = *epochs
	base.EpochsPerSave = *epochsPerSave
	base.ExperienceDomainCount = *expDomains
	base.ContentionCenter = *contention
	base.ConfidenceThreshold = *threshold
	base.ExperienceBoost = *boost
	base.SecondaryContextCount = *secondary
	base.ReputationAffinity = *affinity

	spec := service.SweepSpec{
		Populations:   parseInts(*populations, logger),
		GrowthLimits:  parseFloats(*repC1, logger),
		GrowthRates:   parseFloats(*repC2, logger),
		UseReputation: parseBools(*useRep, logger),
	}

	effectiveSeed := *seed
	if effectiveSeed == 0 {
		effectiveSeed = time.Now().UnixNano()
		logger.Info("derived seed from current time", zap.Int64("seed", effectiveSeed))
	}

	dir := *outDir
	if dir == "" {
		dir = config.OutputDir()
	}
	stores := buildStores(dir, logger)

	ctx := context.Background()
	combos := spec.Expand(base)
	logger.Info("starting sweep", zap.Int("combinations", len(combos)))

	for i, params := range combos {
		logger.Info("running combination",
			zap.Int("index", i),
			zap.Int("population", params.Population),
			zap.Float64("rep_c1", params.ReputationGrowthLimit),
			zap.Float64("rep_c2", params.ReputationGrowthRate),
			zap.Bool("use_reputation", params.UseReputation))

		runner, err := service.NewRunner(taxonomy, params, effectiveSeed, stores, logger)
		if err != nil {
			logger.Fatal("failed to initialize run", zap.Error(err))
		}
		if _, err := runner.Run(ctx); err != nil {
			logger.Fatal("run failed", zap.Error(err))
		}
	}
}

func newLogger(quiet bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(config.LogLevel()); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	if quiet {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		os.Exit(1)
	}
	return logger
}

func loadTaxonomy(path string, logger *zap.Logger) *domain.Taxonomy {
	if path == "" {
		path = config.TaxonomyPath()
	}
	if path == "" {
		return domain.DefaultTaxonomy()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("failed to read taxonomy", zap.String("path", path), zap.Error(err))
	}
	taxonomy, err := domain.ParseTaxonomy(data)
	if err != nil {
		logger.Fatal("failed to parse taxonomy", zap.String("path", path), zap.Error(err))
	}
	return taxonomy
}

func buildStores(dir string, logger *zap.Logger) []domain.SnapshotStore {
	fileStore, err := store.NewFileSnapshotStore(dir)
	if err != nil {
		logger.Fatal("failed to open snapshot directory", zap.Error(err))
	}
	stores := []domain.SnapshotStore{fileStore}

	if dbURL := config.DatabaseURL(); dbURL != "" {
		pool, err := pgxpool.New(context.Background(), dbURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		stores = append(stores, store.NewPostgresSnapshotStore(pool))
		logger.Info("postgres snapshot store enabled")
	}
	return stores
}

func parseInts(s string, logger *zap.Logger) []int {
	var out []int
	for _, part := range splitList(s) {
		v, err := strconv.Atoi(part)
		if err != nil {
			logger.Fatal("invalid integer list", zap.String("value", s))
		}
		out = append(out, v)
	}
	return out
}

func parseFloats(s string, logger *zap.Logger) []float64 {
	var out []float64
	for _, part := range splitList(s) {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			logger.Fatal("invalid float list", zap.String("value", s))
		}
		out = append(out, v)
	}
	return out
}

func parseBools(s string, logger *zap.Logger) []bool {
	var out []bool
	for _, part := range splitList(s) {
		v, err := strconv.ParseBool(part)
		if err != nil {
			logger.Fatal("invalid bool list", zap.String("value", s))
		}
		out = append(out, v)
	}
	return out
}

func splitList(s string) []string {
	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
