package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/ternarybob/arbor"

	"github.com/mymind-ai/mymind/internal/common"
	"github.com/mymind-ai/mymind/internal/manifest"
	"github.com/mymind-ai/mymind/internal/services/embeddings"
	"github.com/mymind-ai/mymind/internal/services/journal"
	"github.com/mymind-ai/mymind/internal/services/llm"
	"github.com/mymind-ai/mymind/internal/storage/badger"
)

// legacyDataFile is the JSONL export name used by the previous assistant
const legacyDataFile = "my_personal_data.jsonl"

var (
	configFile = flag.String("config", "mymind.toml", "Configuration file path")
	dataDir    = flag.String("data", "", "Legacy data directory (overrides config)")
	importOnly = flag.Bool("import-only", false, "Import legacy entries without re-embedding")
	reindex    = flag.Bool("reindex", false, "Reindex all stored entries without importing")
)

func main() {
	flag.Parse()

	_ = godotenv.Load()

	config, err := common.LoadFromFiles(*configFile)
	if err != nil {
		arbor.NewLogger().Fatal().Str("path", *configFile).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger := common.InitLogger(config)

	legacyDir := config.Legacy.DataDir
	if *dataDir != "" {
		legacyDir = *dataDir
	}

	if err := run(config, logger, legacyDir); err != nil {
		logger.Fatal().Err(err).Msg("Indexer failed")
		os.Exit(1)
	}
}

func run(config *common.Config, logger arbor.ILogger, legacyDir string) error {
	ctx := context.Background()

	storageManager, err := badger.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer storageManager.Close()

	llmServices, err := llm.NewServices(config, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM services: %w", err)
	}
	defer llmServices.Close()

	embeddingService := embeddings.NewService(
		llmServices.Embed,
		config.Gemini.EmbeddingModel,
		config.LLM.EmbeddingDimension,
		logger,
	)

	journalService := journal.NewService(
		storageManager.EntryStorage(),
		storageManager.ChunkStorage(),
		embeddingService,
		nil,
		logger,
	)

	if !*reindex {
		reportManifest(logger, legacyDir, config.Legacy.ManifestFile)

		dataPath := filepath.Join(legacyDir, legacyDataFile)
		result, err := journalService.ImportLegacyJSONL(ctx, dataPath)
		if err != nil {
			return fmt.Errorf("legacy import failed: %w", err)
		}

		logger.Info().
			Str("path", dataPath).
			Int("total", result.Total).
			Int("imported", result.Imported).
			Int("skipped", result.Skipped).
			Msg("Legacy import complete")
	}

	if *importOnly {
		logger.Info().Msg("Skipping reindex (import-only)")
		return nil
	}

	result, err := journalService.ReindexAll(ctx)
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	logger.Info().
		Int("total", result.Total).
		Int("indexed", result.Indexed).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("Reindex complete")

	return nil
}

// reportManifest logs which packages the legacy application depended on so
// operators can confirm the provenance of the data set being imported.
func reportManifest(logger arbor.ILogger, dir, filename string) {
	if filename == "" {
		filename = "requirements.txt"
	}

	path := filepath.Join(dir, filename)
	m, err := manifest.ParseFile(path)
	if err != nil {
		logger.Warn().Str("path", path).Err(err).Msg("Legacy dependency manifest not readable")
		return
	}

	logger.Info().
		Str("path", path).
		Strs("active", m.Active()).
		Strs("commented_out", m.CommentedOutNames()).
		Msg("Legacy dependency manifest")
}
