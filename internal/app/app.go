// Package app wires the claim pipeline's collaborators into a runnable
// batch runner. Both entrypoints share this composition.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sujal-debug/Policy-IQ/internal/adapters/storage"
	"github.com/sujal-debug/Policy-IQ/internal/checklist"
	"github.com/sujal-debug/Policy-IQ/internal/claims"
	"github.com/sujal-debug/Policy-IQ/internal/claims/repository"
	"github.com/sujal-debug/Policy-IQ/internal/config"
	"github.com/sujal-debug/Policy-IQ/internal/email"
	"github.com/sujal-debug/Policy-IQ/internal/extraction"
	"github.com/sujal-debug/Policy-IQ/internal/knowledge"
	"github.com/sujal-debug/Policy-IQ/internal/mailroom"
	"github.com/sujal-debug/Policy-IQ/internal/notify"
	"github.com/sujal-debug/Policy-IQ/internal/tracker"
	"github.com/sujal-debug/Policy-IQ/platform/ai/gemini"
	"github.com/sujal-debug/Policy-IQ/platform/logger"
	"github.com/sujal-debug/Policy-IQ/platform/validator"
)

// BuildRunner assembles the full batch pipeline against live
// collaborators.
func BuildRunner(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, log *logger.Logger) (*claims.Runner, error) {
	registry, err := checklist.Load()
	if err != nil {
		return nil, fmt.Errorf("load checklist registry: %w", err)
	}

	llm, err := gemini.New(ctx, gemini.Config{
		APIKey:            cfg.GeminiAPIKey,
		Model:             cfg.GeminiModel,
		RequestsPerSecond: cfg.LLMRateRPS,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	sender := email.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFromAddress, cfg.EmailFromName)
	notifier := notify.New(llm, sender, cfg.EmailFromName, log)
	classifier := extraction.NewClassifier(llm, registry, validator.New(), log)

	retriever := knowledge.NewRetriever(pool, knowledge.Config{
		BaseURL:  cfg.EmbeddingBaseURL,
		APIKey:   cfg.EmbeddingAPIKey,
		Model:    cfg.EmbeddingModel,
		TopK:     cfg.RetrievalTopK,
		CacheTTL: cfg.RetrievalTTL,
	}, log)

	trackerClient := tracker.New(cfg.TrackerBaseURL, cfg.TrackerUser, cfg.TrackerToken, cfg.TrackerProjectKey, log)

	store := repository.New(pool)
	lifecycle := claims.NewLifecycle(trackerClient, store, notifier, cfg.TicketRetryAttempts, cfg.TicketRetryDelay, log)
	orchestrator := claims.NewOrchestrator(store, registry, classifier, retriever, notifier, notifier, lifecycle, log)

	var archiver mailroom.Archiver
	if cfg.ArchiveEnabled {
		minioArchiver, err := storage.NewMinIOArchiver(storage.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			UseSSL:    cfg.MinioUseSSL,
			Bucket:    cfg.MinioBucket,
		})
		if err != nil {
			return nil, fmt.Errorf("create attachment archiver: %w", err)
		}
		if err := minioArchiver.EnsureBucketExists(ctx); err != nil {
			return nil, fmt.Errorf("ensure archive bucket: %w", err)
		}
		archiver = minioArchiver
		log.Info("attachment archive enabled", "bucket", cfg.MinioBucket)
	}

	mailbox := mailroom.New(mailroom.Config{
		Host:          cfg.IMAPHost,
		Port:          cfg.IMAPPort,
		Username:      cfg.IMAPUsername,
		Password:      cfg.IMAPPassword,
		Folder:        cfg.IMAPFolder,
		AttachmentDir: cfg.AttachmentDir,
	}, archiver, log)

	return claims.NewRunner(mailbox, orchestrator, lifecycle, store, cfg.BatchWindow, cfg.BatchLimit, log), nil
}
