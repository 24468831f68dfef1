// Package knowledge retrieves policy document passages relevant to an
// inbound message. Passages are stored as embedded chunks in Postgres
// and searched by cosine distance.
package knowledge

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pgvector/pgvector-go"
	openai "github.com/sashabaranov/go-openai"

	"github.com/sujal-debug/Policy-IQ/internal/claims/ports"
	"github.com/sujal-debug/Policy-IQ/platform/logger"
)

// Config configures the retriever.
type Config struct {
	// BaseURL overrides the embedding API endpoint; empty uses the
	// provider default.
	BaseURL string
	APIKey  string
	Model   string
	// TopK is how many chunks a lookup returns.
	TopK int
	// CacheTTL bounds how long a retrieval result is reused for
	// identical message bodies.
	CacheTTL time.Duration
}

// Retriever implements the pipeline's retriever port.
type Retriever struct {
	pool   *pgxpool.Pool
	client *openai.Client
	model  string
	topK   int
	cache  *gocache.Cache
	log    *logger.Logger
}

func NewRetriever(pool *pgxpool.Pool, cfg Config, log *logger.Logger) *Retriever {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	topK := cfg.TopK
	if topK < 1 {
		topK = 2
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	return &Retriever{
		pool:   pool,
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		topK:   topK,
		cache:  gocache.New(ttl, 2*ttl),
		log:    log,
	}
}

var _ ports.Retriever = (*Retriever)(nil)

// RetrieveContext returns the policy passages most similar to the
// message body, concatenated for prompt use. Results are cached per
// message body for the configured TTL.
func (r *Retriever) RetrieveContext(ctx context.Context, bodyText string) (string, error) {
	bodyText = strings.TrimSpace(bodyText)
	if bodyText == "" {
		return "", nil
	}

	key := cacheKey(bodyText)
	if cached, found := r.cache.Get(key); found {
		return cached.(string), nil
	}

	embedding, err := r.embed(ctx, bodyText)
	if err != nil {
		return "", err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT source, content
		FROM policy_chunks
		ORDER BY embedding <=> $1
		LIMIT $2
	`, pgvector.NewVector(embedding), r.topK)
	if err != nil {
		return "", fmt.Errorf("search policy chunks: %w", err)
	}
	defer rows.Close()

	var parts []string
	for rows.Next() {
		var source, content string
		if err := rows.Scan(&source, &content); err != nil {
			return "", fmt.Errorf("scan policy chunk: %w", err)
		}
		parts = append(parts, fmt.Sprintf("[%s]\n%s", source, content))
	}
	if rows.Err() != nil {
		return "", rows.Err()
	}

	result := strings.Join(parts, "\n\n")
	r.cache.Set(key, result, gocache.DefaultExpiration)
	return result, nil
}

// IngestChunk stores one policy passage with its embedding. Used by the
// knowledge loading tooling, not by the batch pipeline.
func (r *Retriever) IngestChunk(ctx context.Context, source, content string) error {
	embedding, err := r.embed(ctx, content)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO policy_chunks (source, content, embedding)
		VALUES ($1, $2, $3)
	`, source, content, pgvector.NewVector(embedding))
	if err != nil {
		return fmt.Errorf("insert policy chunk: %w", err)
	}
	return nil
}

func (r *Retriever) embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := r.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(r.model),
	})
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response is empty")
	}
	return resp.Data[0].Embedding, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
