package rag

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"gorm.io/gorm"

	"github.com/RSAKTHISABARISH/RubyAI/src/models"
)

// vectorSize matches the text-embedding-3-small output dimension.
const vectorSize = 1536

// Store indexes document text in Qdrant and answers similarity queries.
// Document metadata lives in the relational database so the indexed set
// can be listed without touching the vector store.
type Store struct {
	client     *qdrant.Client
	embedder   Embedder
	db         *gorm.DB
	collection string
}

// NewStore connects to Qdrant and ensures the collection exists.
func NewStore(ctx context.Context, addr, collection string, embedder Embedder, db *gorm.DB) (*Store, error) {
	if addr == "" {
		return nil, fmt.Errorf("qdrant address is required")
	}
	if collection == "" {
		return nil, fmt.Errorf("collection name is required")
	}

	host, port, useTLS, err := parseAddr(addr)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %v", err)
	}

	store := &Store{
		client:     client,
		embedder:   embedder,
		db:         db,
		collection: collection,
	}
	if err := store.ensureCollection(ctx); err != nil {
		client.Close()
		return nil, err
	}

	if db != nil {
		if err := db.AutoMigrate(&models.Document{}); err != nil {
			client.Close()
			return nil, fmt.Errorf("migrate document table: %v", err)
		}
	}
	return store, nil
}

func parseAddr(addr string) (host string, port int, useTLS bool, err error) {
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil {
		return "", 0, false, fmt.Errorf("parse qdrant address: %v", err)
	}

	host = u.Hostname()
	port = 6334
	if u.Port() != "" {
		port, err = strconv.Atoi(u.Port())
		if err != nil {
			return "", 0, false, fmt.Errorf("invalid qdrant port: %v", err)
		}
	}
	return host, port, u.Scheme == "https", nil
}

func (s *Store) ensureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("check collection: %v", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection: %v", err)
	}
	return nil
}

// AddDocument chunks, embeds and indexes a document.
func (s *Store) AddDocument(ctx context.Context, name, text string) (int, error) {
	chunks := SplitChunks(text)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("document %s has no indexable text", name)
	}

	vectors, err := s.embedder.Embed(ctx, chunks)
	if err != nil {
		return 0, err
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(uuid.New().String()),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"content":  chunk,
				"document": name,
			}),
		}
	}

	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		return 0, fmt.Errorf("upsert chunks: %v", err)
	}

	if s.db != nil {
		record := models.Document{Path: name, Chunks: len(chunks)}
		if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
			return 0, fmt.Errorf("record document: %v", err)
		}
	}
	return len(chunks), nil
}

// QueryDocuments returns the chunks most similar to the query.
func (s *Store) QueryDocuments(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 3
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedder returned no vector for query")
	}

	limitUint64 := uint64(limit)
	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vectors[0]...),
		Limit:          &limitUint64,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("query collection: %v", err)
	}

	passages := make([]string, 0, len(points))
	for _, point := range points {
		if point.Payload == nil {
			continue
		}
		if content := point.Payload["content"].GetStringValue(); content != "" {
			passages = append(passages, content)
		}
	}
	return passages, nil
}

// Close releases the vector store connection.
func (s *Store) Close() error {
	return s.client.Close()
}
