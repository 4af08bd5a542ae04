package qdrantDB

import (
	"context"
	"errors"

	"github.com/qdrant/go-client/qdrant"
	"github.com/rkandala/newsrag/internal/config"
	"github.com/rkandala/newsrag/internal/rag/vectorDB"
	"github.com/rkandala/newsrag/pkg/logger_i"
)

var dimension = uint64(config.EmbeddingDimension)

// ClientHolder is the Qdrant-backed vector store. The collection is
// auto-created with cosine distance on first use; persistence and
// on-disk layout are Qdrant's concern.
type ClientHolder struct {
	qObj       *qdrant.Client
	collection string
	logger     *logger_i.Logger
}

func New(ctx context.Context, cfg config.Config) (*ClientHolder, error) {
	logger := logger_i.NewLogger("Qdrant")

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     cfg.QdrantHost,
		Port:     cfg.QdrantPort,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate", "error", err)
		return nil, &vectorDB.StoreUnavailableError{Op: "connect", Err: err}
	}

	holder := &ClientHolder{
		qObj:       client,
		collection: config.NewsCollectionName,
		logger:     logger,
	}
	if err := holder.ensureCollection(ctx); err != nil {
		logger.Error("could not create collection", "collectionName", holder.collection, "error", err)
		return nil, err
	}
	return holder, nil
}

func (db *ClientHolder) ensureCollection(ctx context.Context) error {
	if db.collection == "" {
		return errors.New("empty collection name")
	}

	exists, err := db.qObj.CollectionExists(ctx, db.collection)
	if err != nil {
		return &vectorDB.StoreUnavailableError{Op: "collection check", Err: err}
	}
	if exists {
		return nil
	}

	err = db.qObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: db.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return &vectorDB.StoreUnavailableError{Op: "collection create", Err: err}
	}
	return nil
}

func (db *ClientHolder) Upsert(ctx context.Context, docs []vectorDB.Document) error {
	if err := vectorDB.CheckDimensions(docs, int(dimension)); err != nil {
		return err
	}

	points := make([]*qdrant.PointStruct, len(docs))
	for i, doc := range docs {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(doc.ID),
			Vectors: qdrant.NewVectors(doc.Vector...),
			Payload: qdrant.NewValueMap(map[string]any{
				"content":      doc.Text,
				"symbol":       doc.Metadata.Symbol,
				"source":       doc.Metadata.Source,
				"title":        doc.Metadata.Title,
				"url":          doc.Metadata.URL,
				"published_at": doc.Metadata.PublishedAt,
				"chunk_index":  doc.Metadata.ChunkIndex,
			}),
		}
	}

	_, err := db.qObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: db.collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return &vectorDB.StoreUnavailableError{Op: "upsert", Err: err}
	}
	return nil
}

func (db *ClientHolder) Search(ctx context.Context, vector []float32, topK uint64, filter *vectorDB.Filter) ([]vectorDB.Hit, error) {
	loggr := db.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	result, err := db.qObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: db.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(topK),
		WithPayload:    qdrant.NewWithPayload(true),
		Filter:         toQdrantFilter(filter),
	})
	if err != nil {
		loggr.Error("Error querying Qdrant", "error", err)
		return nil, &vectorDB.StoreUnavailableError{Op: "search", Err: err}
	}

	hits := make([]vectorDB.Hit, 0, len(result))
	for _, point := range result {
		hits = append(hits, vectorDB.Hit{
			ID:   point.Id.GetUuid(),
			Text: point.Payload["content"].GetStringValue(),
			Metadata: vectorDB.Metadata{
				Symbol:      point.Payload["symbol"].GetStringValue(),
				Source:      point.Payload["source"].GetStringValue(),
				Title:       point.Payload["title"].GetStringValue(),
				URL:         point.Payload["url"].GetStringValue(),
				PublishedAt: point.Payload["published_at"].GetStringValue(),
				ChunkIndex:  int(point.Payload["chunk_index"].GetIntegerValue()),
			},
			Score: vectorDB.ClampScore(point.Score),
		})
	}

	// Qdrant's order for equal scores is unspecified; re-sort for the
	// documented stable ordering.
	vectorDB.SortHits(hits)
	return hits, nil
}

func (db *ClientHolder) Count(ctx context.Context, filter *vectorDB.Filter) (uint64, error) {
	count, err := db.qObj.Count(ctx, &qdrant.CountPoints{
		CollectionName: db.collection,
		Filter:         toQdrantFilter(filter),
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, &vectorDB.StoreUnavailableError{Op: "count", Err: err}
	}
	return count, nil
}

func (db *ClientHolder) Reset(ctx context.Context) error {
	if err := db.qObj.DeleteCollection(ctx, db.collection); err != nil {
		return &vectorDB.StoreUnavailableError{Op: "reset", Err: err}
	}
	return db.ensureCollection(ctx)
}

func (db *ClientHolder) Close() error {
	db.logger.Info("Shutting down Qdrant")
	return db.qObj.Close()
}

func toQdrantFilter(filter *vectorDB.Filter) *qdrant.Filter {
	if filter == nil {
		return nil
	}
	var must []*qdrant.Condition
	if filter.Symbol != "" {
		must = append(must, qdrant.NewMatch("symbol", filter.Symbol))
	}
	if filter.Source != "" {
		must = append(must, qdrant.NewMatch("source", filter.Source))
	}
	if len(must) == 0 {
		return nil
	}
	return &qdrant.Filter{Must: must}
}
