package elastic_adapter

import (
	"context"
	"fmt"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/olivere/elastic/v7"
)

const DefaultIndex = "landmarks"

const indexMapping = `{
  "mappings": {
    "properties": {
      "name":     { "type": "text" },
      "type":     { "type": "keyword" },
      "size":     { "type": "keyword" },
      "location": { "type": "geo_point" }
    }
  }
}`

type landmarkDoc struct {
	Name     string           `json:"name"`
	Type     string           `json:"type"`
	Size     string           `json:"size"`
	Location elastic.GeoPoint `json:"location"`
}

// ElasticNearbyIndex keeps landmark positions in Elasticsearch for distance search.
type ElasticNearbyIndex struct {
	client *elastic.Client
	index  string
}

// NewClient connects without sniffing, which suits a single node behind a proxy or container.
func NewClient(url string) (*elastic.Client, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return client, nil
}

func NewElasticNearbyIndex(client *elastic.Client, index string) (*ElasticNearbyIndex, error) {
	if client == nil {
		return nil, fmt.Errorf("elasticsearch client cannot be nil")
	}
	if index == "" {
		index = DefaultIndex
	}
	return &ElasticNearbyIndex{client: client, index: index}, nil
}

// EnsureIndex creates the index with its geo_point mapping when it does not exist.
func (e *ElasticNearbyIndex) EnsureIndex(ctx context.Context) error {
	exists, err := e.client.IndexExists(e.index).Do(ctx)
	if err != nil {
		return fmt.Errorf("check index %s: %w", e.index, err)
	}
	if exists {
		return nil
	}
	res, err := e.client.CreateIndex(e.index).BodyString(indexMapping).Do(ctx)
	if err != nil {
		return fmt.Errorf("create index %s: %w", e.index, err)
	}
	if !res.Acknowledged {
		contextkeys.LoggerFromContext(ctx).Warn("CreateIndex was not acknowledged", port.Fields{"index": e.index})
	}
	return nil
}

func (e *ElasticNearbyIndex) Index(ctx context.Context, l *domain.Landmark) error {
	doc := landmarkDoc{
		Name:     l.Name,
		Type:     l.Type,
		Size:     string(l.Size),
		Location: elastic.GeoPoint{Lat: l.Geolocation.Lat, Lon: l.Geolocation.Lng},
	}
	_, err := e.client.Index().Index(e.index).Id(l.ID.String()).BodyJson(doc).Do(ctx)
	if err != nil {
		return fmt.Errorf("index landmark %s: %w", l.ID, err)
	}
	return nil
}

func (e *ElasticNearbyIndex) Remove(ctx context.Context, id uuid.UUID) error {
	_, err := e.client.Delete().Index(e.index).Id(id.String()).Do(ctx)
	if err != nil && !elastic.IsNotFound(err) {
		return fmt.Errorf("remove landmark %s: %w", id, err)
	}
	return nil
}

func (e *ElasticNearbyIndex) Nearby(ctx context.Context, point domain.Geolocation, limit int) ([]uuid.UUID, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "ElasticNearbyIndex",
		"method":    "Nearby",
	})

	result, err := e.client.Search().
		Index(e.index).
		Query(elastic.NewMatchAllQuery()).
		SortBy(elastic.NewGeoDistanceSort("location").
			Point(point.Lat, point.Lng).
			Asc().
			Unit("km").
			DistanceType("arc").
			IgnoreUnmapped(true)).
		FetchSource(false).
		Size(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("nearby search: %w", err)
	}
	if result.Hits == nil {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		id, err := uuid.Parse(hit.Id)
		if err != nil {
			logger.Warn("Skipping hit with foreign id", port.Fields{"id": hit.Id})
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
