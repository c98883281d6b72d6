package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"bodyfit-workers/internal/common/logger"
	"bodyfit-workers/internal/common/metrics"
	"bodyfit-workers/internal/tryon"

	"github.com/elastic/go-elasticsearch/v8"
)

// garmentDocument mirrors the garment-analysis output indexed in Elasticsearch.
type garmentDocument struct {
	ClothingType struct {
		Type string `json:"type"`
	} `json:"clothing_type"`
	Colors struct {
		DominantColor string `json:"dominant_color"`
	} `json:"colors"`
	Material struct {
		Material string `json:"material"`
	} `json:"material"`
	ScaleOverride *tryon.ScaleFactors `json:"scale_override,omitempty"`
}

type getResponse struct {
	Found  bool            `json:"found"`
	Source garmentDocument `json:"_source"`
}

// GarmentCatalog resolves garment ids to analysed records.
type GarmentCatalog struct {
	es     *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewGarmentCatalog(es *elasticsearch.Client, index string, log logger.Logger) *GarmentCatalog {
	return &GarmentCatalog{
		es:     es,
		index:  index,
		logger: log.Named("repository.garments").WithFields(map[string]interface{}{"index": index}),
	}
}

// garmentsMapping indexes only the fields the compositor reads; the rest of the analysis
// document is kept in _source.
const garmentsMapping = `{
  "mappings": {
    "dynamic": false,
    "properties": {
      "clothing_type":  {"properties": {"type": {"type": "keyword"}}},
      "colors":         {"properties": {"dominant_color": {"type": "keyword"}}},
      "material":       {"properties": {"material": {"type": "keyword"}}},
      "scale_override": {"properties": {
        "scale_x": {"type": "float"},
        "scale_y": {"type": "float"},
        "scale_z": {"type": "float"}
      }}
    }
  }
}`

// EnsureIndex creates the garment index with its mapping when it does not exist yet.
func (c *GarmentCatalog) EnsureIndex(ctx context.Context) error {
	exists, err := c.es.Indices.Exists([]string{c.index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", c.index, err)
	}
	exists.Body.Close()

	switch exists.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("check index %s: %s", c.index, exists.Status())
	}

	res, err := c.es.Indices.Create(c.index,
		c.es.Indices.Create.WithBody(strings.NewReader(garmentsMapping)),
		c.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", c.index, err)
	}
	defer res.Body.Close()

	// Another worker may have created it between the two calls.
	if res.IsError() && res.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("create index %s: %s", c.index, res.Status())
	}
	c.logger.Info("garment index ready", nil)
	return nil
}

// Lookup returns the analysed garment. A missing document yields the default record;
// only transport and server failures are errors.
func (c *GarmentCatalog) Lookup(ctx context.Context, id string) (tryon.Garment, error) {
	res, err := c.es.Get(c.index, id, c.es.Get.WithContext(ctx))
	if err != nil {
		return tryon.Garment{}, fmt.Errorf("get garment %s: %w", id, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return c.fallback(id), nil
	}
	if res.IsError() {
		return tryon.Garment{}, fmt.Errorf("get garment %s: %s", id, res.Status())
	}

	var doc getResponse
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		c.logger.Warn("undecodable garment document, using default", map[string]interface{}{
			"garmentId": id,
			"error":     err.Error(),
		})
		return c.fallback(id), nil
	}
	if !doc.Found {
		return c.fallback(id), nil
	}

	g := tryon.DefaultGarment(id)
	if t := doc.Source.ClothingType.Type; t != "" {
		g.Type = t
	}
	if m := doc.Source.Material.Material; m != "" {
		g.Material = m
	}
	if col := doc.Source.Colors.DominantColor; col != "" {
		g.DominantColor = col
	}
	g.ScaleOverride = doc.Source.ScaleOverride
	return g, nil
}

func (c *GarmentCatalog) fallback(id string) tryon.Garment {
	metrics.GarmentCatalogFallbacks.Inc()
	c.logger.Warn("garment analysis not found, using default record", map[string]interface{}{
		"garmentId": id,
	})
	return tryon.DefaultGarment(id)
}
