package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"gnomad/pipeline/models/constants"
	"gnomad/pipeline/models/indexes"

	"github.com/Jeffail/gabs"
	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/elastic/go-elasticsearch/v7/esutil"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Store is the document store backed by an elasticsearch 7 cluster.
// Every call is bounded by the context it is given.
type Store struct {
	client *es7.Client
	logger *zap.Logger
}

func NewStore(client *es7.Client, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		client: client,
		logger: logger,
	}
}

func (s *Store) Exists(ctx context.Context, index string) (bool, error) {
	res, err := s.client.Indices.Exists(
		[]string{index},
		s.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, &ConnectionError{Op: "exists", Index: index, Err: err}
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, errors.Errorf("checking index %s: unexpected status %s", index, res.Status())
	}
}

// Create creates index with its properties declared under the legacy
// `_doc` type. An index that already exists counts as created.
func (s *Store) Create(ctx context.Context, index string, mapping map[string]interface{}) error {
	body := indexes.TypedMapping(constants.DocumentType, mapping)

	res, err := s.client.Indices.Create(
		index,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(esutil.NewJSONReader(body)),
		s.client.Indices.Create.WithIncludeTypeName(true),
	)
	if err != nil {
		return &ConnectionError{Op: "create", Index: index, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		werr := writeErrorFrom("create", index, res)
		if werr.Type == resourceAlreadyExists {
			s.logger.Info("index already exists", zap.String("index", index))
			return nil
		}
		return werr
	}

	s.logger.Info("index created", zap.String("index", index))
	return nil
}

// Write indexes a single document. No retry is attempted here.
func (s *Store) Write(ctx context.Context, index string, docType string, document map[string]interface{}) error {
	req := esapi.IndexRequest{
		Index:        index,
		DocumentType: docType,
		Body:         esutil.NewJSONReader(document),
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return &ConnectionError{Op: "index", Index: index, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return writeErrorFrom("index", index, res)
	}
	return nil
}

func (s *Store) CountDocuments(ctx context.Context, index string) (int, error) {
	res, err := s.client.Count(
		s.client.Count.WithContext(ctx),
		s.client.Count.WithIndex(index),
	)
	if err != nil {
		return 0, &ConnectionError{Op: "count", Index: index, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, errors.Errorf("counting documents in %s: got '%s'", index, res.Status())
	}

	parsed, err := gabs.ParseJSONDecoder(jsonDecoder(res.Body))
	if err != nil {
		return 0, errors.Wrapf(err, "decoding count response for %s", index)
	}
	count, ok := parsed.Path("count").Data().(json.Number)
	if !ok {
		return 0, errors.Errorf("count response for %s has no count", index)
	}
	n, err := count.Int64()
	return int(n), err
}

// search runs query against index and returns the _source of every hit.
func (s *Store) search(ctx context.Context, index string, query map[string]interface{}) ([]map[string]interface{}, error) {
	// encode the query
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, errors.Wrap(err, "encoding query")
	}

	// view the outbound elasticsearch query
	s.logger.Debug("search", zap.String("index", index), zap.String("query", buf.String()))

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(index),
		s.client.Search.WithBody(&buf),
		s.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, &ConnectionError{Op: "search", Index: index, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		// nothing loaded yet
		return []map[string]interface{}{}, nil
	}
	if res.IsError() {
		return nil, errors.Errorf("searching %s: got '%s'", index, res.Status())
	}

	parsed, err := gabs.ParseJSONDecoder(json.NewDecoder(res.Body))
	if err != nil {
		return nil, errors.Wrapf(err, "decoding search response for %s", index)
	}

	allDocHits := []map[string]interface{}{}
	if err := mapstructure.Decode(parsed.Path("hits.hits").Data(), &allDocHits); err != nil {
		return nil, errors.Wrapf(err, "decoding hits for %s", index)
	}

	// grab _source for each hit
	sources := make([]map[string]interface{}, 0, len(allDocHits))
	for _, hit := range allDocHits {
		if source, ok := hit["_source"].(map[string]interface{}); ok {
			sources = append(sources, source)
		}
	}

	s.logger.Debug("search done", zap.String("index", index), zap.Int("hits", len(sources)))
	return sources, nil
}

func jsonDecoder(r io.Reader) *json.Decoder {
	d := json.NewDecoder(r)
	d.UseNumber()
	return d
}
