package utils

import (
	"crypto/tls"
	"net/http"
	"time"

	"gnomad/pipeline/models"

	"github.com/cenkalti/backoff"
	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func CreateEsConnection(cfg *models.Config, logger *zap.Logger) (*es7.Client, error) {
	var (
		clusterURLs  = []string{cfg.Elasticsearch.Url}
		retryBackoff = backoff.NewExponentialBackOff()
	)

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: !cfg.Elasticsearch.VerifyCerts}
	transport.ResponseHeaderTimeout = cfg.Elasticsearch.Timeout

	esCfg := es7.Config{
		Addresses: clusterURLs,
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
		Header:    http.Header{"Content-Type": []string{"application/json"}},
		Transport: transport,

		RetryOnStatus: []int{502, 503, 504, 429},

		// Configure the backoff function
		//
		RetryBackoff: func(i int) time.Duration {
			if i == 1 {
				retryBackoff.Reset()
			}
			return retryBackoff.NextBackOff()
		},

		// Retry up to 5 attempts
		//
		MaxRetries: 5,
	}

	es7Client, err := es7.NewClient(esCfg)
	if err != nil {
		return nil, errors.Wrapf(err, "creating elasticsearch client for %s", cfg.Elasticsearch.Url)
	}

	if logger != nil {
		logger.Debug("elasticsearch client ready",
			zap.String("url", cfg.Elasticsearch.Url),
			zap.String("clientVersion", es7.Version),
			zap.Bool("verifyCerts", cfg.Elasticsearch.VerifyCerts))
	}

	return es7Client, nil
}
