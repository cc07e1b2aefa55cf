package models

import "time"

type Config struct {
	Debug bool `yaml:"debug" envconfig:"GNOMAD_DEBUG"`

	Api struct {
		Url                string        `yaml:"url" envconfig:"GNOMAD_PUBLIC_URL"`
		Port               string        `yaml:"port" envconfig:"GNOMAD_API_INTERNAL_PORT" default:"5000"`
		GenesIndex         string        `yaml:"genesIndex" envconfig:"GNOMAD_GENES_INDEX" default:"genes_grch37"`
		VariantsIndex      string        `yaml:"variantsIndex" envconfig:"GNOMAD_VARIANTS_INDEX" default:"variants"`
		IngestionRetention time.Duration `yaml:"ingestionRetention" envconfig:"GNOMAD_INGESTION_RETENTION" default:"24h"`
	} `yaml:"api"`

	Elasticsearch struct {
		Url         string        `yaml:"url" envconfig:"GNOMAD_ES_URL" default:"http://localhost:9200"`
		Username    string        `yaml:"username" envconfig:"GNOMAD_ES_USERNAME"`
		Password    string        `yaml:"password" envconfig:"GNOMAD_ES_PASSWORD"`
		VerifyCerts bool          `yaml:"verifyCerts" envconfig:"GNOMAD_ES_VERIFY_CERTS" default:"true"`
		Timeout     time.Duration `yaml:"timeout" envconfig:"GNOMAD_ES_TIMEOUT" default:"30s"`
	} `yaml:"elasticsearch"`

	Pipeline struct {
		Workers int `yaml:"workers" envconfig:"GNOMAD_COMPOSE_WORKERS" default:"4"`
	} `yaml:"pipeline"`
}
