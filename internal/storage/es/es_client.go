package es

import (
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
)

const DefaultIndexName = "blog_posts"

type ClientConfig struct {
	Addresses []string
	IndexName string
	Username  string
	Password  string
}

func (c ClientConfig) Validate() error {
	if len(c.Addresses) == 0 {
		return fmt.Errorf("elasticsearch addresses are not set")
	}
	for _, a := range c.Addresses {
		if strings.TrimSpace(a) == "" {
			return fmt.Errorf("elasticsearch address list contains an empty entry")
		}
	}
	if c.IndexName == "" {
		return fmt.Errorf("elasticsearch index name is not set")
	}
	return nil
}

func newClient(config ClientConfig) (*elasticsearch.TypedClient, error) {
	cfg := elasticsearch.Config{
		Addresses: config.Addresses,
	}

	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	return elasticsearch.NewTypedClient(cfg)
}
