package openbanking

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// Provider describes one supported bank.
type Provider struct {
	Id      string `yaml:"id"`
	Name    string `yaml:"name"`
	BaseURL string `yaml:"base_url"`
}

type providersFile struct {
	Providers []Provider `yaml:"providers"`
}

// Registry holds the configured bank providers.
type Registry struct {
	providers map[string]Provider
	order     []string
}

// NewRegistry builds a registry from a provider list.
func NewRegistry(providers []Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		if _, ok := r.providers[p.Id]; ok {
			continue
		}
		r.providers[p.Id] = p
		r.order = append(r.order, p.Id)
	}
	return r
}

// LoadProviders reads the provider registry from a yaml file.
func LoadProviders(providersFilePath string) (*Registry, error) {
	path := providersFilePath
	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(wd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", providersFilePath, err)
	}

	var file providersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", providersFilePath, err)
	}

	for i, provider := range file.Providers {
		if provider.Id == "" {
			return nil, fmt.Errorf("provider at index %d missing id", i)
		}
		if provider.Name == "" {
			return nil, fmt.Errorf("provider at index %d missing name", i)
		}
	}
	if len(file.Providers) == 0 {
		return nil, fmt.Errorf("no providers configured in %s", providersFilePath)
	}

	return NewRegistry(file.Providers), nil
}

// Get returns a provider by id.
func (r *Registry) Get(id string) (Provider, bool) {
	p, ok := r.providers[id]
	return p, ok
}

// All returns the providers in configuration order.
func (r *Registry) All() []Provider {
	all := make([]Provider, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.providers[id])
	}
	return all
}
