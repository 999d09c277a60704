package persistence

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/CR1N993R/homeassistant-feller-zeptrion/internal/domain/model"
)

type JSONConfigRepository struct {
	filepath string
	mu       sync.RWMutex
}

func NewJSONConfigRepository(filepath string) *JSONConfigRepository {
	return &JSONConfigRepository{filepath: filepath}
}

func (r *JSONConfigRepository) Get(ctx context.Context) (*model.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.Config{ChannelNames: map[string]string{}}, nil
		}
		return nil, err
	}

	var cfg model.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Migration check: the host platform used to store a flat key/value map
	// instead of the structured shape.
	if cfg.ChannelNames == nil {
		return r.migrate(data)
	}

	return &cfg, nil
}

// migrate converts the legacy flat map ("host", "Hub Name" and the
// "Channel N Name" override keys) into the current structure. Anything
// unrecognizable yields an empty config rather than an error.
func (r *JSONConfigRepository) migrate(data []byte) (*model.Config, error) {
	var legacy map[string]string
	if err := json.Unmarshal(data, &legacy); err != nil {
		return &model.Config{ChannelNames: map[string]string{}}, nil
	}

	cfg := &model.Config{ChannelNames: make(map[string]string)}
	for key, value := range legacy {
		switch {
		case key == "host":
			cfg.Host = value
		case key == "Hub Name":
			cfg.Name = value
		case strings.HasPrefix(key, "Channel ") && strings.HasSuffix(key, " Name"):
			cfg.ChannelNames[key] = value
		}
	}
	return cfg, nil
}

func (r *JSONConfigRepository) Save(ctx context.Context, config *model.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if config.ChannelNames == nil {
		config.ChannelNames = map[string]string{}
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(r.filepath, data, 0644)
}
