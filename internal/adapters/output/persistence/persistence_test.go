package persistence

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CR1N993R/homeassistant-feller-zeptrion/internal/domain/model"
)

func TestJSONConfigRepository_Migration(t *testing.T) {
	tmpFile := "test_config_legacy.json"
	defer os.Remove(tmpFile)

	legacyData := `{
		"host": "192.168.1.50",
		"Hub Name": "Feller Zeptrion Zapp Z123456",
		"Channel 1 Name": "Kitchen",
		"Channel 4 Name": "Terrace Blind"
	}`
	os.WriteFile(tmpFile, []byte(legacyData), 0644)

	repo := NewJSONConfigRepository(tmpFile)
	cfg, err := repo.Get(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "192.168.1.50", cfg.Host)
	assert.Equal(t, "Feller Zeptrion Zapp Z123456", cfg.Name)
	assert.Len(t, cfg.ChannelNames, 2)
	assert.Equal(t, "Kitchen", cfg.ChannelNames["Channel 1 Name"])
	assert.Equal(t, "Terrace Blind", cfg.ChannelNames["Channel 4 Name"])
}

func TestJSONConfigRepository_NewFormat(t *testing.T) {
	tmpFile := "test_config_new.json"
	defer os.Remove(tmpFile)

	repo := NewJSONConfigRepository(tmpFile)
	cfg := &model.Config{
		Host: "192.168.1.50",
		Name: "Zapp",
		ChannelNames: map[string]string{
			"Channel 1 Name": "Kitchen",
		},
	}

	err := repo.Save(context.Background(), cfg)
	assert.NoError(t, err)

	loaded, err := repo.Get(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "Zapp", loaded.Name)
	assert.Equal(t, "Kitchen", loaded.ChannelNames["Channel 1 Name"])
}

func TestJSONConfigRepository_MissingFile(t *testing.T) {
	repo := NewJSONConfigRepository("does_not_exist.json")
	cfg, err := repo.Get(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, cfg.Host)
	assert.NotNil(t, cfg.ChannelNames)
}

func TestJSONConfigRepository_UnreadableContent(t *testing.T) {
	tmpFile := "test_config_garbage.json"
	defer os.Remove(tmpFile)
	os.WriteFile(tmpFile, []byte(`{"host": {"nested": true}}`), 0644)

	repo := NewJSONConfigRepository(tmpFile)
	_, err := repo.Get(context.Background())
	assert.Error(t, err)
}
