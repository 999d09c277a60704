package ports

import (
	"context"

	"github.com/CR1N993R/homeassistant-feller-zeptrion/internal/domain/model"
)

type ConfigRepository interface {
	Get(ctx context.Context) (*model.Config, error)
	Save(ctx context.Context, config *model.Config) error
}
