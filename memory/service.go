package memory

import (
	"context"
	"log/slog"

	"github.com/samber/lo"

	"github.com/habiliai/caremem/config"
	"github.com/habiliai/caremem/errors"
	"github.com/habiliai/caremem/llm"
)

type (
	// Service is the decision/extraction/classification pipeline. It owns no
	// storage; persistence of what it produces is the caller's concern.
	Service interface {
		// ShouldRemember decides whether the utterance contains information
		// worth remembering at all.
		ShouldRemember(ctx context.Context, utterance string) (bool, error)

		// Extract summarizes the utterance into a validated BaseMemory.
		Extract(ctx context.Context, utterance string) (*BaseMemory, error)

		// ExtractEpisodic summarizes a whole conversation into an episodic
		// reflection.
		ExtractEpisodic(ctx context.Context, conversation []Turn) (*BaseEpisodicMemory, error)

		// Contradicts checks whether two memory sentences state opposite
		// facts about the same thing.
		Contradicts(ctx context.Context, first, second string) (bool, error)
	}

	service struct {
		client   llm.Client
		config   *config.MemoryConfig
		logger   *slog.Logger
		priority []Category
	}
)

var (
	_ Service = (*service)(nil)
)

func NewService(client llm.Client, conf *config.MemoryConfig, logger *slog.Logger) (Service, error) {
	if client == nil {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "llm client is required")
	}
	if conf == nil {
		conf = config.NewMemoryConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	priority := DefaultCategoryPriority
	if len(conf.CategoryPriority) > 0 {
		priority = lo.Map(conf.CategoryPriority, func(c string, _ int) Category {
			return Category(c)
		})
		for _, c := range priority {
			if err := c.Validate(); err != nil {
				return nil, errors.Wrapf(errors.ErrInvalidConfig, "bad category priority entry %q", string(c))
			}
		}
	}

	return &service{
		client:   client,
		config:   conf,
		logger:   logger,
		priority: priority,
	}, nil
}
