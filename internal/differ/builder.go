package differ

import (
	"github.com/aleister1102/diffhunter/internal/common"
	"github.com/aleister1102/diffhunter/internal/config"
)

// EngineBuilder provides a fluent interface for creating Engine
type EngineBuilder struct {
	config    DiffConfig
	sequencer Sequencer
}

// NewEngineBuilder creates a new builder
func NewEngineBuilder() *EngineBuilder {
	return &EngineBuilder{
		config: DefaultDiffConfig(),
	}
}

// WithConfig sets the diff configuration
func (b *EngineBuilder) WithConfig(cfg DiffConfig) *EngineBuilder {
	b.config = cfg
	return b
}

// WithGlobalConfig sets the diff configuration from the global config section
func (b *EngineBuilder) WithGlobalConfig(cfg config.DiffConfig) *EngineBuilder {
	b.config = DiffConfigFromGlobal(cfg)
	return b
}

// WithSequencer overrides the sequencer selected by the configured algorithm
func (b *EngineBuilder) WithSequencer(sequencer Sequencer) *EngineBuilder {
	b.sequencer = sequencer
	return b
}

// Build creates a new Engine instance
func (b *EngineBuilder) Build() (*Engine, error) {
	if err := b.config.validate(); err != nil {
		return nil, common.WrapError(err, "invalid diff config")
	}

	sequencer := b.sequencer
	if sequencer == nil {
		var err error
		sequencer, err = NewSequencer(b.config.Algorithm)
		if err != nil {
			return nil, common.WrapError(err, "failed to create sequencer")
		}
	}

	return &Engine{
		config:     b.config,
		sequencer:  sequencer,
		classifier: NewClassifier(b.config),
		charDiffer: NewCharDiffer(sequencer),
	}, nil
}

// NewEngine creates a new Engine using builder pattern
func NewEngine(cfg DiffConfig) (*Engine, error) {
	return NewEngineBuilder().
		WithConfig(cfg).
		Build()
}
