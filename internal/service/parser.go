// Package service orchestrates a parse call end to end: relevance check,
// preprocessing, the generative call, postprocessing, persistence and the
// change notification.
package service

import (
	"context"
	"errors"

	"raid-parser/internal/events"
	"raid-parser/internal/models"
	"raid-parser/internal/postprocess"
	"raid-parser/internal/preprocess"
	"raid-parser/internal/prompt"
	"raid-parser/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LLMClient is the generative-model surface the parser needs. The concrete
// implementation is the multi-provider client in internal/llm.
type LLMClient interface {
	GenerateDraft(ctx context.Context, system, userPrompt string) (*models.DraftResult, error)
	Validate(ctx context.Context, question string) bool
	Close() error
}

// Parser is the message-to-structured-record pipeline. Repo and publisher
// are optional: a nil repo skips persistence, a nil publisher skips the
// change notification.
type Parser struct {
	llm       LLMClient
	repo      *repository.RaidRepository
	publisher *events.Publisher
	logger    *zap.Logger
}

// NewParser creates the parser service.
func NewParser(llm LLMClient, repo *repository.RaidRepository, publisher *events.Publisher, logger *zap.Logger) *Parser {
	return &Parser{
		llm:       llm,
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Validate answers the lightweight "is this raid-related?" question. It
// never fails; provider errors degrade to false.
func (p *Parser) Validate(ctx context.Context, message string) bool {
	return p.llm.Validate(ctx, prompt.ValidationPrompt(message))
}

// Parse turns one chat message into a ParsedRaidRecord.
//
// Control flow: relevance short-circuit → preprocessor pipeline → prompt →
// generative call → postprocessor pipeline. A message judged not relevant
// returns ErrNotRaidRelated (wrapped in a ParseError with confidence 0)
// before the full-parse completion is ever issued.
func (p *Parser) Parse(ctx context.Context, message string, mctx *models.MessageContext) (*models.ParsedRaidRecord, error) {
	if !p.Validate(ctx, message) {
		return nil, &models.ParseError{
			Message:    message,
			Confidence: 0,
			Err:        models.ErrNotRaidRelated,
		}
	}

	pre := preprocess.Process(message)
	p.logger.Debug("Message preprocessed",
		zap.Int("slots", pre.Metadata.SlotCount),
		zap.Int("roles", pre.Metadata.RoleCount),
		zap.Int("requirements", pre.Metadata.RequirementCount),
		zap.String("time", pre.ExtractedTime))

	res, err := p.llm.GenerateDraft(ctx, prompt.SystemInstruction, prompt.Build(pre))
	if err != nil {
		var parseErr *models.ParseError
		if errors.As(err, &parseErr) {
			parseErr.Message = message
			return nil, parseErr
		}
		return nil, err
	}

	record, err := postprocess.Process(pre, res.Draft, res.Raw, p.logger)
	if err != nil {
		return nil, err
	}

	record.ID = uuid.New().String()
	record.Provider = res.Provider
	record.ModelVersion = res.ModelVersion

	if p.repo != nil {
		if err := p.repo.Save(record); err != nil {
			p.logger.Error("Failed to save parsed raid", zap.Error(err))
		}
	}
	if p.publisher != nil {
		serverID := ""
		if mctx != nil {
			serverID = mctx.GuildID
		}
		if err := p.publisher.PublishRaidCreated(record, serverID); err != nil {
			p.logger.Error("Failed to publish raid.created", zap.Error(err))
		}
	}

	p.logger.Info("Message parsed",
		zap.String("id", record.ID),
		zap.String("title", record.Title),
		zap.String("content_type", record.ContentType),
		zap.Float64("confidence", record.Confidence))

	return record, nil
}

// Raids returns recently parsed records.
func (p *Parser) Raids(limit int) ([]*models.ParsedRaidRecord, error) {
	if p.repo == nil {
		return nil, nil
	}
	return p.repo.Recent(limit)
}

// Stats returns per-content-type parse counts.
func (p *Parser) Stats() (map[string]interface{}, error) {
	if p.repo == nil {
		return map[string]interface{}{}, nil
	}
	return p.repo.Stats()
}
