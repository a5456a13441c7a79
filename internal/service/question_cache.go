package service

import (
	"context"
	"encoding/json"
	"time"

	"mind-maze/internal/cache"
	"mind-maze/internal/domain"
	"mind-maze/internal/logger"

	"go.uber.org/zap"
)

// questionCacheTTL bounds staleness after a quiz deletion races a fill.
// Questions are immutable once generated, so a long TTL is safe.
const questionCacheTTL = 6 * time.Hour

// QuestionCache serves a quiz's question list through the cache, falling
// back to the repository on a miss. Cache failures degrade to repository
// reads; they never fail the request.
type QuestionCache struct {
	questionRepo domain.QuestionRepository
	cache        domain.Cache
}

// NewQuestionCache creates a QuestionCache.
func NewQuestionCache(questionRepo domain.QuestionRepository, c domain.Cache) *QuestionCache {
	return &QuestionCache{questionRepo: questionRepo, cache: c}
}

func questionsCacheKey(quizID string) string {
	return cache.GenerateCacheKey("quiz", "questions", quizID)
}

// GetQuestions returns the quiz's questions, preferring the cache.
func (c *QuestionCache) GetQuestions(ctx context.Context, quizID string) ([]*domain.Question, error) {
	l := logger.Get()
	key := questionsCacheKey(quizID)

	cached, err := c.cache.Get(ctx, key)
	if err == nil {
		var questions []*domain.Question
		if errUnmarshal := json.Unmarshal([]byte(cached), &questions); errUnmarshal == nil {
			return questions, nil
		}
		// Corrupt entry: drop it and fall through to the repository.
		l.Warn("Dropping corrupt question cache entry", zap.String("key", key))
		_ = c.cache.Delete(ctx, key)
	} else if err != domain.ErrCacheMiss {
		l.Warn("Question cache read failed", zap.String("key", key), zap.Error(err))
	}

	questions, err := c.questionRepo.ListQuestionsByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if payload, errMarshal := json.Marshal(questions); errMarshal == nil {
		if errSet := c.cache.Set(ctx, key, string(payload), questionCacheTTL); errSet != nil {
			l.Warn("Question cache write failed", zap.String("key", key), zap.Error(errSet))
		}
	}
	return questions, nil
}

// GetQuestion looks up a single question by id, bypassing the cache.
// Returns (nil, nil) when absent.
func (c *QuestionCache) GetQuestion(ctx context.Context, id string) (*domain.Question, error) {
	return c.questionRepo.GetQuestionByID(ctx, id)
}

// Invalidate removes the cached question list for the quiz.
func (c *QuestionCache) Invalidate(ctx context.Context, quizID string) {
	if err := c.cache.Delete(ctx, questionsCacheKey(quizID)); err != nil {
		logger.Get().Warn("Question cache invalidation failed",
			zap.String("quiz_id", quizID), zap.Error(err))
	}
}
