package usage

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/killallgit/transcriptflow-api/internal/models"
)

// Caller identifies who is consuming quota. An empty UserID is an anonymous
// caller counted by ClientKey (the client IP).
type Caller struct {
	UserID    string
	ClientKey string
}

// Anonymous reports whether the caller is unauthenticated
func (c Caller) Anonymous() bool {
	return c.UserID == ""
}

// RateLimitResult is the outcome of a quota check
type RateLimitResult struct {
	Allowed   bool                    `json:"allowed"`
	Remaining int                     `json:"remaining"`
	Limit     int                     `json:"limit"`
	Unlimited bool                    `json:"unlimited"`
	ResetAt   time.Time               `json:"resetAt"`
	Tier      models.SubscriptionTier `json:"tier"`
}

// Stats summarizes a user's consumption and policy
type Stats struct {
	Tier                    models.SubscriptionTier `json:"tier"`
	VideosToday             int                     `json:"videosToday"`
	VideosThisMonth         int                     `json:"videosThisMonth"`
	ChannelExtractionsToday int                     `json:"channelExtractionsToday"`
	DailyLimit              int                     `json:"dailyLimit"`
	Remaining               int                     `json:"remaining"`
	Unlimited               bool                    `json:"unlimited"`
	ResetAt                 time.Time               `json:"resetAt"`
	Limits                  TierLimits              `json:"limits"`
}

// Service defines quota enforcement and usage accounting
type Service interface {
	CheckRateLimit(ctx context.Context, caller Caller, action models.ActionType) (*RateLimitResult, error)
	TrackUsage(ctx context.Context, caller Caller, action models.ActionType, videoCount int)
	GetUsageStats(ctx context.Context, userID string) (*Stats, error)
	GetUserTier(ctx context.Context, userID string) (TierLimits, error)
	ChannelLimit(requested int, tier TierLimits) int
}

// Option configures the service
type Option func(*service)

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// WithChannelLimits overrides the default and maximum channel job sizes
func WithChannelLimits(limits ChannelLimits) Option {
	return func(s *service) {
		if limits.Default > 0 {
			s.channelLimits.Default = limits.Default
		}
		if limits.Max > 0 && limits.Max <= MaxChannelVideos {
			s.channelLimits.Max = limits.Max
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

type service struct {
	repo          Repository
	now           func() time.Time
	channelLimits ChannelLimits
	logger        *slog.Logger

	anonMu sync.Mutex
	anon   map[string]anonymousUsage
}

type anonymousUsage struct {
	day   time.Time
	count int
}

// NewService creates the usage service
func NewService(repo Repository, opts ...Option) Service {
	s := &service{
		repo:          repo,
		now:           time.Now,
		channelLimits: DefaultChannelLimits,
		logger:        slog.Default(),
		anon:          make(map[string]anonymousUsage),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func nextMidnight(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1)
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func (s *service) GetUserTier(ctx context.Context, userID string) (TierLimits, error) {
	if userID == "" {
		return Tiers[models.TierFree], nil
	}
	sub, err := s.repo.GetSubscription(ctx, userID)
	if errors.Is(err, ErrNoSubscription) {
		return Tiers[models.TierFree], nil
	}
	if err != nil {
		return TierLimits{}, err
	}
	if !sub.IsActive() {
		return Tiers[models.TierFree], nil
	}
	return LimitsFor(sub.Tier), nil
}

func (s *service) CheckRateLimit(ctx context.Context, caller Caller, action models.ActionType) (*RateLimitResult, error) {
	now := s.now()
	resetAt := nextMidnight(now)

	if caller.Anonymous() {
		return s.checkAnonymous(now, caller.ClientKey, action), nil
	}

	limits, err := s.GetUserTier(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	result := &RateLimitResult{
		ResetAt: resetAt,
		Tier:    limits.Tier,
		Limit:   limits.DailyLimit,
	}

	if action == models.ActionChannelExtraction && !limits.ChannelExtraction {
		return result, nil
	}

	if limits.Unlimited() {
		result.Allowed = true
		result.Unlimited = true
		result.Remaining = -1
		return result, nil
	}

	used, err := s.repo.SumVideoCount(ctx, caller.UserID, startOfDay(now), nil)
	if err != nil {
		return nil, err
	}

	result.Allowed = used < limits.DailyLimit
	result.Remaining = max(0, limits.DailyLimit-used)
	return result, nil
}

func (s *service) checkAnonymous(now time.Time, clientKey string, action models.ActionType) *RateLimitResult {
	result := &RateLimitResult{
		ResetAt: nextMidnight(now),
		Tier:    models.TierFree,
		Limit:   AnonymousDailyLimit,
	}
	if action == models.ActionChannelExtraction {
		return result
	}

	used := s.anonymousCount(now, clientKey)
	result.Allowed = used < AnonymousDailyLimit
	result.Remaining = max(0, AnonymousDailyLimit-used)
	return result
}

func (s *service) anonymousCount(now time.Time, clientKey string) int {
	s.anonMu.Lock()
	defer s.anonMu.Unlock()

	entry, ok := s.anon[clientKey]
	if !ok || !entry.day.Equal(startOfDay(now)) {
		return 0
	}
	return entry.count
}

func (s *service) TrackUsage(ctx context.Context, caller Caller, action models.ActionType, videoCount int) {
	if videoCount <= 0 {
		videoCount = 1
	}
	now := s.now()

	if caller.Anonymous() {
		s.trackAnonymous(now, caller.ClientKey, videoCount)
		return
	}

	record := &models.UsageRecord{
		UserID:     caller.UserID,
		ActionType: action,
		VideoCount: videoCount,
		CreatedAt:  now.UTC(),
	}
	if err := s.repo.CreateRecord(ctx, record); err != nil {
		s.logger.Error("failed to track usage",
			"user_id", caller.UserID, "action", action, "video_count", videoCount, "error", err)
	}
}

func (s *service) trackAnonymous(now time.Time, clientKey string, videoCount int) {
	day := startOfDay(now)

	s.anonMu.Lock()
	defer s.anonMu.Unlock()

	// drop counters from previous days while holding the lock
	for key, entry := range s.anon {
		if !entry.day.Equal(day) {
			delete(s.anon, key)
		}
	}
	entry := s.anon[clientKey]
	entry.day = day
	entry.count += videoCount
	s.anon[clientKey] = entry
}

func (s *service) GetUsageStats(ctx context.Context, userID string) (*Stats, error) {
	limits, err := s.GetUserTier(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	stats := &Stats{
		Tier:       limits.Tier,
		DailyLimit: limits.DailyLimit,
		Unlimited:  limits.Unlimited(),
		ResetAt:    nextMidnight(now),
		Limits:     limits,
	}
	if userID == "" {
		stats.Remaining = limits.DailyLimit
		return stats, nil
	}

	if stats.VideosToday, err = s.repo.SumVideoCount(ctx, userID, startOfDay(now), nil); err != nil {
		return nil, err
	}
	if stats.VideosThisMonth, err = s.repo.SumVideoCount(ctx, userID, startOfMonth(now), nil); err != nil {
		return nil, err
	}
	if stats.ChannelExtractionsToday, err = s.repo.CountRecords(ctx, userID, startOfDay(now), models.ActionChannelExtraction); err != nil {
		return nil, err
	}

	if stats.Unlimited {
		stats.Remaining = -1
	} else {
		stats.Remaining = max(0, limits.DailyLimit-stats.VideosToday)
	}
	return stats, nil
}

func (s *service) ChannelLimit(requested int, tier TierLimits) int {
	return s.channelLimits.Effective(requested, tier)
}
