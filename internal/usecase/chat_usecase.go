package usecase

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"matchchat/internal/domain/entity"
	"matchchat/internal/domain/repository"
	"matchchat/internal/infrastructure/metrics"
	"matchchat/internal/infrastructure/ratelimit"
	"matchchat/pkg/errors"
	"matchchat/pkg/logger"
)

// ChatUseCase is the match channel service. Every call re-checks that the
// match is live and that the caller plays in it.
type ChatUseCase struct {
	messageRepo  repository.MessageRepository
	matchRepo    repository.MatchRepository
	userRepo     repository.UserRepository
	eligibility  *EligibilityUseCase
	reaper       *ReaperUseCase
	limiter      ratelimit.Limiter
	clock        clock.Clock
	messageTTL   time.Duration
	pollInterval time.Duration
	timeout      time.Duration
}

type ChatConfig struct {
	MessageTTL      time.Duration
	PollInterval    time.Duration
	MetadataTimeout time.Duration
}

func NewChatUseCase(
	messageRepo repository.MessageRepository,
	matchRepo repository.MatchRepository,
	userRepo repository.UserRepository,
	eligibility *EligibilityUseCase,
	reaper *ReaperUseCase,
	limiter ratelimit.Limiter,
	clk clock.Clock,
	cfg ChatConfig,
) *ChatUseCase {
	return &ChatUseCase{
		messageRepo:  messageRepo,
		matchRepo:    matchRepo,
		userRepo:     userRepo,
		eligibility:  eligibility,
		reaper:       reaper,
		limiter:      limiter,
		clock:        clk,
		messageTTL:   cfg.MessageTTL,
		pollInterval: cfg.PollInterval,
		timeout:      cfg.MetadataTimeout,
	}
}

type PostMessageInput struct {
	MatchID      int64
	TournamentID int64
	UserID       int64
	Body         string
}

type FetchMessagesInput struct {
	MatchID      int64
	TournamentID int64
	UserID       int64
	Cursor       entity.Cursor
}

// MessageView is a message as delivered to chat clients.
type MessageView struct {
	ID           int64       `json:"id"`
	MatchID      int64       `json:"match_id"`
	TournamentID int64       `json:"tournament_id"`
	SenderID     int64       `json:"sender_id"`
	SenderName   string      `json:"sender_name"`
	Side         entity.Side `json:"side"`
	Body         string      `json:"body"`
	CreatedAt    int64       `json:"created_at"`
	ExpiresAt    int64       `json:"expires_at"`
}

type FetchResult struct {
	Messages []*MessageView `json:"messages"`
	Side     entity.Side    `json:"side"`
	UserID   int64          `json:"user_id"`
}

// ChannelInfo tells a tournament page which match chat to show.
type ChannelInfo struct {
	MatchID        int64       `json:"match_id"`
	TournamentID   int64       `json:"tournament_id"`
	Active         bool        `json:"active"`
	StartsAt       int64       `json:"starts_at"`
	Side           entity.Side `json:"side"`
	UserID         int64       `json:"user_id"`
	PollIntervalMs int64       `json:"poll_interval_ms"`
	MaxLength      int         `json:"max_length"`
	Notice         string      `json:"notice,omitempty"`
}

const chatOpensNotice = "Match chat opens when the match starts."

func (uc *ChatUseCase) Post(ctx context.Context, input PostMessageInput) (*MessageView, error) {
	view, err := uc.post(ctx, input)
	if err != nil {
		metrics.Rejected("post", errors.CodeOf(err))
		return nil, err
	}
	metrics.MessagesPostedTotal.Inc()
	return view, nil
}

func (uc *ChatUseCase) post(ctx context.Context, input PostMessageInput) (*MessageView, error) {
	if input.UserID <= 0 {
		return nil, errors.Unauthenticated()
	}

	body := SanitizeBody(input.Body)
	if body == "" {
		return nil, errors.EmptyMessage()
	}
	body = TruncateBody(body)

	tournamentID, err := uc.matchTournament(ctx, input.MatchID, input.TournamentID)
	if err != nil {
		return nil, err
	}

	if err := uc.requireActive(ctx, input.MatchID); err != nil {
		return nil, err
	}

	side := uc.eligibility.Resolve(ctx, input.MatchID, input.UserID)
	if !side.CanChat() {
		return nil, errors.NotAParticipant()
	}

	if !uc.limiter.Allow(ctx, input.MatchID, input.UserID) {
		return nil, errors.RateLimited()
	}

	message := &entity.Message{
		MatchID:      input.MatchID,
		TournamentID: tournamentID,
		SenderID:     input.UserID,
		Side:         side,
		Body:         body,
	}
	if err := uc.messageRepo.Append(ctx, message, uc.messageTTL); err != nil {
		logger.LogStoreError("append", input.MatchID, err)
		return nil, errors.StoreFailure("Could not save message", err)
	}

	names := uc.displayNames(ctx, []*entity.Message{message})
	return toView(message, names), nil
}

func (uc *ChatUseCase) Fetch(ctx context.Context, input FetchMessagesInput) (*FetchResult, error) {
	result, err := uc.fetch(ctx, input)
	if err != nil {
		metrics.Rejected("fetch", errors.CodeOf(err))
		return nil, err
	}
	return result, nil
}

func (uc *ChatUseCase) fetch(ctx context.Context, input FetchMessagesInput) (*FetchResult, error) {
	if input.UserID <= 0 {
		return nil, errors.Unauthenticated()
	}

	if _, err := uc.matchTournament(ctx, input.MatchID, input.TournamentID); err != nil {
		return nil, err
	}

	if err := uc.requireActive(ctx, input.MatchID); err != nil {
		return nil, err
	}

	side := uc.eligibility.Resolve(ctx, input.MatchID, input.UserID)
	if !side.CanChat() {
		return nil, errors.NotAParticipant()
	}

	messages, err := uc.messageRepo.FetchSince(ctx, input.MatchID, input.Cursor, repository.DefaultFetchLimit)
	if err != nil {
		logger.LogStoreError("fetch", input.MatchID, err)
		return nil, errors.StoreFailure("Could not load messages", err)
	}

	names := uc.displayNames(ctx, messages)
	views := make([]*MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, toView(m, names))
	}

	return &FetchResult{
		Messages: views,
		Side:     side,
		UserID:   input.UserID,
	}, nil
}

// requireActive fails with MatchInactive unless the match is live. A match
// known to be over or not started has its channel purged on the spot; a
// failed lookup only denies the request.
func (uc *ChatUseCase) requireActive(ctx context.Context, matchID int64) error {
	active, err := uc.eligibility.checkActive(ctx, matchID)
	if err != nil {
		logger.Warn("Activity lookup failed for match %d: %v", matchID, err)
		return errors.MatchInactive()
	}
	if !active {
		uc.reaper.PurgeInactive(ctx, matchID)
		return errors.MatchInactive()
	}
	return nil
}

// Channel picks the match chat to show on a tournament page: the live match
// that started last, or failing that the latest scheduled one, which is
// reported inactive. Only participants get an answer.
func (uc *ChatUseCase) Channel(ctx context.Context, tournamentID, userID int64) (*ChannelInfo, error) {
	if userID <= 0 {
		return nil, errors.Unauthenticated()
	}
	if tournamentID <= 0 {
		return nil, errors.BadRequest("Invalid tournament ID", nil)
	}

	lookupCtx, cancel := uc.eligibility.lookupContext(ctx)
	matchIDs, err := uc.matchRepo.ListByTournament(lookupCtx, tournamentID)
	cancel()
	if err != nil {
		logger.Warn("Listing matches of tournament %d failed: %v", tournamentID, err)
		return nil, errors.NotFound("Match chat", err)
	}

	now := uc.clock.Now()
	var live, scheduled candidate
	for _, id := range matchIDs {
		start, err := uc.startTime(ctx, id)
		if err != nil || start.IsZero() || start.Unix() <= 0 {
			continue
		}
		scheduled.consider(id, start)
		if startedBy(start, now) && uc.eligibility.IsActive(ctx, id) {
			live.consider(id, start)
		}
	}

	chosen, active := live, true
	if chosen.id == 0 {
		chosen, active = scheduled, false
	}
	if chosen.id == 0 {
		return nil, errors.NotFound("Match chat", nil)
	}

	side := uc.eligibility.Resolve(ctx, chosen.id, userID)
	if !side.CanChat() {
		return nil, errors.NotFound("Match chat", nil)
	}

	info := &ChannelInfo{
		MatchID:        chosen.id,
		TournamentID:   tournamentID,
		Active:         active,
		StartsAt:       chosen.start.Unix(),
		Side:           side,
		UserID:         userID,
		PollIntervalMs: uc.pollInterval.Milliseconds(),
		MaxLength:      MaxMessageLength,
	}
	if !active {
		info.Notice = chatOpensNotice
	}
	return info, nil
}

type candidate struct {
	id    int64
	start time.Time
}

// consider keeps the latest start; equal starts go to the higher match id.
func (c *candidate) consider(id int64, start time.Time) {
	if c.id == 0 || start.After(c.start) || (start.Equal(c.start) && id > c.id) {
		c.id = id
		c.start = start
	}
}

func (uc *ChatUseCase) startTime(ctx context.Context, matchID int64) (time.Time, error) {
	ctx, cancel := uc.eligibility.lookupContext(ctx)
	defer cancel()
	return uc.matchRepo.GetStartTime(ctx, matchID)
}

// matchTournament checks that the match exists and belongs to the given
// tournament. A zero tournament id is filled in from metadata.
func (uc *ChatUseCase) matchTournament(ctx context.Context, matchID, tournamentID int64) (int64, error) {
	if matchID <= 0 {
		return 0, errors.InvalidMatch("Invalid match", nil)
	}

	lookupCtx, cancel := uc.eligibility.lookupContext(ctx)
	defer cancel()

	known, err := uc.matchRepo.GetTournamentID(lookupCtx, matchID)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return 0, errors.InvalidMatch("Unknown match", err)
		}
		logger.Warn("Tournament lookup failed for match %d: %v", matchID, err)
		return 0, errors.MatchInactive()
	}

	if tournamentID > 0 && known > 0 && tournamentID != known {
		return 0, errors.InvalidMatch("Match does not belong to this tournament", nil)
	}
	if tournamentID <= 0 {
		tournamentID = known
	}
	return tournamentID, nil
}

func (uc *ChatUseCase) displayNames(ctx context.Context, messages []*entity.Message) map[int64]string {
	names := make(map[int64]string)
	for _, m := range messages {
		if _, ok := names[m.SenderID]; ok {
			continue
		}
		names[m.SenderID] = uc.displayName(ctx, m.SenderID)
	}
	return names
}

func (uc *ChatUseCase) displayName(ctx context.Context, userID int64) string {
	ctx, cancel := uc.eligibility.lookupContext(ctx)
	defer cancel()

	name, err := uc.userRepo.GetDisplayName(ctx, userID)
	if err != nil || name == "" {
		return entity.UnknownDisplayName
	}
	return name
}

func toView(m *entity.Message, names map[int64]string) *MessageView {
	return &MessageView{
		ID:           m.ID,
		MatchID:      m.MatchID,
		TournamentID: m.TournamentID,
		SenderID:     m.SenderID,
		SenderName:   names[m.SenderID],
		Side:         m.Side,
		Body:         m.Body,
		CreatedAt:    m.CreatedAt.Unix(),
		ExpiresAt:    m.ExpiresAt.Unix(),
	}
}
