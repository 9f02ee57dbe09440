package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"platformBack/internal/clock"
	"platformBack/internal/fsm"
	"platformBack/internal/models"
)

// ModerationService handles content flags and user bans.
type ModerationService struct {
	Flags    FlagStore
	Bans     BanStore
	Clock    clock.Clock
	Notifier ModerationNotifier
}

func NewModerationService(flags FlagStore, bans BanStore, clk clock.Clock, notifier ModerationNotifier) *ModerationService {
	return &ModerationService{Flags: flags, Bans: bans, Clock: clk, Notifier: notifier}
}

func (s *ModerationService) notify(eventType string, payload any) {
	if s.Notifier != nil {
		s.Notifier.Notify(eventType, payload)
	}
}

// FlagContent records a PENDING report against a piece of content.
func (s *ModerationService) FlagContent(ctx context.Context, contentID, contentType, reportedBy, reason string) (models.ContentFlag, error) {
	required := []struct{ name, value string }{
		{"content_id", contentID},
		{"content_type", contentType},
		{"reported_by", reportedBy},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return models.ContentFlag{}, models.MissingField(f.name)
		}
	}

	flag := models.ContentFlag{
		ID:          uuid.NewString(),
		ContentID:   strings.TrimSpace(contentID),
		ContentType: strings.TrimSpace(contentType),
		ReportedBy:  strings.TrimSpace(reportedBy),
		Reason:      reason,
		Status:      models.FlagStatusPending,
		CreatedAt:   s.Clock.Now(),
	}
	if err := s.Flags.Create(ctx, flag); err != nil {
		return models.ContentFlag{}, err
	}
	s.notify(EventFlagCreated, flag)
	return flag, nil
}

func (s *ModerationService) GetFlag(ctx context.Context, flagID string) (models.ContentFlag, error) {
	return s.Flags.GetByID(ctx, flagID)
}

// GetPendingFlags returns the moderation queue, oldest first.
func (s *ModerationService) GetPendingFlags(ctx context.Context) ([]models.ContentFlag, error) {
	flags, err := s.Flags.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	if flags == nil {
		flags = []models.ContentFlag{}
	}
	return flags, nil
}

func (s *ModerationService) CountPendingFlags(ctx context.Context) (int, error) {
	return s.Flags.CountPending(ctx)
}

// ReviewFlag moves a PENDING flag into decision. A flag is reviewed once; a
// replay by the same moderator with the same decision returns the stored flag.
func (s *ModerationService) ReviewFlag(ctx context.Context, flagID, moderatorID string, decision models.Decision, notes string) (models.ContentFlag, error) {
	moderatorID = strings.TrimSpace(moderatorID)
	if moderatorID == "" {
		return models.ContentFlag{}, models.MissingField("moderator_id")
	}
	decision, err := models.ParseDecision(string(decision))
	if err != nil {
		return models.ContentFlag{}, err
	}

	flag, err := s.Flags.GetByID(ctx, flagID)
	if err != nil {
		return models.ContentFlag{}, err
	}
	if !flag.IsPending() {
		return reviewReplay(flag, moderatorID, decision)
	}
	if err := fsm.Flag.Check(string(flag.Status), string(decision)); err != nil {
		return models.ContentFlag{}, fmt.Errorf("%w: %v", models.ErrConflict, err)
	}

	now := s.Clock.Now()
	updated, err := s.Flags.Review(ctx, flagID, decision, moderatorID, notes, now)
	if err != nil {
		return models.ContentFlag{}, err
	}
	if !updated {
		current, err := s.Flags.GetByID(ctx, flagID)
		if err != nil {
			return models.ContentFlag{}, err
		}
		return reviewReplay(current, moderatorID, decision)
	}

	flag.Status = models.FlagStatus(decision)
	flag.ModeratorID = &moderatorID
	flag.ModeratorNotes = &notes
	flag.ReviewedAt = &now
	s.notify(EventFlagReviewed, flag)
	return flag, nil
}

func reviewReplay(flag models.ContentFlag, moderatorID string, decision models.Decision) (models.ContentFlag, error) {
	if flag.Status == models.FlagStatus(decision) && flag.ModeratorID != nil && *flag.ModeratorID == moderatorID {
		return flag, nil
	}
	return models.ContentFlag{}, models.ErrFlagAlreadyReviewed
}

// BanUser bans userID from now until now + duration.
func (s *ModerationService) BanUser(ctx context.Context, userID, reason string, duration models.BanDuration) (models.UserBan, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.UserBan{}, models.MissingField("user_id")
	}
	if duration.Days() <= 0 {
		return models.UserBan{}, models.ErrInvalidDuration
	}

	now := s.Clock.Now()
	ban := models.UserBan{
		ID:          uuid.NewString(),
		UserID:      userID,
		Reason:      reason,
		BannedUntil: now.Add(duration.Duration()),
		CreatedAt:   now,
	}
	if err := s.Bans.Create(ctx, ban); err != nil {
		return models.UserBan{}, err
	}
	s.notify(EventUserBanned, ban)
	return ban, nil
}

func (s *ModerationService) GetUserBans(ctx context.Context, userID string) ([]models.UserBan, error) {
	bans, err := s.Bans.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if bans == nil {
		bans = []models.UserBan{}
	}
	return bans, nil
}
