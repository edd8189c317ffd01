package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eventhub/storefront/internal/core/domain"
	"github.com/eventhub/storefront/internal/core/ports"
)

type ContactService struct {
	repo   ports.ContactRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewContactService(repo ports.ContactRepository, logger zerolog.Logger) *ContactService {
	return &ContactService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *ContactService) Submit(ctx context.Context, in ports.ContactInput) (*domain.ContactMessage, error) {
	m := &domain.ContactMessage{
		ID:        uuid.NewString(),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
		Message:   strings.TrimSpace(in.Message),
		Timestamp: s.now(),
	}
	if m.Email == "" || m.Message == "" {
		return nil, domain.ErrContactIncomplete
	}
	if err := s.repo.Create(ctx, m); err != nil {
		s.logger.Error().Err(err).Str("email", m.Email).Msg("failed to store contact message")
		return nil, fmt.Errorf("submit contact: %w", err)
	}
	s.logger.Info().Str("contact_id", m.ID).Msg("contact message received")
	return m, nil
}

func (s *ContactService) List(ctx context.Context, search string) ([]domain.ContactMessage, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list contact messages")
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return all, nil
	}

	out := make([]domain.ContactMessage, 0, len(all))
	for _, m := range all {
		haystack := strings.ToLower(strings.Join([]string{m.FirstName, m.LastName, m.Email, m.Message}, " "))
		if strings.Contains(haystack, q) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrContactNotFound) {
			return err
		}
		s.logger.Error().Err(err).Str("contact_id", id).Msg("failed to delete contact message")
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}
