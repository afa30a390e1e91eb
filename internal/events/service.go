package events

import (
	"context"
	"fmt"
	"time"

	"seatify/pkg/cache"
)

// Service interface defines the contract for event read operations.
// Event creation and editing belong to the external event-management
// system; this service only exposes the read side the booking and
// attendance flows depend on.
type Service interface {
	GetEvent(ctx context.Context, id uint) (*EventResponse, error)
	ListEvents(ctx context.Context, query EventListQuery) ([]EventResponse, int64, error)
}

type service struct {
	repo  Repository
	cache cache.Service
}

// NewService creates a new event service. The cache is optional; a nil
// cache disables the read-through path.
func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{repo: repo, cache: cacheService}
}

const eventCacheTTL = 30 * time.Second

func (s *service) GetEvent(ctx context.Context, id uint) (*EventResponse, error) {
	if s.cache == nil {
		event, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		resp := event.ToResponse()
		return &resp, nil
	}

	// Short TTL: status is advanced by the scheduler, and admission
	// control never trusts this cached view anyway.
	var resp EventResponse
	key := fmt.Sprintf("seatify:event:%d", id)
	err := s.cache.GetOrSet(ctx, key, eventCacheTTL, func() (interface{}, error) {
		event, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return event.ToResponse(), nil
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *service) ListEvents(ctx context.Context, query EventListQuery) ([]EventResponse, int64, error) {
	events, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, events[i].ToResponse())
	}
	return responses, total, nil
}
