package services

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"club-ticketing/models"
)

type clubLister interface {
	GetActive() ([]*models.Club, error)
}

// ClubSelectionService keeps one active club per principal, durable across
// restarts. The persisted id is only honored while it still names a club in
// the freshly loaded list; otherwise the first club takes over and the
// choice is re-persisted.
type ClubSelectionService struct {
	clubs clubLister
	redis *redis.Client
}

func NewClubSelectionService(clubs clubLister, redisClient *redis.Client) *ClubSelectionService {
	return &ClubSelectionService{clubs: clubs, redis: redisClient}
}

func selectionKey(userID string) string {
	return fmt.Sprintf("club:selected:%s", userID)
}

func (s *ClubSelectionService) Resolve(ctx context.Context, userID string) (*models.Club, error) {
	clubs, err := s.clubs.GetActive()
	if err != nil {
		return nil, err
	}
	if len(clubs) == 0 {
		return nil, ErrNoClubs
	}

	saved, err := s.redis.Get(ctx, selectionKey(userID)).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}

	if saved != "" {
		for _, club := range clubs {
			if club.ID == saved {
				return club, nil
			}
		}
	}

	// Saved id missing or stale: adopt the first club and persist it.
	first := clubs[0]
	if err := s.redis.Set(ctx, selectionKey(userID), first.ID, 0).Err(); err != nil {
		log.Printf("Error persisting club selection for %s: %v", userID, err)
	}
	return first, nil
}

// Select persists a new choice. Unlike the upstream behavior this validates
// membership in the current club list before persisting.
func (s *ClubSelectionService) Select(ctx context.Context, userID, clubID string) (*models.Club, error) {
	clubs, err := s.clubs.GetActive()
	if err != nil {
		return nil, err
	}

	for _, club := range clubs {
		if club.ID == clubID {
			if err := s.redis.Set(ctx, selectionKey(userID), clubID, 0).Err(); err != nil {
				return nil, err
			}
			return club, nil
		}
	}

	return nil, ErrUnknownClub
}

// Clear forgets the persisted selection.
func (s *ClubSelectionService) Clear(ctx context.Context, userID string) error {
	return s.redis.Del(ctx, selectionKey(userID)).Err()
}
