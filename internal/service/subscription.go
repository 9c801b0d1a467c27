package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealloop/backend/internal/models"
)

type SubscriptionService struct {
	db        *gorm.DB
	relations pairRelation[models.Subscription]
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{
		db: db,
		relations: pairRelation[models.Subscription]{
			db:             db,
			addConflict:    "already subscribed to this author",
			removeConflict: "you are not subscribed to this author",
		},
	}
}

func (s *SubscriptionService) getUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Subscribe adds a follower/author relation. Self-subscription is rejected
// regardless of current state.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, authorID uuid.UUID) (*models.User, error) {
	author, err := s.getUser(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if userID == authorID {
		return nil, NewValidationError("cannot subscribe to yourself")
	}
	row := models.Subscription{UserID: userID, AuthorID: authorID}
	if err := s.relations.add(ctx, &row, map[string]interface{}{"user_id": userID, "author_id": authorID}); err != nil {
		return nil, err
	}
	return author, nil
}

func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	if _, err := s.getUser(ctx, authorID); err != nil {
		return err
	}
	return s.relations.remove(ctx, map[string]interface{}{"user_id": userID, "author_id": authorID})
}

func (s *SubscriptionService) IsSubscribed(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	return s.relations.exists(ctx, map[string]interface{}{"user_id": userID, "author_id": authorID})
}

// Authors lists the users the given user follows, newest subscription first.
func (s *SubscriptionService) Authors(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.User, error) {
	query := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID).
		Order("subscriptions.created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	var authors []models.User
	if err := query.Find(&authors).Error; err != nil {
		return nil, err
	}
	return authors, nil
}
