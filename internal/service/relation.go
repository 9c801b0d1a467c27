package service

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// pairRelation guards a binary existence relation between two rows: a
// favorite, a cart entry or a subscription. Add and Remove are the only
// transitions and each enforces the current-state precondition. A race
// between two concurrent Adds is settled by the store's unique constraint;
// the loser gets the same conflict message as a plain duplicate add.
type pairRelation[T any] struct {
	db             *gorm.DB
	addConflict    string
	removeConflict string
}

func (r pairRelation[T]) exists(ctx context.Context, cond map[string]interface{}) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(new(T)).Where(cond).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r pairRelation[T]) add(ctx context.Context, row *T, cond map[string]interface{}) error {
	present, err := r.exists(ctx, cond)
	if err != nil {
		return err
	}
	if present {
		return NewValidationError(r.addConflict)
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return NewValidationError(r.addConflict)
		}
		return err
	}
	return nil
}

func (r pairRelation[T]) remove(ctx context.Context, cond map[string]interface{}) error {
	result := r.db.WithContext(ctx).Where(cond).Delete(new(T))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NewValidationError(r.removeConflict)
	}
	return nil
}
