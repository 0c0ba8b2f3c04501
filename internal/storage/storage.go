package storage

import "positionScope/internal/model"

// Storage defines a sink for position views.
type Storage interface {
	PutPositionBatch(positions []model.PositionView) error
}
