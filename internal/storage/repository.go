package storage

import (
	"github.com/gatherhub/server/internal/domain/events"
	"github.com/gatherhub/server/internal/domain/users"
)

// Repository groups data access by domain. Transactional scope lives on the
// domain repositories themselves (events.Repository.WithTx).
type Repository interface {
	Events() events.Repository
	Users() users.Repository
}
