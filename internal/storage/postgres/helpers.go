package postgres

import (
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/gatherhub/server/internal/domain/ids"
)

func uuidString(value pgtype.UUID) string {
	return ids.UUIDToString(value)
}
