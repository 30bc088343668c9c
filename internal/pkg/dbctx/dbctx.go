package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context carries a request context together with the GORM transaction
// (when the caller runs inside one) so repos can join an ongoing write.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}
