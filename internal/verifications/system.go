package verifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/vigiapix/vigia/pkg/pagination"
)

// System defines the public contract for verification domain operations.
// Every operation is scoped to the authenticated user.
type System interface {
	Handler() *Handler

	Analyze(ctx context.Context, userID string, cmd AnalyzeCommand) (*AnalyzeResult, error)
	Save(ctx context.Context, userID string, cmd SaveCommand) (*Verification, error)

	List(
		ctx context.Context,
		userID string,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Verification], error)

	Find(ctx context.Context, userID string, id uuid.UUID) (*Verification, error)
}
