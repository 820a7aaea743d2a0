package verifications

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vigiapix/vigia/internal/evidence"
	"github.com/vigiapix/vigia/internal/scoring"
	"github.com/vigiapix/vigia/pkg/pagination"
	"github.com/vigiapix/vigia/pkg/query"
	"github.com/vigiapix/vigia/pkg/repository"
)

// listTimeout bounds history queries. A slow listing degrades to an
// empty page instead of failing the request.
const listTimeout = time.Second

type repo struct {
	db         *sql.DB
	engine     *scoring.Engine
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a verification repository implementing the System interface.
func New(
	db *sql.DB,
	engine *scoring.Engine,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		engine:     engine,
		logger:     logger.With("system", "verifications"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

// Analyze scores a submission and attempts to persist the result. A
// persistence failure does not fail the operation: the assessment is
// preserved in the result with Saved false and the failure message set.
func (r *repo) Analyze(ctx context.Context, userID string, cmd AnalyzeCommand) (*AnalyzeResult, error) {
	b := cmd.Bundle()
	if err := b.Validate(); err != nil {
		return nil, err
	}

	fields := evidence.ExtractFields(b.CombinedText())
	b.Fields = &fields

	assessment := r.engine.Score(ctx, b)
	mergeClientMetadata(&assessment, cmd)

	result := &AnalyzeResult{
		Assessment: assessment,
		Kind:       b.Kind,
	}

	v, err := r.insert(ctx, userID, evidence.MaskBundle(b), assessment)
	if err != nil {
		r.logger.Error("verification save failed, assessment preserved",
			"user_id", userID,
			"kind", b.Kind,
			"error", err,
		)
		result.SaveError = ErrSaveFailed.Error()
		return result, nil
	}

	result.Verification = v
	result.Saved = true

	r.logger.Info("bundle analyzed",
		"id", v.ID,
		"user_id", userID,
		"kind", b.Kind,
		"score", v.Score,
		"risk_level", v.RiskLevel,
	)
	return result, nil
}

// Save persists a previously produced assessment. Score and confidence
// are re-clamped so a tampered retry payload cannot store out-of-range
// values.
func (r *repo) Save(ctx context.Context, userID string, cmd SaveCommand) (*Verification, error) {
	if err := cmd.Bundle.Validate(); err != nil {
		return nil, err
	}

	assessment := cmd.Assessment
	assessment.Score = scoring.ClampScore(float64(assessment.Score))
	assessment.Confidence = scoring.ClampConfidence(assessment.Confidence)
	if assessment.Reasons == nil {
		assessment.Reasons = []string{}
	}
	if assessment.Recommendations == nil {
		assessment.Recommendations = []string{}
	}

	v, err := r.insert(ctx, userID, evidence.MaskBundle(cmd.Bundle), assessment)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	r.logger.Info("verification saved",
		"id", v.ID,
		"user_id", userID,
		"score", v.Score,
	)
	return v, nil
}

func (r *repo) List(
	ctx context.Context,
	userID string,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Verification], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("UserID", userID).
		WhereSearch(page.Search, "RawText", "LinkURL")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	listCtx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	var total int
	var items []Verification

	g, gctx := errgroup.WithContext(listCtx)

	g.Go(func() error {
		countSQL, countArgs := qb.BuildCount()
		return r.db.QueryRowContext(gctx, countSQL, countArgs...).Scan(&total)
	})

	g.Go(func() error {
		pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
		var err error
		items, err = repository.QueryMany(gctx, r.db, pageSQL, pageArgs, scanVerification)
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(listCtx.Err(), context.DeadlineExceeded) {
			r.logger.Warn("listing timed out, returning empty page", "user_id", userID)
			result := pagination.NewPageResult([]Verification{}, 0, page.Page, page.PageSize)
			return &result, nil
		}
		return nil, fmt.Errorf("query verifications: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

// Find returns a verification only when it belongs to the given user.
// Records owned by other users are indistinguishable from missing ones.
func (r *repo) Find(ctx context.Context, userID string, id uuid.UUID) (*Verification, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("ID", id).
		WhereEquals("UserID", userID).
		BuildSingleOrNull()

	v, err := repository.QueryOne(ctx, r.db, q, args, scanVerification)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &v, nil
}

func (r *repo) insert(
	ctx context.Context,
	userID string,
	b evidence.Bundle,
	a scoring.Assessment,
) (*Verification, error) {
	fieldsJSON, err := marshalNullable(b.Fields)
	if err != nil {
		return nil, fmt.Errorf("marshal extracted_fields: %w", err)
	}
	reasonsJSON, err := json.Marshal(a.Reasons)
	if err != nil {
		return nil, fmt.Errorf("marshal reasons: %w", err)
	}
	recommendationsJSON, err := json.Marshal(a.Recommendations)
	if err != nil {
		return nil, fmt.Errorf("marshal recommendations: %w", err)
	}
	metadataJSON, err := marshalNullable(a.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	insertQ := `
		INSERT INTO verifications(
			user_id, kind, raw_text, ocr_text, qr_payload, link_url,
			extracted_fields, score, risk_level, confidence,
			reasons, recommendations, metadata
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, user_id, kind, raw_text, ocr_text, qr_payload, link_url,
				  extracted_fields, score, risk_level, confidence,
				  reasons, recommendations, metadata, created_at`

	insertArgs := []any{
		userID,
		string(b.Kind),
		b.RawText,
		b.OCRText,
		b.QRPayload,
		b.LinkURL,
		fieldsJSON,
		a.Score,
		string(a.Level()),
		a.Confidence,
		reasonsJSON,
		recommendationsJSON,
		metadataJSON,
	}

	v, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Verification, error) {
		return repository.QueryOne(ctx, tx, insertQ, insertArgs, scanVerification)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &v, nil
}

// mergeClientMetadata folds the command's metadata and file reference
// into the assessment metadata. Engine-produced keys always win.
func mergeClientMetadata(a *scoring.Assessment, cmd AnalyzeCommand) {
	if a.Metadata == nil {
		a.Metadata = map[string]any{}
	}
	for k, v := range cmd.Metadata {
		if _, exists := a.Metadata[k]; !exists {
			a.Metadata[k] = v
		}
	}
	if cmd.FilePath != "" {
		a.Metadata["file_path"] = cmd.FilePath
	}
}

// marshalNullable marshals v to JSON, mapping nil and empty maps to SQL
// NULL so jsonb columns stay null instead of storing "null" or "{}".
func marshalNullable(v any) (any, error) {
	switch t := v.(type) {
	case *evidence.Fields:
		if t == nil {
			return nil, nil
		}
	case map[string]any:
		if len(t) == 0 {
			return nil, nil
		}
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return data, nil
}
