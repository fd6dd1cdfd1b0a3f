package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/heartchain_backend/internal/apperrors"
	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/heartchain_backend/internal/core/ports/repositories"
	"github.com/SscSPs/heartchain_backend/internal/models"
	"github.com/SscSPs/heartchain_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const campaignColumns = `id, title, description, beneficiary_name, goal_amount, raised_amount, donor_count, category, image_url, is_active, end_date, created_at, updated_at`

type PgxCampaignRepository struct {
	BaseRepository
}

// newPgxCampaignRepository creates a new repository for campaign data.
func newPgxCampaignRepository(pool *pgxpool.Pool) *PgxCampaignRepository {
	return &PgxCampaignRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CampaignRepositoryWithTx = (*PgxCampaignRepository)(nil)

// SaveCampaign inserts a new campaign.
func (r *PgxCampaignRepository) SaveCampaign(ctx context.Context, campaign domain.Campaign) error {
	if err := r.ready(); err != nil {
		return err
	}
	m := mapping.ToModelCampaign(campaign)
	query := `
		INSERT INTO campaigns (` + campaignColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CampaignID, m.Title, m.Description, m.BeneficiaryName,
		m.GoalAmount, m.RaisedAmount, m.DonorCount,
		m.Category, m.ImageURL, m.IsActive, m.EndDate,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return fmt.Errorf("%w: campaign with ID %s already exists", apperrors.ErrDuplicate, m.CampaignID)
		}
		return fmt.Errorf("failed to save campaign %s: %w", m.CampaignID, err)
	}
	return nil
}

// FindCampaignByID retrieves a campaign by its ID.
func (r *PgxCampaignRepository) FindCampaignByID(ctx context.Context, campaignID string) (*domain.Campaign, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1;`
	rows, err := r.Pool.Query(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to find campaign %s: %w", campaignID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Campaign])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan campaign %s: %w", campaignID, err)
	}
	c := mapping.ToDomainCampaign(m)
	return &c, nil
}

// ListCampaigns returns campaigns newest first, optionally filtered by category and activity.
func (r *PgxCampaignRepository) ListCampaigns(ctx context.Context, filter domain.CampaignFilter) ([]domain.Campaign, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	var (
		conds []string
		args  []any
	)
	if filter.ActiveOnly {
		conds = append(conds, "is_active = TRUE")
	}
	if filter.Category != nil && *filter.Category != "" {
		args = append(args, *filter.Category)
		conds = append(conds, "category = $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + campaignColumns + ` FROM campaigns`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d;", len(args)-1, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Campaign])
	if err != nil {
		return nil, fmt.Errorf("failed to scan campaigns: %w", err)
	}
	return mapping.ToDomainCampaignSlice(ms), nil
}

// UpdateCampaign rewrites the editable fields. raised_amount and donor_count are
// never touched here.
func (r *PgxCampaignRepository) UpdateCampaign(ctx context.Context, campaign domain.Campaign) error {
	if err := r.ready(); err != nil {
		return err
	}
	m := mapping.ToModelCampaign(campaign)
	query := `
		UPDATE campaigns
		SET title = $2, description = $3, goal_amount = $4, category = $5, image_url = $6,
		    is_active = $7, end_date = $8, updated_at = $9
		WHERE id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.CampaignID, m.Title, m.Description, m.GoalAmount, m.Category, m.ImageURL,
		m.IsActive, m.EndDate, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update campaign %s: %w", m.CampaignID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

const incrementCampaignStatsQuery = `
	UPDATE campaigns
	SET raised_amount = raised_amount + $2, donor_count = donor_count + 1, updated_at = NOW()
	WHERE id = $1
	RETURNING ` + campaignColumns + `;
`

// UpdateCampaignStats adds amount to the campaign in one statement so concurrent
// credits never lose an update.
func (r *PgxCampaignRepository) UpdateCampaignStats(ctx context.Context, campaignID string, amount decimal.Decimal) (*domain.Campaign, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	return incrementCampaignStats(ctx, r.Pool, campaignID, amount)
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func incrementCampaignStats(ctx context.Context, q querier, campaignID string, amount decimal.Decimal) (*domain.Campaign, error) {
	rows, err := q.Query(ctx, incrementCampaignStatsQuery, campaignID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to update stats for campaign %s: %w", campaignID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Campaign])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update stats for campaign %s: %w", campaignID, err)
	}
	c := mapping.ToDomainCampaign(m)
	return &c, nil
}
