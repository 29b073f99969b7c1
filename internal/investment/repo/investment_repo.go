package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-investment-go/internal/investment/entity"
)

// ErrNotFound means no record matched both id and owner.
var ErrNotFound = errors.New("investment not found")

// InvestmentRepo stores investment records. Every read and write past
// Create is filtered by owner_id.
type InvestmentRepo struct {
	db *sqlx.DB
}

func NewInvestmentRepo(db *sqlx.DB) *InvestmentRepo { return &InvestmentRepo{db: db} }

const investmentColumns = `id, owner_id, project_name, amount_invested, energy_generated, returns, date`

func (r *InvestmentRepo) Create(ctx context.Context, inv *entity.Investment) error {
	const q = `INSERT INTO investments (id, owner_id, project_name, amount_invested, energy_generated, returns, date)
		VALUES (:id, :owner_id, :project_name, :amount_invested, :energy_generated, :returns, :date)`
	if _, err := r.db.NamedExecContext(ctx, q, inv); err != nil {
		return fmt.Errorf("create investment: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's records oldest first. An owner with no
// records gets an empty, non-nil slice.
func (r *InvestmentRepo) ListByOwner(ctx context.Context, ownerID string) ([]entity.Investment, error) {
	const q = `SELECT ` + investmentColumns + ` FROM investments WHERE owner_id=$1 ORDER BY date, id`
	out := []entity.Investment{}
	if err := r.db.SelectContext(ctx, &out, q, ownerID); err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	return out, nil
}

// UpdateByOwner applies the non-nil fields of p to the record matching both
// id and ownerID.
func (r *InvestmentRepo) UpdateByOwner(ctx context.Context, id, ownerID string, p entity.Patch) (*entity.Investment, error) {
	const q = `UPDATE investments SET
			project_name = COALESCE($3, project_name),
			amount_invested = COALESCE($4, amount_invested),
			energy_generated = COALESCE($5, energy_generated),
			returns = COALESCE($6, returns),
			date = COALESCE($7, date)
		WHERE id=$1 AND owner_id=$2
		RETURNING ` + investmentColumns
	var inv entity.Investment
	err := r.db.GetContext(ctx, &inv, q, id, ownerID, p.ProjectName, p.AmountInvested, p.EnergyGenerated, p.Returns, p.Date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update investment: %w", err)
	}
	return &inv, nil
}

// DeleteByOwner removes the record matching both id and ownerID.
func (r *InvestmentRepo) DeleteByOwner(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM investments WHERE id=$1 AND owner_id=$2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete investment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete investment: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
