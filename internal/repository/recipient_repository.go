// internal/repository/recipient_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/AWD-Projects/xianna-campaign-service/internal/model"
)

// RecipientRepositoryInterface loads recipients for composition requests.
type RecipientRepositoryInterface interface {
	GetByIDs(ctx context.Context, ids []string) ([]model.Recipient, error)
	ListAll(ctx context.Context) ([]model.Recipient, error)
}

type RecipientRepository struct {
	DB *sql.DB
}

const recipientColumns = `id, display_name, email, phone, style, body_type, region, gender, age, occupation`

// GetByIDs fetches the given recipients, preserving the input order. A
// missing id is an input error: the caller referenced someone who does not
// exist, which must be rejected before anything is sent.
func (r *RecipientRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Recipient, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+recipientColumns+` FROM recipients WHERE id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]model.Recipient, len(ids))
	for rows.Next() {
		var rec model.Recipient
		if err := scanRecipient(rows, &rec); err != nil {
			return nil, err
		}
		byID[rec.ID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	recipients := make([]model.Recipient, 0, len(ids))
	for _, id := range ids {
		rec, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("recipient %s not found", id)
		}
		recipients = append(recipients, rec)
	}
	return recipients, nil
}

func (r *RecipientRepository) ListAll(ctx context.Context) ([]model.Recipient, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+recipientColumns+` FROM recipients ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipients := []model.Recipient{}
	for rows.Next() {
		var rec model.Recipient
		if err := scanRecipient(rows, &rec); err != nil {
			return nil, err
		}
		recipients = append(recipients, rec)
	}
	return recipients, rows.Err()
}

func scanRecipient(rows *sql.Rows, rec *model.Recipient) error {
	return rows.Scan(
		&rec.ID, &rec.DisplayName, &rec.Email, &rec.Phone,
		&rec.Style, &rec.BodyType, &rec.Region,
		&rec.Gender, &rec.Age, &rec.Occupation,
	)
}

var _ RecipientRepositoryInterface = (*RecipientRepository)(nil)
