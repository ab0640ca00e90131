package repository

import (
	"context"

	"github.com/Domenick1991/airreserve/internal/domain"
)

func (q *Queries) BaggageWeight(ctx context.Context, passengerID int64, code string, typ domain.BaggageType) (float64, error) {
	var total float64
	err := q.db.QueryRow(ctx, `
        SELECT COALESCE(SUM(weight), 0)::float8
        FROM baggage
        WHERE passenger_id = $1 AND reference_code = $2 AND baggage_type = $3
    `, passengerID, code, string(typ)).Scan(&total)
	if err != nil {
		return 0, domain.Persistence("sum baggage weight", err)
	}
	return total, nil
}

func (q *Queries) CreateBaggage(ctx context.Context, b *domain.BaggageItem) error {
	err := q.db.QueryRow(ctx, `INSERT INTO baggage (passenger_id, reference_code, weight, baggage_type)
		VALUES ($1, $2, $3, $4) RETURNING id`, b.PassengerID, b.ReferenceCode, b.Weight, string(b.Type)).Scan(&b.ID)
	return domain.Persistence("insert baggage", err)
}

func (q *Queries) DeleteBaggage(ctx context.Context, code string) (int64, error) {
	cmd, err := q.db.Exec(ctx, `DELETE FROM baggage WHERE reference_code=$1`, code)
	if err != nil {
		return 0, domain.Persistence("delete baggage", err)
	}
	return cmd.RowsAffected(), nil
}

func (q *Queries) BaggageByReference(ctx context.Context, code string) ([]domain.BaggageItem, error) {
	return q.queryBaggage(ctx, `SELECT id, passenger_id, reference_code, weight::float8, baggage_type FROM baggage WHERE reference_code=$1 ORDER BY id`, code)
}

func (q *Queries) AllBaggage(ctx context.Context) ([]domain.BaggageItem, error) {
	return q.queryBaggage(ctx, `SELECT id, passenger_id, reference_code, weight::float8, baggage_type FROM baggage ORDER BY id`)
}

func (q *Queries) queryBaggage(ctx context.Context, sql string, args ...any) ([]domain.BaggageItem, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, domain.Persistence("select baggage", err)
	}
	defer rows.Close()

	items := make([]domain.BaggageItem, 0)
	for rows.Next() {
		var b domain.BaggageItem
		if err := rows.Scan(&b.ID, &b.PassengerID, &b.ReferenceCode, &b.Weight, &b.Type); err != nil {
			return nil, domain.Persistence("scan baggage", err)
		}
		items = append(items, b)
	}
	return items, domain.Persistence("iterate baggage", rows.Err())
}
