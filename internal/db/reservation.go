package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/reservation-desk/backend/internal/model"
)

// 원장 교체용 테이블 잠금
const lockReservationsSQL = `LOCK TABLE reservations IN EXCLUSIVE MODE`

func (db *Postgres) EnsureReservationSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS reservations (
			date VARCHAR(10) NOT NULL,
			time VARCHAR(5) NOT NULL,
			is_booked BOOLEAN NOT NULL DEFAULT FALSE,
			name VARCHAR(20) NOT NULL DEFAULT '',
			tel VARCHAR(20) NOT NULL DEFAULT '',
			remarks VARCHAR(200) NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (date, time),
			CONSTRAINT reservations_guest_info_chk CHECK (
				(is_booked AND name <> '' AND tel <> '' AND remarks <> '')
				OR (NOT is_booked AND name = '' AND tel = '' AND remarks = '')
			)
		)
		`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceSlots - 전체 원장을 한 트랜잭션 안에서 삭제 후 재삽입
// EXCLUSIVE 잠금은 FOR UPDATE 의 ROW SHARE 와도 충돌하므로 진행 중인 슬롯 수정이 끝난 뒤에 잡힘
// 동시 교체와 슬롯 수정은 직렬화되고, 일반 SELECT 는 커밋 전까지 이전 원장을 봄
func (db *Postgres) ReplaceSlots(ctx context.Context, rows []model.ReservationSlot) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, lockReservationsSQL); err != nil {
		return fmt.Errorf("lock reservations: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM reservations`); err != nil {
		return fmt.Errorf("delete reservations: %w", err)
	}

	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"reservations"},
		[]string{"date", "time", "is_booked", "name", "tel", "remarks"},
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			r := rows[i]
			return []any{r.Date, r.Time, r.IsBooked, r.Name, r.Tel, r.Remarks}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("insert reservations: %w", err)
	}

	return tx.Commit(ctx)
}

// UpdateSlot - 행을 FOR UPDATE 로 잠근 뒤 apply 결과로 덮어씀
// 행이 없으면 pgx.ErrNoRows, apply 가 실패하면 아무것도 쓰지 않음
func (db *Postgres) UpdateSlot(
	ctx context.Context,
	date, slotTime string,
	apply func(model.ReservationSlot) (model.ReservationSlot, error),
) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query := `
		SELECT date, time, is_booked, name, tel, remarks
		FROM reservations
		WHERE date = $1 AND time = $2
		FOR UPDATE
	`
	var current model.ReservationSlot
	err = tx.QueryRow(ctx, query, date, slotTime).Scan(
		&current.Date,
		&current.Time,
		&current.IsBooked,
		&current.Name,
		&current.Tel,
		&current.Remarks,
	)
	if err != nil {
		return err
	}

	merged, err := apply(current)
	if err != nil {
		return err
	}

	update := `
		UPDATE reservations
		SET is_booked = $3, name = $4, tel = $5, remarks = $6, updated_at = NOW()
		WHERE date = $1 AND time = $2
	`
	if _, err := tx.Exec(ctx, update, date, slotTime, merged.IsBooked, merged.Name, merged.Tel, merged.Remarks); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (db *Postgres) ListSlots(ctx context.Context) ([]model.ReservationSlot, error) {
	query := `
		SELECT date, time, is_booked, name, tel, remarks
		FROM reservations
		ORDER BY date ASC, time ASC
	`
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanSlots(rows)
}

func (db *Postgres) ListSlotsByDate(ctx context.Context, date string) ([]model.ReservationSlot, error) {
	query := `
		SELECT date, time, is_booked, name, tel, remarks
		FROM reservations
		WHERE date = $1
		ORDER BY time ASC
	`
	rows, err := db.Pool.Query(ctx, query, date)
	if err != nil {
		return nil, err
	}
	return scanSlots(rows)
}

func (db *Postgres) GetSlot(ctx context.Context, date, slotTime string) (*model.ReservationSlot, error) {
	query := `
		SELECT date, time, is_booked, name, tel, remarks
		FROM reservations
		WHERE date = $1 AND time = $2
	`
	var slot model.ReservationSlot
	err := db.Pool.QueryRow(ctx, query, date, slotTime).Scan(
		&slot.Date,
		&slot.Time,
		&slot.IsBooked,
		&slot.Name,
		&slot.Tel,
		&slot.Remarks,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func scanSlots(rows pgx.Rows) ([]model.ReservationSlot, error) {
	defer rows.Close()

	slots := make([]model.ReservationSlot, 0)
	for rows.Next() {
		var slot model.ReservationSlot
		if err := rows.Scan(&slot.Date, &slot.Time, &slot.IsBooked, &slot.Name, &slot.Tel, &slot.Remarks); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}
