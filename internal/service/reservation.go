package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/reservation-desk/backend/internal/db"
	"github.com/reservation-desk/backend/internal/metrics"
	"github.com/reservation-desk/backend/internal/model"
	"github.com/sirupsen/logrus"
)

const msgReservationSaved = "Reservation saved successfully"

// ReservationLedger - (date, time) 키 슬롯 저장소
// UpdateSlot 은 조회-병합-저장을 하나의 트랜잭션에서 수행해야 함
type ReservationLedger interface {
	ReplaceSlots(ctx context.Context, rows []model.ReservationSlot) error
	UpdateSlot(ctx context.Context, date, slotTime string, apply func(model.ReservationSlot) (model.ReservationSlot, error)) error
	ListSlots(ctx context.Context) ([]model.ReservationSlot, error)
	ListSlotsByDate(ctx context.Context, date string) ([]model.ReservationSlot, error)
	GetSlot(ctx context.Context, date, slotTime string) (*model.ReservationSlot, error)
}

type ReservationService struct {
	ledger ReservationLedger
}

func NewReservationService(ledger ReservationLedger) *ReservationService {
	return &ReservationService{ledger: ledger}
}

// CreateReservations - 원장 전체를 전달받은 타임테이블로 교체
func (s *ReservationService) CreateReservations(ctx context.Context, groups []model.DateGroup) (string, error) {
	if len(groups) == 0 {
		return "", validationError("reservation batch is empty", nil)
	}
	if err := validateGroups(groups); err != nil {
		return "", err
	}

	rows, err := toDatabase(groups)
	if err != nil {
		metrics.ObserveLedgerReplace("invalid", 0)
		return "", err
	}

	if err := s.ledger.ReplaceSlots(ctx, rows); err != nil {
		metrics.ObserveLedgerReplace("error", 0)
		logrus.WithError(err).WithField("rows", len(rows)).Error("replace reservation ledger failed")
		return "", fmt.Errorf("create reservations: %w", err)
	}

	metrics.ObserveLedgerReplace("ok", len(rows))
	logrus.WithField("rows", len(rows)).Info("reservation ledger replaced")
	return msgReservationSaved, nil
}

// UpdateReservation - 단일 슬롯을 패치 우선으로 병합해서 저장
func (s *ReservationService) UpdateReservation(ctx context.Context, date, slotTime string, patch model.SlotPatch) (model.SlotKey, error) {
	if err := validateSlotKey(date, slotTime); err != nil {
		return model.SlotKey{}, err
	}
	err := s.ledger.UpdateSlot(ctx, date, slotTime, func(existing model.ReservationSlot) (model.ReservationSlot, error) {
		return mergeSlot(existing, patch)
	})
	if err != nil {
		if db.IsNoRows(err) {
			metrics.IncSlotUpdate("not_found")
			return model.SlotKey{}, notFoundf("reservation %s %s not found", date, slotTime)
		}
		var domainErr *Error
		if errors.As(err, &domainErr) {
			metrics.IncSlotUpdate("invalid")
			return model.SlotKey{}, domainErr
		}
		metrics.IncSlotUpdate("error")
		logrus.WithError(err).WithFields(logrus.Fields{"date": date, "time": slotTime}).Error("update reservation failed")
		return model.SlotKey{}, fmt.Errorf("update reservation %s %s: %w", date, slotTime, err)
	}

	metrics.IncSlotUpdate("ok")
	return model.SlotKey{Date: date, Time: slotTime}, nil
}

func (s *ReservationService) ListReservations(ctx context.Context) ([]model.DateGroup, error) {
	rows, err := s.ledger.ListSlots(ctx)
	if err != nil {
		logrus.WithError(err).Error("list reservations failed")
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return toFrontend(rows), nil
}

// GetReservationsByDate - 하루치 타임테이블. 행이 없으면 빈 timeList
func (s *ReservationService) GetReservationsByDate(ctx context.Context, date string) (model.DateGroup, error) {
	if err := validateDate(date); err != nil {
		return model.DateGroup{}, validationError("invalid date", map[string]string{"date": err.Error()})
	}

	rows, err := s.ledger.ListSlotsByDate(ctx, date)
	if err != nil {
		logrus.WithError(err).WithField("date", date).Error("list reservations by date failed")
		return model.DateGroup{}, fmt.Errorf("list reservations %s: %w", date, err)
	}

	groups := toFrontend(rows)
	if len(groups) == 0 {
		return model.DateGroup{Date: date, TimeList: []model.TimeSlot{}}, nil
	}
	return groups[0], nil
}

// GetReservation - 단일 슬롯을 날짜 그룹 형태로 반환
func (s *ReservationService) GetReservation(ctx context.Context, date, slotTime string) (model.DateGroup, error) {
	if err := validateSlotKey(date, slotTime); err != nil {
		return model.DateGroup{}, err
	}

	row, err := s.ledger.GetSlot(ctx, date, slotTime)
	if err != nil {
		if db.IsNoRows(err) {
			return model.DateGroup{}, notFoundf("reservation %s %s not found", date, slotTime)
		}
		logrus.WithError(err).WithFields(logrus.Fields{"date": date, "time": slotTime}).Error("get reservation failed")
		return model.DateGroup{}, fmt.Errorf("get reservation %s %s: %w", date, slotTime, err)
	}

	return toFrontend([]model.ReservationSlot{*row})[0], nil
}
