package service

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/reservation-desk/backend/internal/model"
)

const (
	slotDateLayout = "2006-01-02"
	slotTimeLayout = "15:04"

	maxGuestNameLength    = 20
	maxGuestTelLength     = 20
	maxGuestRemarksLength = 200

	msgGuestInfoRequired = "booked slot requires name, tel and remarks"
)

// toDatabase - 날짜별 그룹을 (date, time) 단위 행으로 펼침
// 예약된 슬롯 중 하나라도 예약자 정보가 비어있으면 배치 전체를 거부
func toDatabase(groups []model.DateGroup) ([]model.ReservationSlot, error) {
	rows := make([]model.ReservationSlot, 0, len(groups))
	missing := make(map[string]string)

	for _, group := range groups {
		for _, slot := range group.TimeList {
			row := model.ReservationSlot{
				Date:     group.Date,
				Time:     slot.Time,
				IsBooked: slot.IsBooked,
			}
			if slot.IsBooked {
				if fields := missingGuestFields(slot.Info); len(fields) > 0 {
					missing[slotField(group.Date, slot.Time)] = "missing " + strings.Join(fields, ", ")
					continue
				}
				row.Name = slot.Info.Name
				row.Tel = slot.Info.Tel
				row.Remarks = slot.Info.Remarks
			}
			rows = append(rows, row)
		}
	}

	if len(missing) > 0 {
		return nil, validationError(msgGuestInfoRequired, missing)
	}
	return rows, nil
}

// toFrontend - 정렬된 행을 날짜별로 묶음. 그룹 순서는 처음 등장한 순서를 따름
func toFrontend(rows []model.ReservationSlot) []model.DateGroup {
	groups := make([]model.DateGroup, 0)
	index := make(map[string]int)

	for _, row := range rows {
		i, ok := index[row.Date]
		if !ok {
			i = len(groups)
			index[row.Date] = i
			groups = append(groups, model.DateGroup{Date: row.Date, TimeList: make([]model.TimeSlot, 0)})
		}
		groups[i].TimeList = append(groups[i].TimeList, toTimeSlot(row))
	}
	return groups
}

func toTimeSlot(row model.ReservationSlot) model.TimeSlot {
	slot := model.TimeSlot{Time: row.Time, IsBooked: row.IsBooked}
	if row.IsBooked {
		slot.Info = model.GuestInfo{Name: row.Name, Tel: row.Tel, Remarks: row.Remarks}
	}
	return slot
}

// mergeSlot - 패치 값이 비어있지 않으면 패치 우선, 아니면 기존 값 유지
func mergeSlot(existing model.ReservationSlot, patch model.SlotPatch) (model.ReservationSlot, error) {
	merged := existing
	if patch.IsBooked != nil {
		merged.IsBooked = *patch.IsBooked
	}

	if !merged.IsBooked {
		merged.Name, merged.Tel, merged.Remarks = "", "", ""
		return merged, nil
	}

	if !isBlank(patch.Info.Name) {
		merged.Name = patch.Info.Name
	}
	if !isBlank(patch.Info.Tel) {
		merged.Tel = patch.Info.Tel
	}
	if !isBlank(patch.Info.Remarks) {
		merged.Remarks = patch.Info.Remarks
	}

	info := model.GuestInfo{Name: merged.Name, Tel: merged.Tel, Remarks: merged.Remarks}
	if fields := missingGuestFields(info); len(fields) > 0 {
		return model.ReservationSlot{}, validationError(msgGuestInfoRequired, map[string]string{
			slotField(existing.Date, existing.Time): "missing " + strings.Join(fields, ", "),
		})
	}
	if fields := guestLengthErrors(info); len(fields) > 0 {
		return model.ReservationSlot{}, validationError("guest info too long", fields)
	}
	return merged, nil
}

// validateGroups - 키 형식, 배치 내 중복 키, 예약자 정보 길이 검증
func validateGroups(groups []model.DateGroup) error {
	fields := make(map[string]string)
	seen := make(map[model.SlotKey]struct{})
	slots := 0

	for gi, group := range groups {
		if err := validateDate(group.Date); err != nil {
			fields[fmt.Sprintf("[%d].date", gi)] = err.Error()
			continue
		}
		for ti, slot := range group.TimeList {
			slots++
			if err := validateTime(slot.Time); err != nil {
				fields[fmt.Sprintf("[%d].timeList[%d].time", gi, ti)] = err.Error()
				continue
			}
			key := model.SlotKey{Date: group.Date, Time: slot.Time}
			if _, dup := seen[key]; dup {
				fields[slotField(group.Date, slot.Time)] = "duplicate slot"
				continue
			}
			seen[key] = struct{}{}
			if !slot.IsBooked {
				continue
			}
			for name, reason := range guestLengthErrors(slot.Info) {
				fields[slotField(group.Date, slot.Time)+" "+name] = reason
			}
		}
	}

	if len(fields) > 0 {
		return validationError("invalid reservation batch", fields)
	}
	if slots == 0 {
		return validationError("reservation batch is empty", nil)
	}
	return nil
}

func validateDate(value string) error {
	if _, err := time.Parse(slotDateLayout, value); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	return nil
}

func validateTime(value string) error {
	if _, err := time.Parse(slotTimeLayout, value); err != nil {
		return fmt.Errorf("time must be HH:mm")
	}
	return nil
}

func validateSlotKey(date, slotTime string) error {
	fields := make(map[string]string)
	if err := validateDate(date); err != nil {
		fields["date"] = err.Error()
	}
	if err := validateTime(slotTime); err != nil {
		fields["time"] = err.Error()
	}
	if len(fields) > 0 {
		return validationError("invalid slot key", fields)
	}
	return nil
}

func missingGuestFields(info model.GuestInfo) []string {
	var missing []string
	if isBlank(info.Name) {
		missing = append(missing, "name")
	}
	if isBlank(info.Tel) {
		missing = append(missing, "tel")
	}
	if isBlank(info.Remarks) {
		missing = append(missing, "remarks")
	}
	return missing
}

func guestLengthErrors(info model.GuestInfo) map[string]string {
	fields := make(map[string]string)
	if utf8.RuneCountInString(info.Name) > maxGuestNameLength {
		fields["name"] = fmt.Sprintf("must be at most %d characters", maxGuestNameLength)
	}
	if utf8.RuneCountInString(info.Tel) > maxGuestTelLength {
		fields["tel"] = fmt.Sprintf("must be at most %d characters", maxGuestTelLength)
	}
	if utf8.RuneCountInString(info.Remarks) > maxGuestRemarksLength {
		fields["remarks"] = fmt.Sprintf("must be at most %d characters", maxGuestRemarksLength)
	}
	return fields
}

func slotField(date, slotTime string) string {
	return date + " " + slotTime
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
