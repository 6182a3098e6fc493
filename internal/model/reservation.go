package model

// ============================================================================
// 저장 모델 (reservations 테이블, (date, time) 복합키)
// ============================================================================

// ReservationSlot - 예약 슬롯 한 행
// IsBooked 가 false 면 Name/Tel/Remarks 는 빈 문자열로 저장됨
type ReservationSlot struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	IsBooked bool   `json:"isBooked"`
	Name     string `json:"name"`
	Tel      string `json:"tel"`
	Remarks  string `json:"remarks"`
}

// SlotKey - (date, time) 키
type SlotKey struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// ============================================================================
// 클라이언트 모델 (날짜별 그룹)
// ============================================================================

// GuestInfo - 예약자 정보. 비어있는 슬롯이면 모든 필드가 ""
type GuestInfo struct {
	Name    string `json:"name"`
	Tel     string `json:"tel"`
	Remarks string `json:"remarks"`
}

type TimeSlot struct {
	Time     string    `json:"time"`
	IsBooked bool      `json:"isBooked"`
	Info     GuestInfo `json:"info"`
}

// DateGroup - 하루치 타임테이블
type DateGroup struct {
	Date     string     `json:"date"`
	TimeList []TimeSlot `json:"timeList"`
}

// SlotPatch - 단일 슬롯 수정 요청. IsBooked 가 nil 이면 기존 값 유지
type SlotPatch struct {
	IsBooked *bool     `json:"isBooked"`
	Info     GuestInfo `json:"info"`
}

// ============================================================================
// API Response Envelope
// ============================================================================

type ReservationMutationResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Date    string `json:"date,omitempty"`
	Time    string `json:"time,omitempty"`
}

type DateGroupEnvelope struct {
	Status string     `json:"status"`
	Data   *DateGroup `json:"data"`
}
