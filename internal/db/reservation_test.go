package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// FOR UPDATE 가 잡는 ROW SHARE 와 충돌하는 모드여야 슬롯 수정과 교체가 교착되지 않음
func TestLockReservationsSQL_ConflictsWithRowShare(t *testing.T) {
	assert.Equal(t, "LOCK TABLE reservations IN EXCLUSIVE MODE", lockReservationsSQL)
	assert.NotContains(t, lockReservationsSQL, "SHARE")
}
