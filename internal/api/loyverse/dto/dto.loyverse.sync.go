package loyversedto

import (
	"time"

	"github.com/oacc1974/Golmarcadmion/internal/common"
	"github.com/oacc1974/Golmarcadmion/internal/utility"
)

// SyncRangeInput is the body of the ranged syncs.
type SyncRangeInput struct {
	StoreID   string `json:"storeId" validate:"omitempty,max=64"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}

// Range parses the dates. A bare end date covers its whole day.
func (in SyncRangeInput) Range() (from, to time.Time, err error) {
	from, to, err = utility.ParseRange(in.StartDate, in.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, common.InvalidInput("Invalid sync range", err)
	}
	return from, to, nil
}
