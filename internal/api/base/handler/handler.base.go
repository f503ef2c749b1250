// Package basehdl holds the response envelope, request parsing and generic CRUD handlers.
package basehdl

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/go-playground/validator/v10"
	basemodels "github.com/oacc1974/Golmarcadmion/internal/api/base/models"
	basesvc "github.com/oacc1974/Golmarcadmion/internal/api/base/service"
	"github.com/oacc1974/Golmarcadmion/internal/common"
	"github.com/oacc1974/Golmarcadmion/internal/global"
	"github.com/oacc1974/Golmarcadmion/internal/utility"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateInput converts a create DTO into a model.
type CreateInput[T any] interface {
	ToModel() (T, error)
}

// UpdateInput converts a PATCH DTO into the fields to $set. Only fields present in the
// request appear in the map.
type UpdateInput interface {
	ToUpdate() (bson.M, error)
}

// FilterBuilder reads list filters from the query string.
type FilterBuilder func(c fiber.Ctx) (bson.M, error)

// BaseHandler serves CRUD for one collection.
type BaseHandler[T any, C CreateInput[T], U UpdateInput] struct {
	BaseService basesvc.BaseServiceMongo[T]
	Entity      string
	Filter      FilterBuilder
	SortField   string
}

// NewBaseHandler wires a handler on svc.
func NewBaseHandler[T any, C CreateInput[T], U UpdateInput](svc basesvc.BaseServiceMongo[T], entity string) *BaseHandler[T, C, U] {
	return &BaseHandler[T, C, U]{BaseService: svc, Entity: entity}
}

// ParseRequestBody binds the JSON body into input and validates it.
func ParseRequestBody(c fiber.Ctx, input interface{}) error {
	if err := c.Bind().Body(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgInvalidFormat, common.StatusBadRequest, err.Error())
	}
	return ValidateInput(input)
}

// ValidateInput runs global.Validate and reports the failing fields in details.
func ValidateInput(input interface{}) error {
	if global.Validate == nil {
		global.InitValidator()
	}
	if err := global.Validate.Struct(input); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, fields)
		}
		return common.InvalidInput(common.MsgValidationError, err)
	}
	return nil
}

// ParseObjectID reads the named route param as an ObjectID.
func ParseObjectID(c fiber.Ctx, param string) (primitive.ObjectID, error) {
	raw := c.Params(param)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat,
			"Invalid id: expected a 24 character hex ObjectID", common.StatusBadRequest, map[string]string{param: raw})
	}
	return id, nil
}

// ParsePageQuery reads page and limit.
func ParsePageQuery(c fiber.Ctx) basemodels.PageQuery {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)
	return basemodels.PageQuery{Page: page, Limit: limit}.Normalize(20, 100)
}

// ParseSort reads "sort=field" or "sort=-field", restricted to allowed fields.
func ParseSort(c fiber.Ctx, fallback string, allowed ...string) bson.D {
	raw := strings.TrimSpace(c.Query("sort", fallback))
	if raw == "" {
		return nil
	}
	order := 1
	if strings.HasPrefix(raw, "-") {
		order = -1
		raw = raw[1:]
	}
	if len(allowed) > 0 {
		ok := false
		for _, a := range allowed {
			if a == raw {
				ok = true
				break
			}
		}
		if !ok {
			return ParseSortValue(fallback)
		}
	}
	return bson.D{{Key: raw, Value: order}}
}

// ParseSortValue turns "-field" into a sort document.
func ParseSortValue(raw string) bson.D {
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "-") {
		return bson.D{{Key: raw[1:], Value: -1}}
	}
	return bson.D{{Key: raw, Value: 1}}
}

// QueryFirst returns the first non-empty query parameter among keys.
func QueryFirst(c fiber.Ctx, keys ...string) string {
	for _, k := range keys {
		if v := c.Query(k); v != "" {
			return v
		}
	}
	return ""
}

// StoreIDQuery reads store_id, or storeId as older clients send it.
func StoreIDQuery(c fiber.Ctx) string {
	return QueryFirst(c, "store_id", "storeId")
}

// ParseDateRange reads start_date and end_date (YYYY-MM-DD or RFC3339), also accepted
// as startDate and endDate. When both are absent it returns the last defaultDays days
// ending today; defaultDays 0 makes the range required.
func ParseDateRange(c fiber.Ctx, defaultDays int) (time.Time, time.Time, error) {
	start, end := QueryFirst(c, "start_date", "startDate"), QueryFirst(c, "end_date", "endDate")
	if start == "" && end == "" {
		if defaultDays <= 0 {
			return time.Time{}, time.Time{}, common.NewError(common.ErrCodeValidationInput,
				"start_date and end_date are required", common.StatusBadRequest, nil)
		}
		now := time.Now().UTC()
		return utility.StartOfDay(now.AddDate(0, 0, -(defaultDays - 1))), utility.EndOfDay(now), nil
	}
	if start == "" || end == "" {
		return time.Time{}, time.Time{}, common.NewError(common.ErrCodeValidationInput,
			"start_date and end_date must be given together", common.StatusBadRequest, nil)
	}
	from, to, err := utility.ParseRange(start, end)
	if err != nil {
		return time.Time{}, time.Time{}, common.InvalidInput(err.Error(), nil)
	}
	return from, to, nil
}
