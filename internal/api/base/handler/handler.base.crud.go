package basehdl

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/oacc1974/Golmarcadmion/internal/common"
	"github.com/oacc1974/Golmarcadmion/internal/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindWithPagination lists documents using the configured filter builder and sort.
func (h *BaseHandler[T, C, U]) FindWithPagination(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		filter := bson.M{}
		if h.Filter != nil {
			f, err := h.Filter(c)
			if err != nil {
				return HandleResponse(c, nil, err)
			}
			filter = f
		}
		opts := options.Find()
		if sort := ParseSortValue(h.SortField); sort != nil {
			opts.SetSort(sort)
		}
		data, err := h.BaseService.FindWithPagination(logger.RequestContext(c), filter, ParsePageQuery(c), opts)
		return HandleResponse(c, data, err)
	})
}

// FindOneById returns the document whose _id is the :id param.
func (h *BaseHandler[T, C, U]) FindOneById(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		id, err := ParseObjectID(c, "id")
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		data, err := h.BaseService.FindOneById(logger.RequestContext(c), id)
		return HandleResponse(c, data, err)
	})
}

// FindByLoyverseID returns the document whose loyverse_id is the :loyverseId param.
func (h *BaseHandler[T, C, U]) FindByLoyverseID(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		key := c.Params("loyverseId")
		data, err := h.BaseService.FindOne(logger.RequestContext(c), bson.M{"loyverse_id": key}, nil)
		if errors.Is(err, common.ErrNotFound) {
			err = common.NotFound(h.Entity, key)
		}
		return HandleResponse(c, data, err)
	})
}

// InsertOne creates a document from the C body.
func (h *BaseHandler[T, C, U]) InsertOne(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		var input C
		if err := ParseRequestBody(c, &input); err != nil {
			return HandleResponse(c, nil, err)
		}
		model, err := input.ToModel()
		if err != nil {
			return HandleResponse(c, nil, common.InvalidInput(err.Error(), nil))
		}
		data, err := h.BaseService.InsertOne(logger.RequestContext(c), model)
		if err == nil {
			logger.LogCRUD("create", h.Entity, "", c)
		}
		return HandleResponse(c, data, err)
	})
}

// UpdateById merges the U body into the document: only fields present are written.
func (h *BaseHandler[T, C, U]) UpdateById(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		id, err := ParseObjectID(c, "id")
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		var input U
		if err := ParseRequestBody(c, &input); err != nil {
			return HandleResponse(c, nil, err)
		}
		set, err := input.ToUpdate()
		if err != nil {
			return HandleResponse(c, nil, common.InvalidInput(err.Error(), nil))
		}
		data, err := h.BaseService.UpdateById(logger.RequestContext(c), id, bson.M{"$set": set})
		if err == nil {
			logger.LogCRUD("update", h.Entity, id.Hex(), c)
		}
		return HandleResponse(c, data, err)
	})
}

// DeleteById removes the document whose _id is the :id param.
func (h *BaseHandler[T, C, U]) DeleteById(c fiber.Ctx) error {
	return SafeHandler(c, func() error {
		id, err := ParseObjectID(c, "id")
		if err != nil {
			return HandleResponse(c, nil, err)
		}
		err = h.BaseService.DeleteById(logger.RequestContext(c), id)
		if err == nil {
			logger.LogCRUD("delete", h.Entity, id.Hex(), c)
		}
		return HandleResponse(c, fiber.Map{"deleted": err == nil, "id": id.Hex()}, err)
	})
}
