package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/prasastio/marketplace/internal/config"
	inHttp "github.com/prasastio/marketplace/internal/http"
	"github.com/prasastio/marketplace/internal/log"
	"github.com/prasastio/marketplace/internal/middleware"
	inOtel "github.com/prasastio/marketplace/internal/otel"
	"github.com/prasastio/marketplace/internal/validate"
	inErrors "github.com/prasastio/marketplace/item/errors"
	"github.com/prasastio/marketplace/item/otel"
	"github.com/prasastio/marketplace/item/pkg/request"
	"github.com/prasastio/marketplace/item/service"
	"github.com/prasastio/marketplace/item/upload"
)

const maxUploadBytes = 8 << 20

// pathItemId constrains the variable to uuid characters so the literal
// routes /categories and /my-items never collide with it.
const pathItemId = "/{itemId:[0-9a-fA-F-]+}"

type ItemController struct {
	service *service.ItemService
	uploads *upload.Store
}

func AttachItemController(
	root *mux.Router,
	service *service.ItemService,
	uploads *upload.Store,
	cfg config.Application,
) {
	controller := ItemController{service: service, uploads: uploads}

	public := root.PathPrefix("/items").Subrouter()
	public.HandleFunc("", controller.FindItems).Methods(http.MethodGet)
	public.HandleFunc("/categories", controller.FindCategories).Methods(http.MethodGet)
	public.HandleFunc(pathItemId, controller.FindItemById).Methods(http.MethodGet)

	private := root.PathPrefix("/items").Subrouter()
	private.Use(middleware.Auth(cfg))
	private.HandleFunc("", controller.CreateItem).Methods(http.MethodPost)
	private.HandleFunc("/my-items", controller.FindMyItems).Methods(http.MethodGet)
	private.HandleFunc(pathItemId, controller.UpdateItem).Methods(http.MethodPut)
	private.HandleFunc(pathItemId, controller.RemoveItem).Methods(http.MethodDelete)
}

func errorStatusCode(err error) int {
	switch {
	case errors.Is(err, inErrors.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, inErrors.ErrItemForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

func (ctrl ItemController) FindItems(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ItemController FindItems")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ItemController FindItems").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "parsing query params").Logger()
	logger.Trace().Msg("parsing query params")
	param, err := findItemsParam(r)
	if err != nil {
		err = fmt.Errorf("failed parsing query params with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Trace().Msg("parsed query params")

	logger = logger.With().Str(log.KeyProcess, "validating query params").Logger()
	logger.Trace().Msg("validating query params")
	if err := validate.New().StructCtx(c, param); err != nil {
		err = fmt.Errorf("failed validating query params with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Trace().Msg("validated query params")

	logger = logger.With().Str(log.KeyProcess, "finding items").Logger()
	logger.Trace().Msg("finding items")
	c = logger.WithContext(c)
	page, err := ctrl.service.FindItems(c, param)
	if err != nil {
		err = fmt.Errorf("failed finding items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": errorStatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("found items")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "items found",
		"data": map[string]interface{}{
			"items": page.Items,
			"total": page.Total,
		},
	})
}

func (ctrl ItemController) FindCategories(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ItemController FindCategories")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ItemController FindCategories").
		Str(log.KeyProcess, "finding categories").
		Logger()

	logger.Trace().Msg("finding categories")
	c = logger.WithContext(c)
	categories, err := ctrl.service.FindCategories(c)
	if err != nil {
		err = fmt.Errorf("failed finding categories with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": errorStatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("found categories")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "categories found",
		"data": map[string]interface{}{
			"categories": categories,
		},
	})
}

func (ctrl ItemController) FindItemById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ItemController FindItemById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ItemController FindItemById").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "getting path value itemId").Logger()
	logger.Trace().Msg("getting path value itemId")
	itemId, err := uuid.Parse(mux.Vars(r)["itemId"])
	if err != nil {
		err = fmt.Errorf("failed getting path value itemId with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(log.KeyItemId, itemId.String()).Logger()
	logger.Trace().Msg("got path value itemId")

	logger = logger.With().Str(log.KeyProcess, "finding item").Logger()
	logger.Trace().Msg("finding item")
	c = logger.WithContext(c)
	item, err := ctrl.service.FindItemById(c, itemId)
	if err != nil {
		err = fmt.Errorf("failed finding item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": errorStatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("found item")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "item found",
		"data": map[string]interface{}{
			"item": item,
		},
	})
}

func (ctrl ItemController) FindMyItems(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ItemController FindMyItems")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ItemController FindMyItems").
		Logger()

	userId, err := middleware.UserIdFromContext(c)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    err.Error(),
		})
		return
	}

	logger = logger.With().Str(log.KeyProcess, "finding items by user").Logger()
	logger.Trace().Msg("finding items by user")
	c = logger.WithContext(c)
	items, err := ctrl.service.FindItemsByUserId(c, userId)
	if err != nil {
		err = fmt.Errorf("failed finding items by user with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": errorStatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("found items by user")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "items found",
		"data": map[string]interface{}{
			"items": items,
		},
	})
}

func (ctrl ItemController) CreateItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ItemController CreateItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ItemController CreateItem").
		Logger()

	userId, err := middleware.UserIdFromContext(c)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    err.Error(),
		})
		return
	}

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	reqBody, image, err := createItemBody(r)
	if err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating request body").Logger()
	logger.Trace().Msg("validating request body")
	if err := validate.New().StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Trace().Msg("validated request body")

	if image != nil {
		logger = logger.With().Str(log.KeyProcess, "storing uploaded image").Logger()
		logger.Trace().Msg("storing uploaded image")
		imageUrl, err := ctrl.uploads.Save(image.file, image.header)
		image.file.Close()
		if err != nil {
			err = fmt.Errorf("failed storing uploaded image with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
				"status":     "failed",
				"statusCode": http.StatusBadRequest,
				"message":    err.Error(),
			})
			return
		}
		reqBody.ImageUrl = &imageUrl
		logger.Trace().Msg("stored uploaded image")
	}

	logger = logger.With().Str(log.KeyProcess, "inserting item").Logger()
	logger.Trace().Msg("inserting item")
	c = logger.WithContext(c)
	item, err := ctrl.service.InsertItem(c, userId, reqBody)
	if err != nil {
		err = fmt.Errorf("failed inserting item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": errorStatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Str(log.KeyItemId, item.ID.String()).Msg("inserted item")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    "item created",
		"data": map[string]interface{}{
			"item": item,
		},
	})
}

func (ctrl ItemController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ItemController UpdateItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ItemController UpdateItem").
		Logger()

	userId, err := middleware.UserIdFromContext(c)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    err.Error(),
		})
		return
	}

	logger = logger.With().Str(log.KeyProcess, "getting path value itemId").Logger()
	logger.Trace().Msg("getting path value itemId")
	itemId, err := uuid.Parse(mux.Vars(r)["itemId"])
	if err != nil {
		err = fmt.Errorf("failed getting path value itemId with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(log.KeyItemId, itemId.String()).Logger()
	logger.Trace().Msg("got path value itemId")

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	reqBody, image, err := updateItemBody(r)
	if err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating request body").Logger()
	logger.Trace().Msg("validating request body")
	if err := validate.New().StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Trace().Msg("validated request body")

	if image != nil {
		logger = logger.With().Str(log.KeyProcess, "storing uploaded image").Logger()
		logger.Trace().Msg("storing uploaded image")
		imageUrl, err := ctrl.uploads.Save(image.file, image.header)
		image.file.Close()
		if err != nil {
			err = fmt.Errorf("failed storing uploaded image with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
				"status":     "failed",
				"statusCode": http.StatusBadRequest,
				"message":    err.Error(),
			})
			return
		}
		reqBody.ImageUrl = &imageUrl
		logger.Trace().Msg("stored uploaded image")
	}

	logger = logger.With().Str(log.KeyProcess, "updating item").Logger()
	logger.Trace().Msg("updating item")
	c = logger.WithContext(c)
	item, err := ctrl.service.UpdateItem(c, userId, itemId, reqBody)
	if err != nil {
		err = fmt.Errorf("failed updating item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": errorStatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("updated item")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "item updated",
		"data": map[string]interface{}{
			"item": item,
		},
	})
}

func (ctrl ItemController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ItemController RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ItemController RemoveItem").
		Logger()

	userId, err := middleware.UserIdFromContext(c)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    err.Error(),
		})
		return
	}

	logger = logger.With().Str(log.KeyProcess, "getting path value itemId").Logger()
	logger.Trace().Msg("getting path value itemId")
	itemId, err := uuid.Parse(mux.Vars(r)["itemId"])
	if err != nil {
		err = fmt.Errorf("failed getting path value itemId with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(log.KeyItemId, itemId.String()).Logger()
	logger.Trace().Msg("got path value itemId")

	logger = logger.With().Str(log.KeyProcess, "removing item").Logger()
	logger.Trace().Msg("removing item")
	c = logger.WithContext(c)
	item, err := ctrl.service.RemoveItem(c, userId, itemId)
	if err != nil {
		err = fmt.Errorf("failed removing item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": errorStatusCode(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("removed item")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "item removed",
		"data": map[string]interface{}{
			"item": item,
		},
	})
}

func findItemsParam(r *http.Request) (request.FindItems, error) {
	param := request.FindItems{Page: 1, Limit: 10}
	query := r.URL.Query()
	if v := query.Get("q"); v != "" {
		param.Query = &v
	}
	if v := query.Get("category"); v != "" {
		param.Category = &v
	}
	if v := query.Get("min"); v != "" {
		min, err := decimal.NewFromString(v)
		if err != nil {
			return request.FindItems{}, fmt.Errorf("failed parsing min with error=%w", err)
		}
		param.MinPrice = &min
	}
	if v := query.Get("max"); v != "" {
		max, err := decimal.NewFromString(v)
		if err != nil {
			return request.FindItems{}, fmt.Errorf("failed parsing max with error=%w", err)
		}
		param.MaxPrice = &max
	}
	if v := query.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return request.FindItems{}, fmt.Errorf("failed parsing page with error=%w", err)
		}
		param.Page = page
	}
	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return request.FindItems{}, fmt.Errorf("failed parsing limit with error=%w", err)
		}
		param.Limit = limit
	}
	return param, nil
}

type uploadedImage struct {
	file   multipart.File
	header *multipart.FileHeader
}

func formImage(r *http.Request) (*uploadedImage, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed reading form file image with error=%w", err)
	}
	return &uploadedImage{file: file, header: header}, nil
}

// createItemBody decodes either a json body or a multipart form with an
// optional image file. The caller owns closing the returned file.
func createItemBody(r *http.Request) (request.CreateItem, *uploadedImage, error) {
	reqBody := request.CreateItem{}
	if !isMultipart(r) {
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		if err != nil {
			return request.CreateItem{}, nil, err
		}
		return reqBody, nil, nil
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return request.CreateItem{}, nil, err
	}
	reqBody.Title = r.FormValue("title")
	reqBody.Category = r.FormValue("category")
	if v := r.FormValue("description"); v != "" {
		reqBody.Description = &v
	}
	if v := r.FormValue("price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return request.CreateItem{}, nil, fmt.Errorf("failed parsing price with error=%w", err)
		}
		reqBody.Price = price
	}
	image, err := formImage(r)
	if err != nil {
		return request.CreateItem{}, nil, err
	}
	return reqBody, image, nil
}

// updateItemBody decodes a partial update. In a multipart form only the
// fields actually present in the form are treated as set.
func updateItemBody(r *http.Request) (request.UpdateItem, *uploadedImage, error) {
	reqBody := request.UpdateItem{}
	if !isMultipart(r) {
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		if err != nil {
			return request.UpdateItem{}, nil, err
		}
		return reqBody, nil, nil
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return request.UpdateItem{}, nil, err
	}
	values := r.MultipartForm.Value
	if v, ok := values["title"]; ok && len(v) > 0 {
		reqBody.Title = &v[0]
	}
	if v, ok := values["description"]; ok && len(v) > 0 {
		reqBody.Description = &v[0]
	}
	if v, ok := values["category"]; ok && len(v) > 0 {
		reqBody.Category = &v[0]
	}
	if v, ok := values["price"]; ok && len(v) > 0 {
		price, err := decimal.NewFromString(v[0])
		if err != nil {
			return request.UpdateItem{}, nil, fmt.Errorf("failed parsing price with error=%w", err)
		}
		reqBody.Price = &price
	}
	image, err := formImage(r)
	if err != nil {
		return request.UpdateItem{}, nil, err
	}
	return reqBody, image, nil
}
