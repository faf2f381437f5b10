package utils

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

const (
	DefaultLimit = 200
	MaxLimit     = 500
)

func ParseFilterFromQuery(values url.Values) types.Filter {
	filterReq := types.Filter{
		Sort:   make(map[string]string),
		Filter: make(map[string]string),
		Limit:  DefaultLimit,
		Page:   1,
	}

	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			if l > MaxLimit {
				filterReq.Limit = MaxLimit
			} else {
				filterReq.Limit = l
			}
		}
	}

	if pageStr := values.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			filterReq.Page = p
		}
	}

	if offsetStr := values.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filterReq.Offset = o
		}
	} else {
		filterReq.Offset = (filterReq.Page - 1) * filterReq.Limit
	}

	// По умолчанию без пагинации: список отдается целиком, как в старом клиенте.
	filterReq.WithPagination = values.Get("withPagination") == "true"

	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}

		switch key {
		case "search":
			filterReq.Search = vals[0]
			continue
		case "date_from":
			filterReq.DateFrom = vals[0]
			continue
		case "date_to":
			filterReq.DateTo = vals[0]
			continue
		}

		if strings.HasPrefix(key, "sort[") && strings.HasSuffix(key, "]") {
			field := key[5 : len(key)-1]
			direction := strings.ToLower(vals[0])
			if direction == "asc" || direction == "desc" {
				filterReq.Sort[field] = direction
			}
			continue
		}

		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			field := key[7 : len(key)-1]
			filterReq.Filter[field] = vals[0]
		}
	}

	return filterReq
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HTTPResponse{Status: true, Message: message}
	withPagination, _ := strconv.ParseBool(ctx.QueryParam("withPagination"))
	if withPagination && len(total) > 0 {
		filter := ParseFilterFromQuery(ctx.Request().URL.Query())
		totalPages := 0
		if filter.Limit > 0 {
			totalPages = (int(total[0]) + filter.Limit - 1) / filter.Limit
		}
		pagination := types.Pagination{
			TotalCount: total[0],
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalPages: totalPages,
		}
		response.Body = map[string]interface{}{"list": body, "pagination": pagination}
	} else {
		response.Body = body
	}
	return ctx.JSON(code, response)
}

// ToHttpError переводит ошибки сервисов в HTTP-коды.
func ToHttpError(err error, message string) *apperrors.HttpError {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	var invalid *apperrors.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		return apperrors.NewHttpError(http.StatusBadRequest, invalid.Message, nil, nil)
	case errors.Is(err, apperrors.ErrNotFound):
		return apperrors.NewHttpError(http.StatusNotFound, apperrors.ErrNotFound.Error(), nil, nil)
	case errors.Is(err, apperrors.ErrBadRequest):
		return apperrors.NewHttpError(http.StatusBadRequest, err.Error(), nil, nil)
	case errors.Is(err, apperrors.ErrConflict):
		return apperrors.NewHttpError(http.StatusConflict, apperrors.ErrConflict.Error(), nil, nil)
	case errors.Is(err, apperrors.ErrFileTooLarge), errors.Is(err, apperrors.ErrFileTypeRejected):
		return apperrors.NewHttpError(http.StatusBadRequest, err.Error(), nil, nil)
	}
	return apperrors.NewHttpError(http.StatusInternalServerError, message, err, nil)
}

func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("Поле '%s' не прошло проверку '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"status": false, "message": "Ошибка валидации: " + strings.Join(msgs, "; ")})
	}

	var httpErr *apperrors.HttpError
	if !errors.As(err, &httpErr) {
		httpErr = ToHttpError(err, "Внутренняя ошибка сервера")
	}

	if httpErr.Err != nil {
		logger.Error("HTTP Error",
			zap.Int("code", httpErr.Code),
			zap.String("message", httpErr.Message),
			zap.Error(httpErr.Err),
			zap.Any("context", httpErr.Context),
		)
	}

	response := map[string]interface{}{
		"status":  false,
		"message": httpErr.Message,
	}
	if httpErr.Details != nil {
		response["body"] = httpErr.Details
	}

	return c.JSON(httpErr.Code, response)
}
