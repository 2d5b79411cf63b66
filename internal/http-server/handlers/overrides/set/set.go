package set

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"slots-service/api"
	"slots-service/pkg/response"
	"slots-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type OverrideEditor interface {
	OverrideAction(ctx context.Context, business string, req *api.OverrideActionRequest) (*api.OverrideResponse, error)
}

type Request struct {
	api.OverrideActionRequest
}

type Response struct {
	response.Response
	Override *api.OverrideResponse `json:"override,omitempty"`
}

func New(log *slog.Logger, editor OverrideEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.overrides.set.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		business := chi.URLParam(r, "business")
		if business == "" {
			log.Error("business is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "business is required"))
			return
		}

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.Any("request", req))

		if req.Date == "" {
			log.Error("date is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "date is required"))
			return
		}

		if req.Action == "" {
			log.Error("action is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "action is required"))
			return
		}

		override, err := editor.OverrideAction(r.Context(), business, &req.OverrideActionRequest)

		if errors.Is(err, response.ErrValidation) {
			log.Error("validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid date, action or time"))
			return
		}

		if errors.Is(err, response.ErrLocked) {
			log.Error("resource is locked")
			w.WriteHeader(http.StatusLocked)
			render.JSON(w, r, response.Error(string(response.LOCKED), "resource is locked"))
			return
		}

		if err != nil {
			log.Error("Failed to apply override action", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to apply override action"))
			return
		}

		log.Info("Override updated", slog.Any("override", override))

		render.JSON(w, r, Response{
			Override: override,
		})
	}
}
