package toggle

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

type DayToggler interface {
	ToggleDay(ctx context.Context, business string, req *api.ToggleDayRequest) (*api.OverrideResponse, error)
}

type Request struct {
	api.ToggleDayRequest
}

type Response struct {
	response.Response
	Override *api.OverrideResponse `json:"override,omitempty"`
}

func New(log *slog.Logger, toggler DayToggler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.overrides.toggle.New"

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

		override, err := toggler.ToggleDay(r.Context(), business, &req.ToggleDayRequest)

		if errors.Is(err, response.ErrValidation) {
			log.Error("validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid date"))
			return
		}

		if errors.Is(err, response.ErrLocked) {
			log.Error("resource is locked")
			w.WriteHeader(http.StatusLocked)
			render.JSON(w, r, response.Error(string(response.LOCKED), "resource is locked"))
			return
		}

		if err != nil {
			log.Error("Failed to toggle day", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to toggle day"))
			return
		}

		log.Info("Day toggled", slog.String("date", req.Date), slog.Bool("enabled", req.Enabled))

		render.JSON(w, r, Response{
			Override: override,
		})
	}
}
