package check

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

type SlotChecker interface {
	IsSlotAvailable(ctx context.Context, business, date, timeOfDay string) (bool, error)
}

type Response struct {
	response.Response
	Slot *api.SlotCheckResponse `json:"slot,omitempty"`
}

func New(log *slog.Logger, checker SlotChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.slots.check.New"

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

		date := r.URL.Query().Get("date")
		timeOfDay := r.URL.Query().Get("time")
		if date == "" || timeOfDay == "" {
			log.Error("date or time is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "date and time are required"))
			return
		}

		available, err := checker.IsSlotAvailable(r.Context(), business, date, timeOfDay)

		if errors.Is(err, response.ErrValidation) {
			log.Error("invalid date or time", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid date or time"))
			return
		}

		if err != nil {
			log.Error("Failed to check slot", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to check slot"))
			return
		}

		log.Info("Slot checked",
			slog.String("date", date),
			slog.String("time", timeOfDay),
			slog.Bool("available", available),
		)

		render.JSON(w, r, Response{
			Slot: &api.SlotCheckResponse{Date: date, Time: timeOfDay, Available: available},
		})
	}
}
