package get

import (
	"context"
	"log/slog"
	"net/http"

	"slots-service/api"
	"slots-service/pkg/response"
	"slots-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type WeekViewer interface {
	GetWeekView(ctx context.Context, business string, withSource bool) (api.WeekView, error)
}

type Response struct {
	response.Response
	Week api.WeekView `json:"week,omitempty"`
}

func New(log *slog.Logger, viewer WeekViewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.week.get.New"

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

		withSource := r.URL.Query().Get("with_source") == "true"

		week, err := viewer.GetWeekView(r.Context(), business, withSource)
		if err != nil {
			log.Error("Failed to resolve week view", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to resolve week view"))
			return
		}

		log.Info("Week view resolved", slog.String("business", business), slog.Bool("with_source", withSource))

		render.JSON(w, r, Response{
			Week: week,
		})
	}
}
