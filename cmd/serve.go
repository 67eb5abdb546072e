package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"shiftclose/internal/bootstrap"
	"shiftclose/internal/bootstrap/logging"
	domainshift "shiftclose/internal/domain/shift"
	"shiftclose/internal/errs"
	"shiftclose/internal/usecase/shift"
)

const maxFormBodyBytes = 4 << 20

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP adapter for closing shifts",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *shift.Service) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		ctx = logging.WithAttrs(ctx, slog.String("command", cmd.CommandPath()))

		addr, _ := cmd.Flags().GetString("addr")
		addr = strings.TrimSpace(addr)
		if addr == "" {
			addr = app.Config.HTTP.Addr
		}

		server := &http.Server{
			Addr:              addr,
			Handler:           newShiftHTTPHandler(svc),
			ReadHeaderTimeout: 10 * time.Second,
			BaseContext:       func(net.Listener) context.Context { return ctx },
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logging.Warn(ctx, "http server shutdown failed", slog.Any("err", errs.Loggable(err)))
			}
		}()

		logging.Info(ctx, "shift http server started", slog.String("addr", addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error(ctx, "shift http server failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "serve shift http")
		}
		return nil
	}),
}

type shiftHTTPService interface {
	Close(ctx context.Context, input shift.CloseInput) (shift.CloseResult, error)
	GetEvent(ctx context.Context, eventID uint64) (shift.EventDetail, error)
	CurrentEvent(ctx context.Context) (shift.EventDetail, error)
}

type shiftHTTPHandler struct {
	svc shiftHTTPService
}

type shiftHTTPResponse struct {
	OK         bool               `json:"ok"`
	FolderPath string             `json:"folder_path,omitempty"`
	Result     *shift.CloseResult `json:"result,omitempty"`
	Event      *shift.EventDetail `json:"event,omitempty"`
	Error      string             `json:"error,omitempty"`
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default: http.addr from config)")
}

func newShiftHTTPHandler(svc shiftHTTPService) http.Handler {
	h := &shiftHTTPHandler{svc: svc}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/events/current", h.handleCurrent)
	r.Route("/events/{id}", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.Post("/finish", h.closeHandler(domainshift.StrategyFinish))
		r.Post("/export", h.closeHandler(domainshift.StrategyExport))
		r.Post("/close", h.closeHandler(domainshift.StrategyLegacyClose))
	})
	return r
}

func (h *shiftHTTPHandler) closeHandler(strategy domainshift.CloseStrategy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithAttrs(
			r.Context(),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("strategy", string(strategy)),
		)

		eventID, err := parseEventID(chi.URLParam(r, "id"))
		if err != nil {
			writeShiftError(w, http.StatusBadRequest, err.Error())
			return
		}

		formData, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxFormBodyBytes))
		if err != nil {
			writeShiftError(w, http.StatusBadRequest, "failed to read form body")
			return
		}
		if len(strings.TrimSpace(string(formData))) == 0 {
			formData = nil
		}

		result, err := h.svc.Close(ctx, shift.CloseInput{
			EventID:  eventID,
			FormData: formData,
			Strategy: strategy,
		})
		if err != nil {
			status := statusForError(err)
			if status == http.StatusInternalServerError {
				logging.Error(ctx, "close shift request failed", slog.Any("err", errs.Loggable(err)))
			}
			writeShiftError(w, status, err.Error())
			return
		}

		writeWebJSON(w, http.StatusOK, shiftHTTPResponse{
			OK:         true,
			FolderPath: result.FolderPath,
			Result:     &result,
		})
	}
}

func (h *shiftHTTPHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseEventID(chi.URLParam(r, "id"))
	if err != nil {
		writeShiftError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.svc.GetEvent(r.Context(), eventID)
	if err != nil {
		writeShiftError(w, statusForError(err), err.Error())
		return
	}
	writeWebJSON(w, http.StatusOK, shiftHTTPResponse{OK: true, Event: &event})
}

func (h *shiftHTTPHandler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.CurrentEvent(r.Context())
	if err != nil {
		writeShiftError(w, statusForError(err), err.Error())
		return
	}
	writeWebJSON(w, http.StatusOK, shiftHTTPResponse{OK: true, Event: &event})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domainshift.ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainshift.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, domainshift.ErrInvalidFormData),
		errors.Is(err, domainshift.ErrUnknownStrategy),
		errors.Is(err, domainshift.ErrInvalidEventDate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeShiftError(w http.ResponseWriter, status int, message string) {
	writeWebJSON(w, status, shiftHTTPResponse{OK: false, Error: message})
}

func writeWebJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = writeJSON(w, value)
}
