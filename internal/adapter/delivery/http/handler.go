package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/uriz/internal/entity"
	"github.com/vadimbarashkov/uriz/internal/token"
)

// statsSuffix appended to a token turns a redirect into a stats lookup.
const statsSuffix = "+"

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "pong")
}

type shortenUseCase interface {
	Shorten(ctx context.Context, longURL string) (string, bool, error)
}

type redirectUseCase interface {
	Resolve(ctx context.Context, tok string) (string, error)
	GetStats(ctx context.Context, tok string) (*entity.ShortURL, error)
}

type urlHandler struct {
	shortenUseCase  shortenUseCase
	redirectUseCase redirectUseCase
	validate        *validator.Validate
	baseURL         string
}

func newURLHandler(
	shortenUseCase shortenUseCase,
	redirectUseCase redirectUseCase,
	validate *validator.Validate,
	baseURL string,
) *urlHandler {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &urlHandler{
		shortenUseCase:  shortenUseCase,
		redirectUseCase: redirectUseCase,
		validate:        validate,
		baseURL:         strings.TrimSuffix(baseURL, "/"),
	}
}

func (h *urlHandler) shortURL(r *http.Request, tok string) string {
	if h.baseURL != "" {
		return h.baseURL + "/" + tok
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s/%s", scheme, r.Host, tok)
}

func (h *urlHandler) shortenURL(w http.ResponseWriter, r *http.Request) {
	var req shortenRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, emptyRequestBodyResponse)
			return
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidRequestBodyResponse)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, validationErrorResponse(err))
		return
	}

	tok, created, err := h.shortenUseCase.Shorten(r.Context(), req.URL)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	render.Status(r, status)
	render.JSON(w, r, shortenResponse{
		Token:    tok,
		LongURL:  req.URL,
		ShortURL: h.shortURL(r, tok),
	})
}

func (h *urlHandler) redirect(w http.ResponseWriter, r *http.Request) {
	tok := chi.URLParam(r, "token")

	if stripped, ok := strings.CutSuffix(tok, statsSuffix); ok {
		h.writeStats(w, r, stripped)
		return
	}

	if !token.IsValid(tok) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, urlNotFoundResponse)
		return
	}

	longURL, err := h.redirectUseCase.Resolve(r.Context(), tok)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, longURL, http.StatusFound)
}

func (h *urlHandler) getStats(w http.ResponseWriter, r *http.Request) {
	h.writeStats(w, r, chi.URLParam(r, "token"))
}

func (h *urlHandler) writeStats(w http.ResponseWriter, r *http.Request, tok string) {
	if !token.IsValid(tok) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, urlNotFoundResponse)
		return
	}

	url, err := h.redirectUseCase.GetStats(r.Context(), tok)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toStatsResponse(url))
}

func (h *urlHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, urlNotFoundResponse)
	case errors.Is(err, entity.ErrStorageUnavailable):
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, storageUnavailableResponse)
	default:
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
	}
}
