package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/lintang-b-s/navigatorx-ch/pkg/server"
	"github.com/lintang-b-s/navigatorx-ch/pkg/server/rest/service"
	"github.com/lintang-b-s/navigatorx-ch/pkg/util"
)

type NavigationService interface {
	ShortestPath(ctx context.Context, srcLat, srcLon, dstLat, dstLon float64) (service.PathResult, error)
	ShortestPathVertices(ctx context.Context, sources, targets []uint32) (service.PathResult, error)
	DistanceMatrix(ctx context.Context, sources, targets []uint32) ([][]float32, error)
}

type NavigationHandler struct {
	svc      NavigationService
	metrics  *Metrics
	validate *validator.Validate
	trans    ut.Translator
}

func NavigatorRouter(r *chi.Mux, svc NavigationService, m *Metrics) {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	validate := validator.New()
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	handler := &NavigationHandler{svc: svc, metrics: m, validate: validate, trans: trans}

	r.Group(func(r chi.Router) {
		r.Route("/api/navigations", func(r chi.Router) {
			r.Post("/shortest-path", handler.ShortestPath)
			r.Post("/shortest-path-vertices", handler.ShortestPathVertices)
			r.Post("/distance-matrix", handler.DistanceMatrix)
		})
	})
}

// ShortestPathRequest model info
//
//	@Description	request body shortest path, koordinat asal & tujuan di-snap ke vertex terdekat
type ShortestPathRequest struct {
	SrcLat float64 `json:"src_lat" validate:"required,lt=90,gt=-90"`
	SrcLon float64 `json:"src_lon" validate:"required,lt=180,gt=-180"`
	DstLat float64 `json:"dst_lat" validate:"required,lt=90,gt=-90"`
	DstLon float64 `json:"dst_lon" validate:"required,lt=180,gt=-180"`
}

func (s *ShortestPathRequest) Bind(r *http.Request) error {
	return nil
}

// VerticesRequest model info
//
//	@Description	request body query pakai id vertex road network
type VerticesRequest struct {
	Sources []uint32 `json:"sources" validate:"required,min=1"`
	Targets []uint32 `json:"targets" validate:"required,min=1"`
}

func (s *VerticesRequest) Bind(r *http.Request) error {
	if len(s.Sources) == 0 || len(s.Targets) == 0 {
		return errors.New("invalid request")
	}
	return nil
}

// ShortestPathResponse model info
//
//	@Description	response body shortest path, path di-encode pakai google polyline
type ShortestPathResponse struct {
	Path     string   `json:"path"`
	Vertices []uint32 `json:"vertices"`
	Weight   float32  `json:"weight"`
	Distance float32  `json:"distance"`
	Time     float32  `json:"time"`
	Found    bool     `json:"found"`
}

func RenderShortestPathResponse(res service.PathResult) *ShortestPathResponse {
	vertices := res.Vertices
	if vertices == nil {
		vertices = []uint32{}
	}
	return &ShortestPathResponse{
		Path:     res.Path,
		Vertices: vertices,
		Weight:   res.Weight,
		Distance: float32(util.RoundFloat(float64(res.Distance), 2)),
		Time:     float32(util.RoundFloat(float64(res.Time), 2)),
		Found:    res.Found,
	}
}

// DistanceMatrixResponse model info
//
//	@Description	response body distance matrix, -1 kalau target tidak reachable
type DistanceMatrixResponse struct {
	Sources []uint32    `json:"sources"`
	Targets []uint32    `json:"targets"`
	Weights [][]float32 `json:"weights"`
}

func (h *NavigationHandler) bindAndValidate(w http.ResponseWriter, r *http.Request, data render.Binder) bool {
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return false
	}
	if err := h.validate.Struct(data); err != nil {
		render.Render(w, r, ErrValidation(err, translateError(err, h.trans)))
		return false
	}
	return true
}

// ShortestPath
//
//	@Summary		shortest path antara dua koordinat. Contraction Hierarchies + Bidirectional Dijkstra
//	@Description	shortest path antara dua koordinat. Koordinat di-snap ke vertex road network terdekat lalu di-query ke contracted graph
//	@Tags			navigations
//	@Param			body	body	ShortestPathRequest	true	"request body shortest path"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/shortest-path [post]
//	@Success		200	{object}	ShortestPathResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) ShortestPath(w http.ResponseWriter, r *http.Request) {
	data := &ShortestPathRequest{}
	if !h.bindAndValidate(w, r, data) {
		return
	}

	res, err := h.svc.ShortestPath(r.Context(), data.SrcLat, data.SrcLon, data.DstLat, data.DstLon)
	if err != nil {
		render.Render(w, r, ErrorResponse(err))
		return
	}
	h.metrics.observeRoute(res.Found)

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RenderShortestPathResponse(res))
}

// ShortestPathVertices
//
//	@Summary		shortest path many-to-many pakai id vertex, path terpendek dari semua pasangan sources x targets
//	@Tags			navigations
//	@Param			body	body	VerticesRequest	true	"request body sources & targets"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/shortest-path-vertices [post]
//	@Success		200	{object}	ShortestPathResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) ShortestPathVertices(w http.ResponseWriter, r *http.Request) {
	data := &VerticesRequest{}
	if !h.bindAndValidate(w, r, data) {
		return
	}

	res, err := h.svc.ShortestPathVertices(r.Context(), data.Sources, data.Targets)
	if err != nil {
		render.Render(w, r, ErrorResponse(err))
		return
	}
	h.metrics.observeRoute(res.Found)

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RenderShortestPathResponse(res))
}

// DistanceMatrix
//
//	@Summary		distance matrix sources x targets
//	@Tags			navigations
//	@Param			body	body	VerticesRequest	true	"request body sources & targets"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/distance-matrix [post]
//	@Success		200	{object}	DistanceMatrixResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) DistanceMatrix(w http.ResponseWriter, r *http.Request) {
	data := &VerticesRequest{}
	if !h.bindAndValidate(w, r, data) {
		return
	}

	matrix, err := h.svc.DistanceMatrix(r.Context(), data.Sources, data.Targets)
	if err != nil {
		render.Render(w, r, ErrorResponse(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &DistanceMatrixResponse{Sources: data.Sources, Targets: data.Targets, Weights: matrix})
}

// ErrResponse model info
//
//	@Description	model untuk error response
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	ErrorText     string   `json:"error,omitempty"` // application-level error message
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

// ErrorResponse. status dari server.ErrorKind, pesan dari *server.Error kalau ada.
func ErrorResponse(err error) render.Renderer {
	status := server.ErrorKind(err)
	msg := "internal server error"
	var ierr *server.Error
	if errors.As(err, &ierr) {
		msg = ierr.Message()
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: status,
		StatusText:     http.StatusText(status),
		ErrorText:      msg,
	}
}

func translateError(err error, trans ut.Translator) (errs []error) {
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		errs = append(errs, fmt.Errorf("%s", e.Translate(trans)))
	}
	return errs
}
