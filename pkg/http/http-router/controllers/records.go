package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	helper "github.com/lintang-b-s/osm-wrangler/pkg/http/http-router/router-helper"
	"github.com/lintang-b-s/osm-wrangler/pkg/http/usecases"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type recordsAPI struct {
	recordService RecordService
	log           *zap.Logger
}

func New(recordService RecordService, log *zap.Logger) *recordsAPI {
	return &recordsAPI{
		recordService: recordService,
		log:           log,
	}
}

func (api *recordsAPI) Routes(group *helper.RouteGroup) {
	group.GET("/records/:type/:id", api.getRecord)
	group.GET("/stats", api.stats)
	group.POST("/normalize", api.normalize)
	group.POST("/classify", api.classify)
}

type recordRequest struct {
	Type string `validate:"required,oneof=node way"`
	ID   string `validate:"required,numeric"`
}

func (api *recordsAPI) getRecord(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	request := recordRequest{Type: ps.ByName("type"), ID: ps.ByName("id")}
	if err := validateRequest(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	rec, err := api.recordService.Record(request.Type, request.ID)
	if errors.Is(err, usecases.ErrRecordNotFound) {
		api.NotFoundResponse(w, r, err)
		return
	} else if err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": rec}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// top is optional, the service picks its default when it is absent.
type statsRequest struct {
	Top int `validate:"omitempty,min=1,max=100"`
}

func (api *recordsAPI) stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request statsRequest
	if top := r.URL.Query().Get("top"); top != "" {
		n, err := strconv.Atoi(top)
		if err != nil {
			api.BadRequestResponse(w, r, fmt.Errorf("validation error: top must be an integer"))
			return
		}
		if n <= 0 {
			api.BadRequestResponse(w, r, fmt.Errorf("validation error: top must be 1 or greater"))
			return
		}
		request.Top = n
	}
	if err := validateRequest(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	stats, err := api.recordService.Stats(request.Top)
	if err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": stats}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

type normalizeRequest struct {
	Street string `json:"street" validate:"required,max=512"`
}

func (api *recordsAPI) normalize(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request normalizeRequest
	if err := api.readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := validateRequest(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	result := api.recordService.Normalize(request.Street)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": result}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

type classifyRequest struct {
	Key   string `json:"key" validate:"required,max=255"`
	Value string `json:"value" validate:"max=4096"`
}

func (api *recordsAPI) classify(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request classifyRequest
	if err := api.readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := validateRequest(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	decision := api.recordService.Classify(request.Key, request.Value)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": decision}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
