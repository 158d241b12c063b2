package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"

	helper "github.com/paveroute/paveroute/pkg/http/router/routerhelper"
	"github.com/paveroute/paveroute/pkg/monitoring"
	"github.com/paveroute/paveroute/pkg/util"

	"go.uber.org/zap"
)

type routingAPI struct {
	routingService RoutingService
	log            *zap.Logger
}

func New(routingService RoutingService, log *zap.Logger) *routingAPI {
	return &routingAPI{
		routingService: routingService,
		log:            log,
	}
}

func (api *routingAPI) Routes(group *helper.RouteGroup) {
	group.GET("/route", api.route)
	group.GET("/segments/:id/score", api.segmentScore)
	group.GET("/stats", api.stats)
}

// route godoc
//
//	@Summary		Compute a route between two points
//	@Description	Finds a route over the scored road network. The composite profile balances pavement quality, climbing, and distance, fastest minimizes pavement-weighted travel time, shortest minimizes distance.
//	@Tags			routing
//	@Param			origin_lat		query	number	true	"origin latitude"
//	@Param			origin_lon		query	number	true	"origin longitude"
//	@Param			destination_lat	query	number	true	"destination latitude"
//	@Param			destination_lon	query	number	true	"destination longitude"
//	@Param			profile			query	string	false	"composite | fastest | shortest"
//	@Produce		json
//	@Success		200
//	@Router			/route [get]
func (api *routingAPI) route(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request routeRequest
		err     error
	)

	query := r.URL.Query()

	request.OriginLat, err = util.StringToFloat64(query.Get("origin_lat"))
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("origin_lat is required and must be a valid float"))
		return
	}
	request.OriginLon, err = util.StringToFloat64(query.Get("origin_lon"))
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("origin_lon is required and must be a valid float"))
		return
	}
	request.DestinationLat, err = util.StringToFloat64(query.Get("destination_lat"))
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("destination_lat is required and must be a valid float"))
		return
	}
	request.DestinationLon, err = util.StringToFloat64(query.Get("destination_lon"))
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("destination_lon is required and must be a valid float"))
		return
	}
	request.Profile = query.Get("profile")
	if request.Profile == "" {
		request.Profile = "composite"
	}

	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vvString))
		return
	}

	start := time.Now()
	path, analysis, err := api.routingService.Route(request.OriginLat, request.OriginLon,
		request.DestinationLat, request.DestinationLon, request.Profile)
	monitoring.RouteRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		monitoring.RouteRequestsTotal.WithLabelValues(request.Profile, "error").Inc()
		api.getStatusCode(w, r, err)
		return
	}
	monitoring.RouteRequestsTotal.WithLabelValues(request.Profile, "ok").Inc()

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": NewRouteResponse(path, request.Profile, analysis)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

// segmentScore godoc
//
//	@Summary	Pavement score of one road segment
//	@Tags		segments
//	@Param		id	path	string	true	"segment id (from_to_key)"
//	@Produce	json
//	@Success	200
//	@Router		/segments/{id}/score [get]
func (api *routingAPI) segmentScore(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	segmentID := p.ByName("id")
	if segmentID == "" {
		api.BadRequestResponse(w, r, errors.New("segment id is required"))
		return
	}

	score, err := api.routingService.SegmentScore(segmentID)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": NewSegmentScoreResponse(score)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

// stats godoc
//
//	@Summary	Pavement condition summary of the whole network
//	@Tags		stats
//	@Produce	json
//	@Success	200
//	@Router		/stats [get]
func (api *routingAPI) stats(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": NewStatsResponse(api.routingService.NetworkStats())}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}
