package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/manzanit0/geocoding/pkg/geocode"
)

type resultPayload struct {
	Label     string  `json:"label"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

type controller struct {
	geocoders       map[string]geocode.Geocoder
	defaultProvider string
}

func newController(geocoders map[string]geocode.Geocoder, defaultProvider string) *controller {
	return &controller{geocoders: geocoders, defaultProvider: defaultProvider}
}

func (ctrl *controller) register(r gin.IRoutes) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/geocode", ctrl.geocode)
	r.GET("/reverse", ctrl.reverse)
	r.GET("/location", ctrl.location)
}

func (ctrl *controller) geocode(c *gin.Context) {
	g, ok := ctrl.lookupProvider(c)
	if !ok {
		return
	}

	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
		return
	}

	results, err := g.Geocode(q)
	if err != nil {
		respondError(c, err)
		return
	}

	respondResults(c, results)
}

func (ctrl *controller) reverse(c *gin.Context) {
	g, ok := ctrl.lookupProvider(c)
	if !ok {
		return
	}

	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid lon %q", c.Query("lon"))})
		return
	}

	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid lat %q", c.Query("lat"))})
		return
	}

	results, err := g.Reverse(lon, lat)
	if err != nil {
		respondError(c, err)
		return
	}

	respondResults(c, results)
}

// location answers with the best candidate only, in geo-golang's shape.
func (ctrl *controller) location(c *gin.Context) {
	g, ok := ctrl.lookupProvider(c)
	if !ok {
		return
	}

	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
		return
	}

	loc, err := geocode.AsGeoGeocoder(g).Geocode(q)
	if err != nil {
		respondError(c, err)
		return
	}

	if loc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no location found for %q", q)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"latitude": loc.Lat, "longitude": loc.Lng})
}

func (ctrl *controller) lookupProvider(c *gin.Context) (geocode.Geocoder, bool) {
	name := strings.ToLower(strings.TrimSpace(c.Query("provider")))
	if name == "" {
		name = strings.ToLower(ctrl.defaultProvider)
	}
	if name == "openstreetmap" || name == "nominatim" {
		name = geocode.ProviderOpenstreetmap
	}

	g, ok := ctrl.geocoders[name]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown provider %q", name)})
		return nil, false
	}

	return g, true
}

func respondResults(c *gin.Context, results []geocode.Result) {
	payload := make([]resultPayload, len(results))
	for i, r := range results {
		payload[i] = resultPayload{
			Label:     r.Label,
			Longitude: r.Coordinate.Longitude,
			Latitude:  r.Coordinate.Latitude,
		}
	}

	c.JSON(http.StatusOK, gin.H{"results": payload})
}

func respondError(c *gin.Context, err error) {
	var gerr *geocode.Error
	if !errors.As(err, &gerr) {
		slog.ErrorContext(c.Request.Context(), "unexpected geocoding error", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	slog.WarnContext(c.Request.Context(), "geocoding failed",
		"provider", gerr.Provider,
		"kind", gerr.Kind.String(),
		"error", err.Error())

	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "kind": gerr.Kind.String()})
}
