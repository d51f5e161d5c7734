package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/XavierBriggs/Beacon/internal/aggregator"
	"github.com/XavierBriggs/Beacon/internal/logx"
	"github.com/XavierBriggs/Beacon/pkg/models"
)

const (
	defaultLimit = 50
	maxLimit     = 200
	dateLayout   = "2006-01-02"
)

// SearchRequest is the external request shape; every field is optional at
// the JSON level and validated as a whole afterwards.
type SearchRequest struct {
	Latitude   *float64 `json:"latitude" form:"latitude"`
	Longitude  *float64 `json:"longitude" form:"longitude"`
	Radius     float64  `json:"radius" form:"radius"`
	Location   string   `json:"location" form:"location"`
	StartDate  string   `json:"startDate" form:"startDate"`
	EndDate    string   `json:"endDate" form:"endDate"`
	DatePreset string   `json:"datePreset" form:"datePreset"`
	Categories []string `json:"categories" form:"categories"`
	Keyword    string   `json:"keyword" form:"keyword"`
	Limit      int      `json:"limit" form:"limit"`
	Page       int      `json:"page" form:"page"`
	Offset     *int     `json:"offset" form:"offset"`
	Sort       string   `json:"sort" form:"sort"`
	UseCache   *bool    `json:"useCache" form:"useCache"`
}

// RegisterSearchRoutes wires the event search endpoint. GET takes query
// params, POST a JSON body; both share validation and the engine path.
func RegisterSearchRoutes(r gin.IRoutes, engine *aggregator.Engine) {
	handle := func(c *gin.Context) {
		var req SearchRequest
		var err error
		if c.Request.Method == http.MethodPost {
			err = c.ShouldBindJSON(&req)
		} else {
			err = bindQuery(c, &req)
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
			return
		}

		params, fieldErrors := req.Validate()
		if len(fieldErrors) > 0 {
			// Report every invalid field, not just the first.
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fieldErrors})
			return
		}

		params.RequestID = uuid.New().String()

		result, err := engine.Search(c.Request.Context(), params)
		if err != nil {
			// Only context cancellation or a pipeline panic recovery path
			// lands here; provider failures are contained in sourceStats.
			logx.Error("search failed", err, "requestId", params.RequestID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
			return
		}

		c.JSON(http.StatusOK, result)
	}

	r.GET("/events/search", handle)
	r.POST("/events/search", handle)
}

// bindQuery parses GET query parameters by hand: categories arrive
// comma-separated and numeric fields need explicit presence checks that
// form binding cannot express.
func bindQuery(c *gin.Context, req *SearchRequest) error {
	if v, ok := c.GetQuery("latitude"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errField("latitude")
		}
		req.Latitude = &f
	}
	if v, ok := c.GetQuery("longitude"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errField("longitude")
		}
		req.Longitude = &f
	}
	if v, ok := c.GetQuery("radius"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errField("radius")
		}
		req.Radius = f
	}
	req.Location = c.Query("location")
	req.StartDate = c.Query("startDate")
	req.EndDate = c.Query("endDate")
	req.DatePreset = c.Query("datePreset")
	req.Keyword = c.Query("keyword")
	req.Sort = c.Query("sort")
	if v := c.Query("categories"); v != "" {
		req.Categories = strings.Split(v, ",")
	}
	if v, ok := c.GetQuery("limit"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errField("limit")
		}
		req.Limit = n
	}
	if v, ok := c.GetQuery("page"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errField("page")
		}
		req.Page = n
	}
	if v, ok := c.GetQuery("offset"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errField("offset")
		}
		req.Offset = &n
	}
	if v, ok := c.GetQuery("useCache"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errField("useCache")
		}
		req.UseCache = &b
	}
	return nil
}

type fieldError string

func errField(name string) fieldError { return fieldError(name) }

func (f fieldError) Error() string { return "unparseable field: " + string(f) }

// Validate checks the request as a whole and converts it into canonical
// SearchParams. The returned map lists every invalid field.
func (r SearchRequest) Validate() (models.SearchParams, map[string]string) {
	fieldErrors := map[string]string{}

	if (r.Latitude == nil) != (r.Longitude == nil) {
		fieldErrors["latitude"] = "latitude and longitude must be provided together"
		fieldErrors["longitude"] = "latitude and longitude must be provided together"
	}
	if r.Latitude != nil && (*r.Latitude < -90 || *r.Latitude > 90) {
		fieldErrors["latitude"] = "must be within [-90, 90]"
	}
	if r.Longitude != nil && (*r.Longitude < -180 || *r.Longitude > 180) {
		fieldErrors["longitude"] = "must be within [-180, 180]"
	}
	if r.Radius < 0 {
		fieldErrors["radius"] = "must be positive"
	}
	if r.Latitude == nil && r.Longitude == nil && strings.TrimSpace(r.Location) == "" {
		fieldErrors["location"] = "either coordinates or a location is required"
	}

	params := models.SearchParams{
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Radius:    r.Radius,
		Location:  strings.TrimSpace(r.Location),
		Keyword:   strings.TrimSpace(r.Keyword),
		UseCache:  true,
	}
	if params.Radius == 0 {
		params.Radius = 25 // default search radius, miles
	}
	if r.UseCache != nil {
		params.UseCache = *r.UseCache
	}

	if r.StartDate != "" {
		t, err := time.Parse(dateLayout, r.StartDate)
		if err != nil {
			fieldErrors["startDate"] = "must be YYYY-MM-DD"
		} else {
			params.StartDate = &t
		}
	}
	if r.EndDate != "" {
		t, err := time.Parse(dateLayout, r.EndDate)
		if err != nil {
			fieldErrors["endDate"] = "must be YYYY-MM-DD"
		} else {
			// End of day, so an endDate equal to startDate still admits
			// that day's events.
			end := t.AddDate(0, 0, 1).Add(-time.Second)
			params.EndDate = &end
		}
	}
	if params.StartDate != nil && params.EndDate != nil && params.EndDate.Before(*params.StartDate) {
		fieldErrors["endDate"] = "must not precede startDate"
	}

	switch models.DatePreset(r.DatePreset) {
	case models.PresetNone, models.PresetToday, models.PresetWeek, models.PresetMonth:
		params.DatePreset = models.DatePreset(r.DatePreset)
	default:
		fieldErrors["datePreset"] = "must be one of today, week, month"
	}

	for _, raw := range r.Categories {
		cat := models.Category(strings.ToLower(strings.TrimSpace(raw)))
		if !models.ValidCategory(cat) {
			fieldErrors["categories"] = "unknown category: " + raw
			continue
		}
		params.Categories = append(params.Categories, cat)
	}

	switch models.SortOrder(r.Sort) {
	case "", models.SortByDate:
		params.Sort = models.SortByDate
	case models.SortByDistance:
		if r.Latitude == nil {
			fieldErrors["sort"] = "distance sort requires coordinates"
		}
		params.Sort = models.SortByDistance
	default:
		fieldErrors["sort"] = "must be one of date, distance"
	}

	params.Limit = r.Limit
	if params.Limit <= 0 {
		params.Limit = defaultLimit
	}
	if params.Limit > maxLimit {
		fieldErrors["limit"] = "must not exceed 200"
	}

	switch {
	case r.Offset != nil && r.Page > 0:
		fieldErrors["page"] = "page and offset are mutually exclusive"
	case r.Offset != nil:
		if *r.Offset < 0 {
			fieldErrors["offset"] = "must not be negative"
		} else {
			params.Offset = *r.Offset
		}
	case r.Page > 0:
		params.Offset = (r.Page - 1) * params.Limit
	case r.Page < 0:
		fieldErrors["page"] = "must be positive"
	}

	if len(fieldErrors) > 0 {
		return models.SearchParams{}, fieldErrors
	}
	return params, nil
}
