package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-outlook/internal/assistant"
	"github.com/i474232898/weather-outlook/internal/report"
	"github.com/i474232898/weather-outlook/internal/store"
	"github.com/i474232898/weather-outlook/internal/visit"
	"github.com/i474232898/weather-outlook/internal/weather"
)

var validate = validator.New()

// Handler serves the outlook API.
type Handler struct {
	service *weather.Service
	opener  *visit.Opener
	visits  *store.MemoryStore
}

func NewHandler(service *weather.Service, opener *visit.Opener, visits *store.MemoryStore) *Handler {
	return &Handler{service: service, opener: opener, visits: visits}
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, h *Handler) {
	v1 := app.Group("/api/v1")

	v1.Get("/places/search", h.searchPlace)
	v1.Get("/places/reverse", h.reversePlace)

	v1.Post("/outlooks", h.createOutlook)
	v1.Get("/outlooks/:id", h.getOutlook)
	v1.Get("/outlooks/:id/history", h.getHistory)
	v1.Get("/outlooks/:id/report", h.getReport)
	v1.Get("/outlooks/:id/chat", h.getChat)
	v1.Post("/outlooks/:id/chat", h.postChat)
}

func (h *Handler) searchPlace(c *fiber.Ctx) error {
	place, err := h.service.ResolveByName(c.UserContext(), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(place)
}

func (h *Handler) reversePlace(c *fiber.Ctx) error {
	q := reverseQuery{Lat: c.Query("lat"), Lon: c.Query("lon")}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	lat, lon, err := q.coordinates()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	place, err := h.service.ResolveByCoordinates(c.UserContext(), lat, lon)
	if err != nil {
		return err
	}
	return c.JSON(place)
}

func (h *Handler) createOutlook(c *fiber.Ctx) error {
	var req outlookRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	q, err := req.query()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	v, err := h.opener.Open(c.UserContext(), q)
	if err != nil {
		return err
	}
	h.visits.Save(v)

	return c.Status(fiber.StatusCreated).JSON(newOutlookResponse(v))
}

func (h *Handler) getOutlook(c *fiber.Ctx) error {
	v, err := h.visits.Get(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(newOutlookResponse(v))
}

func (h *Handler) getHistory(c *fiber.Ctx) error {
	v, err := h.visits.Get(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"id":      v.ID,
		"history": v.History(c.UserContext()),
	})
}

func (h *Handler) getReport(c *fiber.Ctx) error {
	q := reportQuery{Format: c.Query("format", "json")}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "format must be json or csv")
	}

	v, err := h.visits.Get(c.Params("id"))
	if err != nil {
		return err
	}

	r := v.Report(c.UserContext())
	var body string
	if q.Format == "csv" {
		body, err = report.ToCSV(r)
	} else {
		body, err = report.ToJSON(r)
	}
	if err != nil {
		return err
	}

	c.Attachment(report.Filename(r, q.Format))
	return c.SendString(body)
}

func (h *Handler) getChat(c *fiber.Ctx) error {
	v, err := h.visits.Get(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(newChatResponse(v.Assistant()))
}

// postChat answers 200 even when the completer fails: the failure is part
// of the transcript as an error notice.
func (h *Handler) postChat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	v, err := h.visits.Get(c.Params("id"))
	if err != nil {
		return err
	}

	session := v.Assistant()
	if err := session.Send(c.UserContext(), req.Message); err != nil {
		if errors.Is(err, assistant.ErrBusy) || errors.Is(err, assistant.ErrEmptyMessage) || errors.Is(err, assistant.ErrNotReady) {
			return err
		}
	}
	return c.JSON(newChatResponse(session))
}

// reverseQuery holds query parameters for reverse geocoding.
type reverseQuery struct {
	Lat string `validate:"required,latitude"`
	Lon string `validate:"required,longitude"`
}

func (q reverseQuery) coordinates() (float64, float64, error) {
	lat, err := strconv.ParseFloat(q.Lat, 64)
	if err != nil {
		return 0, 0, errors.New("invalid lat")
	}
	lon, err := strconv.ParseFloat(q.Lon, 64)
	if err != nil {
		return 0, 0, errors.New("invalid lon")
	}
	return lat, lon, nil
}

// outlookRequest is the CheckWeather body. Location text wins over the
// coordinate pair when both are present.
type outlookRequest struct {
	Location  string   `json:"location"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
	Date      string   `json:"date"`
}

func (r outlookRequest) query() (weather.Query, error) {
	q := weather.Query{Text: r.Location}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		return weather.Query{}, errors.New("latitude and longitude must be given together")
	}
	if r.Latitude != nil {
		q.Coordinates = &weather.Coordinates{Latitude: *r.Latitude, Longitude: *r.Longitude}
	}
	if r.Date != "" {
		d, err := weather.ParseDate(r.Date)
		if err != nil {
			return weather.Query{}, errors.New("invalid date format; use YYYY-MM-DD")
		}
		q.Date = d
	}
	return q, nil
}

type reportQuery struct {
	Format string `validate:"oneof=json csv"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type outlookResponse struct {
	ID             string                 `json:"id"`
	Place          weather.Place          `json:"place"`
	Date           string                 `json:"date"`
	Stats          weather.Stats          `json:"stats"`
	Classification weather.Classification `json:"classification"`
	CreatedAt      time.Time              `json:"createdAt"`
}

func newOutlookResponse(v *visit.Visit) outlookResponse {
	o := v.Outlook()
	return outlookResponse{
		ID:             v.ID,
		Place:          o.Place,
		Date:           o.DateString(),
		Stats:          o.Stats,
		Classification: o.Classification,
		CreatedAt:      v.CreatedAt,
	}
}

type chatResponse struct {
	State         assistant.State  `json:"state"`
	PolicyVersion string           `json:"policyVersion"`
	Transcript    []assistant.Turn `json:"transcript"`
}

func newChatResponse(s *assistant.Session) chatResponse {
	return chatResponse{
		State:         s.State(),
		PolicyVersion: s.PolicyVersion(),
		Transcript:    s.Transcript(),
	}
}
