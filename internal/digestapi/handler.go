// Package digestapi wires the digest pipeline's collaborators and exposes
// it over HTTP (spec.md §6): connect-log-degrade startup for every optional
// external dependency, then a small fiber.App with one business route and
// one metrics route.
package digestapi

import (
	"context"
	"strconv"
	"time"

	"worker_server/infra/database"
	"worker_server/internal/digest"
	"worker_server/internal/digest/domain"
	"worker_server/internal/stream"
	"worker_server/pkg/apperr"
	"worker_server/pkg/metrics"
	"worker_server/pkg/ratelimit"
	"worker_server/pkg/response"
	"worker_server/pkg/snowflake"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const metricsEndpointDigest = "digest.generate"

// Handler exposes the digest core over HTTP. protector is never nil: with a
// nil Redis client its sliding-window limit allows every call, while its
// concurrency semaphore and in-process debounce still apply (a repeat call
// with the same key inside the debounce window is refused); producer may be
// nil, in which case the completion-event publish is skipped.
type Handler struct {
	core      *digest.Core
	ids       *snowflake.Generator
	protector *ratelimit.APIProtector
	producer  *stream.Producer
	redis     *redis.Client
}

func NewHandler(core *digest.Core, ids *snowflake.Generator, protector *ratelimit.APIProtector, producer *stream.Producer, redisClient *redis.Client) *Handler {
	return &Handler{core: core, ids: ids, protector: protector, producer: producer, redis: redisClient}
}

func (h *Handler) Register(app *fiber.App) {
	app.Post("/v1/digest", h.GenerateDigest)
	app.Get("/v1/digest/metrics", h.Metrics)
}

// Metrics exposes the running p50/p95/p99 of GenerateDigest latency plus
// any registered database pool stats, grounded on pkg/metrics's own
// global-registry convenience functions.
func (h *Handler) Metrics(c *fiber.Ctx) error {
	payload := fiber.Map{
		"latency":  metrics.GetAllLatencyStats(),
		"db_pools": metrics.GetAllPoolHealth(),
	}
	if h.redis != nil {
		payload["redis"] = database.GetRedisStats(h.redis)
	}
	return response.OK(c, payload)
}

type emailRequest struct {
	ID         string `json:"id"`
	ThreadID   string `json:"thread_id"`
	Subject    string `json:"subject"`
	Snippet    string `json:"snippet"`
	From       string `json:"from"`
	Date       string `json:"date"`
	Type       string `json:"type"`
	Importance string `json:"importance"`
}

type generateRequest struct {
	UserID       string         `json:"user_id"`
	Emails       []emailRequest `json:"emails"`
	UserTimezone string         `json:"user_timezone"`
	UserName     string         `json:"user_name"`
	CityHint     string         `json:"city_hint"`
	RegionHint   string         `json:"region_hint"`
	RawDigest    bool           `json:"raw_digest"`
}

// GenerateDigest handles POST /v1/digest: the single entrypoint named in
// spec.md §6. An unparseable body or an empty email list gets a 400 and a
// refused rate-limit check a 429; otherwise it returns 200 with a structured
// Output even on internal pipeline failure (the fallback is embedded in the
// response).
func (h *Handler) GenerateDigest(c *fiber.Ctx) error {
	var req generateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.New(apperr.CodeBadRequest, "invalid request body", fiber.StatusBadRequest)
	}
	if len(req.Emails) == 0 {
		return apperr.New(apperr.CodeMissingField, "emails is required and must be non-empty", fiber.StatusBadRequest)
	}

	protectKey := req.UserID
	if protectKey == "" {
		protectKey = c.IP()
	}
	result, release := h.protector.Acquire(c.Context(), protectKey)
	if !result.Allowed {
		return response.Error(c, fiber.StatusTooManyRequests, "RATE_LIMITED", result.Reason)
	}
	defer release()

	emails := make([]domain.Email, 0, len(req.Emails))
	for _, e := range req.Emails {
		emails = append(emails, domain.Email{
			ID:         e.ID,
			ThreadID:   e.ThreadID,
			Subject:    e.Subject,
			Snippet:    e.Snippet,
			From:       e.From,
			Date:       e.Date,
			Type:       e.Type,
			Importance: e.Importance,
		})
	}

	started := time.Now()
	out := h.core.Generate(c.Context(), digest.RunInput{
		UserID:       req.UserID,
		Emails:       emails,
		Now:          started,
		UserTimezone: req.UserTimezone,
		UserName:     req.UserName,
		CityHint:     req.CityHint,
		RegionHint:   req.RegionHint,
		RawDigest:    req.RawDigest,
	})
	metrics.RecordLatency(metricsEndpointDigest, time.Since(started))

	runID, err := h.ids.Generate()
	if err != nil {
		runID = time.Now().UnixNano()
	}

	go h.producer.PublishDigestGenerated(context.Background(), req.UserID, stream.DigestGeneratedEvent{
		Fallback:      out.Fallback,
		Verified:      out.Verified,
		CriticalCount: out.CriticalCount,
		FeaturedCount: out.FeaturedCount,
	})

	return response.OK(c, digestResponse{Output: out, RunID: strconv.FormatInt(runID, 10)})
}

// digestResponse embeds digest.Output so its fields stay top-level in the
// JSON payload, adding the snowflake-generated run ID that correlates this
// response with the digest:generated stream event it produced.
type digestResponse struct {
	digest.Output
	RunID string `json:"run_id"`
}
