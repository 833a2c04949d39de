package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/xavierca1/signature-campaign/internal/entity"
	"github.com/xavierca1/signature-campaign/internal/usecase"
)

// BrokerStatus is satisfied by *queue.RabbitMQ.
type BrokerStatus interface {
	IsClosed() bool
}

type HealthHandler struct {
	Store     entity.SignatureRepository
	Broker    BrokerStatus
	Roster    usecase.RosterProvider
	StartTime time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(store entity.SignatureRepository, broker BrokerStatus, roster usecase.RosterProvider) *HealthHandler {
	return &HealthHandler{
		Store:     store,
		Broker:    broker,
		Roster:    roster,
		StartTime: time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]string)

	if h.Store != nil {
		if err := h.Store.Ping(ctx); err != nil {
			deps["store"] = fmt.Sprintf("unhealthy: %v", err)
		} else {
			deps["store"] = "healthy"
		}
	} else {
		deps["store"] = "not configured"
	}

	if h.Broker != nil {
		if h.Broker.IsClosed() {
			deps["rabbitmq"] = "unhealthy: connection closed"
		} else {
			deps["rabbitmq"] = "healthy"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	if h.Roster != nil {
		roster, err := h.Roster.Roster(ctx)
		switch {
		case err != nil:
			deps["roster"] = fmt.Sprintf("unhealthy: %v", err)
		case len(roster.HREmails()) == 0:
			deps["roster"] = "unhealthy: no HR recipients"
		default:
			deps["roster"] = "healthy"
		}
	} else {
		deps["roster"] = "not configured"
	}

	status := "healthy"
	for _, v := range deps {
		if v != "healthy" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	})
}
