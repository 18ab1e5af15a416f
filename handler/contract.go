package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/AZREAL-08/contractiq-backend/middleware"
	"github.com/AZREAL-08/contractiq-backend/model"
	"github.com/AZREAL-08/contractiq-backend/service"
	"github.com/gin-gonic/gin"
)

// ContractHandler exposes the extraction pipeline and the notification
// machinery over HTTP. It is glue: contract semantics live in service/.
type ContractHandler struct {
	extractor  *service.Extractor
	scheduler  *service.Scheduler
	dispatcher *service.Dispatcher
	store      service.NotificationStore
}

func NewContractHandler(extractor *service.Extractor, scheduler *service.Scheduler, dispatcher *service.Dispatcher, store service.NotificationStore) *ContractHandler {
	return &ContractHandler{
		extractor:  extractor,
		scheduler:  scheduler,
		dispatcher: dispatcher,
		store:      store,
	}
}

type extractRequest struct {
	ContractText   string `json:"contract_text" binding:"required"`
	RecipientEmail string `json:"recipient_email" binding:"required,email"`
	ContractID     string `json:"contract_id"`
}

// Extract runs structured extraction on the submitted contract text and
// schedules termination reminders for the caller.
func (h *ContractHandler) Extract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx := c.Request.Context()

	record, err := h.extractor.Extract(ctx, req.ContractText)
	if err != nil {
		var genErr *service.GenerationError
		var parseErr *service.ParseError
		var schemaErr *model.SchemaError
		switch {
		case errors.As(err, &genErr):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Extraction service failed: " + err.Error()})
		case errors.As(err, &parseErr):
			c.JSON(http.StatusBadGateway, gin.H{
				"error":        "Extraction produced invalid JSON",
				"raw_response": parseErr.Raw,
			})
		case errors.As(err, &schemaErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":          "Extracted record failed schema validation",
				"invalid_fields": schemaErr.Fields,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	contractID, schedule, err := h.scheduler.Schedule(ctx, record, req.RecipientEmail, req.ContractID)
	if err != nil {
		var schedErr *service.SchedulingError
		if errors.As(err, &schedErr) {
			// Extraction succeeded, only scheduling was skipped
			c.JSON(http.StatusOK, gin.H{
				"record":           record,
				"schedule_skipped": schedErr.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist schedule: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contract_id": contractID,
		"record":      record,
		"schedule":    schedule,
	})
}

// ListSchedules returns the whole notification ledger.
func (h *ContractHandler) ListSchedules(c *gin.Context) {
	schedules, err := h.store.Load()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load schedules: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": schedules})
}

// GetSchedule returns one contract's schedule
func (h *ContractHandler) GetSchedule(c *gin.Context) {
	schedules, err := h.store.Load()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load schedules: " + err.Error()})
		return
	}

	schedule, ok := schedules[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// Sweep triggers a dispatcher sweep for today. The background loop normally
// covers this; the endpoint exists for operators and tests.
func (h *ContractHandler) Sweep(c *gin.Context) {
	result, err := h.dispatcher.RunSweep(c.Request.Context(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Sweep failed: " + err.Error(),
			"request_id": middleware.GetRequestID(c),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}
