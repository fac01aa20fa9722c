package handlers

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/escalation-service/internal/api/dto"
	"github.com/spec-kit/escalation-service/internal/auth"
	"github.com/spec-kit/escalation-service/internal/domain"
	"github.com/spec-kit/escalation-service/internal/service"
	apperrors "github.com/spec-kit/escalation-service/pkg/util/errorutil"
)

const maxBulkRows = 1000

// EscalationsHandler manages case submission and lifecycle endpoints.
type EscalationsHandler struct {
	service *service.EscalationService
}

// NewEscalationsHandler constructs handler.
func NewEscalationsHandler(escalationService *service.EscalationService) *EscalationsHandler {
	return &EscalationsHandler{service: escalationService}
}

// Create POST /escalations.
func (h *EscalationsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateEscalationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Customer) == "" {
		return apperrors.NewValidationError("customer required", nil)
	}

	outcome, err := h.service.Submit(c.Context(), toRecord(req, domain.SourceManual))
	if err != nil {
		return err
	}

	resp := submitResponse(outcome)
	if outcome.Created {
		return c.Status(http.StatusCreated).JSON(fiber.Map{"data": resp})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateBulk POST /escalations/bulk.
func (h *EscalationsHandler) CreateBulk(c *fiber.Ctx) error {
	var req dto.BulkEscalationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.Rows) == 0 {
		return apperrors.NewValidationError("rows required", nil)
	}
	if len(req.Rows) > maxBulkRows {
		return apperrors.NewValidationError("too many rows", map[string]any{"max": maxBulkRows})
	}

	records := make([]domain.CanonicalInputRecord, 0, len(req.Rows))
	for _, row := range req.Rows {
		records = append(records, toRecord(row, domain.SourceUpload))
	}
	result := h.service.BulkSubmit(c.Context(), records)
	return c.JSON(fiber.Map{"data": result})
}

// List GET /escalations.
func (h *EscalationsHandler) List(c *fiber.Ctx) error {
	cases, err := h.service.Snapshot(c.Context())
	if err != nil {
		return err
	}
	if status := c.Query("status"); status != "" {
		cases = filterByStatus(cases, domain.CaseStatus(strings.ToUpper(strings.TrimSpace(status))))
	}
	return c.JSON(fiber.Map{"data": dto.ToCaseResponses(cases)})
}

// Get GET /escalations/:id.
func (h *EscalationsHandler) Get(c *fiber.Ctx) error {
	found, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToCaseResponse(found)})
}

// UpdateStatus PATCH /escalations/:id/status.
func (h *EscalationsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	actingOwner := req.Owner
	if actingOwner == "" {
		if operator, ok := auth.OperatorFromContext(c); ok {
			actingOwner = operator
		}
	}

	updated, err := h.service.UpdateStatus(c.Context(), c.Params("id"), req.Status, actingOwner)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToCaseResponse(updated)})
}

// Export GET /escalations/export.
func (h *EscalationsHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.service.ExportCSV(c.Context(), &buf); err != nil {
		return err
	}
	filename := "escalations-" + time.Now().UTC().Format("20060102-150405") + ".csv"
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

func toRecord(req dto.CreateEscalationRequest, source domain.Source) domain.CanonicalInputRecord {
	record := domain.CanonicalInputRecord{
		Customer:  req.Customer,
		IssueText: req.IssueText,
		Source:    source,
		Owner:     req.Owner,
	}
	if req.ReportedAt != nil {
		record.ReportedAt = *req.ReportedAt
	}
	return record
}

func submitResponse(outcome *service.SubmitOutcome) dto.SubmitResponse {
	resp := dto.SubmitResponse{}
	switch {
	case outcome.Created:
		resp.Message = "escalation created"
		resp.ID = outcome.Case.ID
		resp.Case = dto.ToCaseResponse(outcome.Case)
	case outcome.DuplicateOf != "":
		resp.Message = "open escalation already exists"
		resp.DuplicateOf = outcome.DuplicateOf
	default:
		resp.Message = "no escalation required"
	}
	return resp
}

func filterByStatus(cases []domain.Case, status domain.CaseStatus) []domain.Case {
	filtered := make([]domain.Case, 0, len(cases))
	for i := range cases {
		if cases[i].Status == status {
			filtered = append(filtered, cases[i])
		}
	}
	return filtered
}
