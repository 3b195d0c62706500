package controller

import (
	"errors"
	"net/http"

	service "github.com/dvornik/dealdesk/service"

	"github.com/gin-gonic/gin"
)

// DealController manages HTTP requests for deals, their tasks and templates.
type DealController struct {
	deals     *service.DealService
	tasks     *service.TaskService
	templates *service.TemplateService
}

// NewDealController initializes the controller with its services.
func NewDealController(deals *service.DealService, tasks *service.TaskService, templates *service.TemplateService) *DealController {
	return &DealController{deals: deals, tasks: tasks, templates: templates}
}

// errorStatus maps service errors to HTTP status codes.
func errorStatus(err error) int {
	var validation *service.ValidationError
	var notFound *service.NotFoundError
	var duplicate *service.DuplicateValueError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &duplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// CreateDeal creates a deal.
func (c *DealController) CreateDeal(ctx *gin.Context) {
	var input service.DealInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	deal, err := c.deals.CreateDeal(input)
	if err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, deal)
}

// GetAllDeals lists all deals.
func (c *DealController) GetAllDeals(ctx *gin.Context) {
	deals, err := c.deals.GetAllDeals()
	if err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"deals": deals,
		"total": len(deals),
	})
}

// GetDeal fetches one deal.
func (c *DealController) GetDeal(ctx *gin.Context) {
	deal, err := c.deals.GetDeal(ctx.Param("id"))
	if err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, deal)
}

// UpdateDeal replaces a deal's fields with the request body; the end date is
// recomputed from the new start date.
func (c *DealController) UpdateDeal(ctx *gin.Context) {
	var input service.DealInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	deal, err := c.deals.UpdateDeal(ctx.Param("id"), input)
	if err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, deal)
}

// DeleteDeal removes a deal and its tasks.
func (c *DealController) DeleteDeal(ctx *gin.Context) {
	if err := c.deals.DeleteDeal(ctx.Param("id")); err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Deal deleted successfully"})
}

// GetDealActivity lists the activity trail for a deal.
func (c *DealController) GetDealActivity(ctx *gin.Context) {
	entries, err := c.deals.GetDealActivity(ctx.Param("id"))
	if err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"activity": entries,
		"total":    len(entries),
	})
}

// ApplyTemplate materializes a template's items as tasks on a deal and
// reports per-item outcomes. Partial failure is a 200 with both lists; the
// summary reports "created X of Y".
func (c *DealController) ApplyTemplate(ctx *gin.Context) {
	result, err := c.templates.ApplyTemplate(ctx.Param("id"), ctx.Param("templateId"))
	if err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message":  result.Summary(),
		"batch_id": result.BatchID,
		"created":  result.CreatedTasks,
		"failures": result.Failures,
		"affected": result.Affected,
	})
}
