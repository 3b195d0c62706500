package controller

import (
	"net/http"

	service "github.com/dvornik/dealdesk/service"

	"github.com/gin-gonic/gin"
)

// CreateTask creates a task under a deal from direct user entry.
func (c *DealController) CreateTask(ctx *gin.Context) {
	var input service.TaskInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := c.tasks.CreateTask(ctx.Param("id"), input)
	if err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, task)
}

// GetDealTasks lists all tasks of a deal.
func (c *DealController) GetDealTasks(ctx *gin.Context) {
	tasks, err := c.tasks.GetDealTasks(ctx.Param("id"))
	if err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"total": len(tasks),
	})
}

// GetGroupedTasks partitions a deal's tasks per the requested view mode and
// filters. Query params: view (phase|category|owner|date), sort (asc|desc),
// plus optional phase/category/owner/status equality filters.
func (c *DealController) GetGroupedTasks(ctx *gin.Context) {
	var filters service.TaskFilters
	if err := ctx.ShouldBindQuery(&filters); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mode := service.ViewMode(ctx.DefaultQuery("view", string(service.ViewByPhase)))
	dateDesc := ctx.Query("sort") == "desc"

	groups, err := c.tasks.GroupDealTasks(ctx.Param("id"), mode, filters, dateDesc)
	if err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"view":   mode,
		"groups": groups,
	})
}

// GetTask fetches one task.
func (c *DealController) GetTask(ctx *gin.Context) {
	task, err := c.tasks.GetTask(ctx.Param("id"))
	if err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, task)
}

// UpdateTask updates a task.
func (c *DealController) UpdateTask(ctx *gin.Context) {
	var input service.TaskInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := c.tasks.UpdateTask(ctx.Param("id"), input)
	if err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, task)
}

// CompleteTask marks a task completed.
func (c *DealController) CompleteTask(ctx *gin.Context) {
	task, err := c.tasks.CompleteTask(ctx.Param("id"))
	if err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Task marked as completed",
		"task":    task,
	})
}

// ReopenTask reverts a completed task to the not-started baseline.
func (c *DealController) ReopenTask(ctx *gin.Context) {
	task, err := c.tasks.ReopenTask(ctx.Param("id"))
	if err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Task reopened",
		"task":    task,
	})
}

// DeleteTask removes a task.
func (c *DealController) DeleteTask(ctx *gin.Context) {
	if err := c.tasks.DeleteTask(ctx.Param("id")); err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// SearchTasks full-text searches indexed tasks.
func (c *DealController) SearchTasks(ctx *gin.Context) {
	query := ctx.Query("q")
	if query == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'q' is required"})
		return
	}
	results, err := c.tasks.SearchTasks(query)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Search completed successfully",
		"results": results,
	})
}
