package controller

import (
	"net/http"

	service "github.com/dvornik/dealdesk/service"

	"github.com/gin-gonic/gin"
)

// CreateTemplate creates a checklist template.
func (c *DealController) CreateTemplate(ctx *gin.Context) {
	var input service.TemplateInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	template, err := c.templates.CreateTemplate(input)
	if err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, template)
}

// GetAllTemplates lists all templates.
func (c *DealController) GetAllTemplates(ctx *gin.Context) {
	templates, err := c.templates.GetAllTemplates()
	if err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"templates": templates,
		"total":     len(templates),
	})
}

// GetTemplate fetches one template with its items.
func (c *DealController) GetTemplate(ctx *gin.Context) {
	template, err := c.templates.GetTemplate(ctx.Param("id"))
	if err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	items, err := c.templates.GetTemplateItems(template.ID)
	if err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"template": template,
		"items":    items,
	})
}

// GetDefaultTemplate fetches the template preselected for new deals.
func (c *DealController) GetDefaultTemplate(ctx *gin.Context) {
	template, err := c.templates.GetDefaultTemplate()
	if err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, template)
}

// UpdateTemplate updates a template.
func (c *DealController) UpdateTemplate(ctx *gin.Context) {
	var input service.TemplateInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	template, err := c.templates.UpdateTemplate(ctx.Param("id"), input)
	if err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, template)
}

// DeleteTemplate removes a template and all of its items.
func (c *DealController) DeleteTemplate(ctx *gin.Context) {
	if err := c.templates.DeleteTemplate(ctx.Param("id")); err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Template and its items deleted successfully"})
}

// AddTemplateItem appends an item to a template.
func (c *DealController) AddTemplateItem(ctx *gin.Context) {
	var input service.TemplateItemInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := c.templates.AddTemplateItem(ctx.Param("id"), input)
	if err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, item)
}

// UpdateTemplateItem updates one template item.
func (c *DealController) UpdateTemplateItem(ctx *gin.Context) {
	var input service.TemplateItemInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := c.templates.UpdateTemplateItem(ctx.Param("itemId"), input)
	if err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, item)
}

// DeleteTemplateItem removes one template item.
func (c *DealController) DeleteTemplateItem(ctx *gin.Context) {
	if err := c.templates.DeleteTemplateItem(ctx.Param("itemId")); err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Template item deleted successfully"})
}
