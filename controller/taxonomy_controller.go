package controller

import (
	"net/http"

	service "github.com/dvornik/dealdesk/service"

	"github.com/gin-gonic/gin"
)

// TaxonomyController manages HTTP requests for the phase/category/status
// vocabularies and their custom extensions.
type TaxonomyController struct {
	taxonomy *service.TaxonomyService
}

// NewTaxonomyController initializes the controller with the taxonomy store.
func NewTaxonomyController(taxonomy *service.TaxonomyService) *TaxonomyController {
	return &TaxonomyController{taxonomy: taxonomy}
}

// ListValues returns the built-in and custom values of a namespace, each
// decorated with its display label and color token so every view renders
// them identically.
func (c *TaxonomyController) ListValues(ctx *gin.Context) {
	namespace := ctx.Param("namespace")
	values, err := c.taxonomy.ListValues(namespace)
	if err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	decorate := func(tokens []string) []gin.H {
		decorated := make([]gin.H, 0, len(tokens))
		for _, token := range tokens {
			decorated = append(decorated, gin.H{
				"value": token,
				"label": service.DisplayLabel(namespace, token),
				"color": service.ColorClass(namespace, token),
			})
		}
		return decorated
	}

	ctx.JSON(http.StatusOK, gin.H{
		"namespace": namespace,
		"builtin":   decorate(values.Builtin),
		"custom":    decorate(values.Custom),
	})
}

// AddCustomValue extends a namespace with a custom value.
func (c *TaxonomyController) AddCustomValue(ctx *gin.Context) {
	var req struct {
		Value string `json:"value" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Value required", "details": err.Error()})
		return
	}
	namespace := ctx.Param("namespace")
	if err := c.taxonomy.AddCustomValue(namespace, req.Value); err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "Custom value added successfully"})
}

// RemoveCustomValue deletes a custom value from a namespace. Tasks already
// carrying the value keep it.
func (c *TaxonomyController) RemoveCustomValue(ctx *gin.Context) {
	value := ctx.Param("value")
	if value == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Value required"})
		return
	}
	if err := c.taxonomy.RemoveCustomValue(ctx.Param("namespace"), value); err != nil {
		ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Custom value removed successfully"})
}
