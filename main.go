package main

import (
	"log"
	"net/http"
	"os"

	controller "github.com/dvornik/dealdesk/controller"
	"github.com/dvornik/dealdesk/initializers"
	middleware "github.com/dvornik/dealdesk/middleware"
	service "github.com/dvornik/dealdesk/service"

	"github.com/gin-gonic/gin"
)

func init() {
	if err := initializers.LoadEnv(); err != nil {
		log.Println("[WARN] No .env file loaded; relying on process environment")
	}
	if err := initializers.ConnectDB(); err != nil {
		log.Fatalf("[CRITICAL] Failed to initialize database connection: %s", err)
	}
	if err := initializers.Migrate(); err != nil {
		log.Fatalf("[CRITICAL] Failed to run database migrations: %s", err)
	}
}

func main() {
	taxonomyService, err := service.NewTaxonomyService(initializers.DB)
	if err != nil {
		log.Fatalf("Failed to initialize taxonomy service: %s", err)
	}
	taskService, err := service.NewTaskService(initializers.DB, taxonomyService)
	if err != nil {
		log.Fatalf("Failed to initialize task service: %s", err)
	}
	dealService := service.NewDealService(initializers.DB)
	templateService := service.NewTemplateService(initializers.DB, taxonomyService, taskService)

	dealController := controller.NewDealController(dealService, taskService, templateService)
	taxonomyController := controller.NewTaxonomyController(taxonomyService)

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())

	// Global rate limiter for most routes
	router.Use(middleware.APILimiter.Limit())

	// Healthcheck endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Deals
	router.POST("/deals", dealController.CreateDeal)
	router.GET("/deals", dealController.GetAllDeals)
	router.GET("/deals/:id", dealController.GetDeal)
	router.PUT("/deals/:id", dealController.UpdateDeal)
	router.DELETE("/deals/:id",
		middleware.ApplyLimiter.Limit(),
		dealController.DeleteDeal)
	router.GET("/deals/:id/activity", dealController.GetDealActivity)

	// Template application is the heavy bulk endpoint
	router.POST("/deals/:id/apply-template/:templateId",
		middleware.ApplyLimiter.Limit(),
		dealController.ApplyTemplate)

	// Tasks
	router.POST("/deals/:id/tasks", dealController.CreateTask)
	router.GET("/deals/:id/tasks", dealController.GetDealTasks)
	router.GET("/deals/:id/tasks/grouped", dealController.GetGroupedTasks)
	router.GET("/tasks/search", dealController.SearchTasks)
	router.GET("/tasks/:id", dealController.GetTask)
	router.PUT("/tasks/:id", dealController.UpdateTask)
	router.PUT("/tasks/:id/complete", dealController.CompleteTask)
	router.PUT("/tasks/:id/reopen", dealController.ReopenTask)
	router.DELETE("/tasks/:id", dealController.DeleteTask)

	// Templates
	router.POST("/templates",
		middleware.ApplyLimiter.Limit(),
		dealController.CreateTemplate)
	router.GET("/templates", dealController.GetAllTemplates)
	router.GET("/templates/default", dealController.GetDefaultTemplate)
	router.GET("/templates/:id", dealController.GetTemplate)
	router.PUT("/templates/:id", dealController.UpdateTemplate)
	router.DELETE("/templates/:id",
		middleware.ApplyLimiter.Limit(),
		dealController.DeleteTemplate)
	router.POST("/templates/:id/items", dealController.AddTemplateItem)
	router.PUT("/templates/:id/items/:itemId", dealController.UpdateTemplateItem)
	router.DELETE("/templates/:id/items/:itemId", dealController.DeleteTemplateItem)

	// Taxonomy
	router.GET("/taxonomy/:namespace", taxonomyController.ListValues)
	router.POST("/taxonomy/:namespace",
		middleware.ApplyLimiter.Limit(),
		taxonomyController.AddCustomValue)
	router.DELETE("/taxonomy/:namespace/:value",
		middleware.ApplyLimiter.Limit(),
		taxonomyController.RemoveCustomValue)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	router.Run(":" + port)
}
