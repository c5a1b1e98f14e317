package server

import (
	"github.com/labstack/echo/v4"

	"example.com/ayur-diet-planner/backend/internal/auth"
	"example.com/ayur-diet-planner/backend/internal/handlers"
	"example.com/ayur-diet-planner/backend/internal/models"
)

type routeHandlers struct {
	auth          *handlers.AuthHandler
	patients      *handlers.PatientHandler
	foods         *handlers.FoodHandler
	plans         *handlers.PlanHandler
	meals         *handlers.MealHandler
	generator     *handlers.GeneratorHandler
	stats         *handlers.StatsHandler
	notifications *handlers.NotificationHandler
	admin         *handlers.AdminHandler
	ready         echo.HandlerFunc
}

type routeMiddleware struct {
	auth        echo.MiddlewareFunc
	authLimiter echo.MiddlewareFunc
	planLimiter echo.MiddlewareFunc
}

func registerRoutes(e *echo.Echo, h routeHandlers, mw routeMiddleware) {
	e.GET("/health", handlers.Health)
	e.GET("/ready", h.ready)

	staff := auth.RequireRoles(models.StaffRoles...)
	planners := auth.RequireRoles(models.PlannerRoles...)
	admins := auth.RequireRoles(models.AdminRoles...)
	superAdmin := auth.RequireRoles(models.RoleSuperAdmin)

	api := e.Group("/api/v1")
	authGroup := api.Group("/auth", mw.authLimiter)

	authGroup.POST("/register", h.auth.Register)
	authGroup.POST("/login", h.auth.Login)
	authGroup.POST("/refresh", h.auth.Refresh)
	authGroup.POST("/logout", h.auth.Logout)
	authGroup.GET("/me", h.auth.Me, mw.auth)

	api.GET("/questionnaire", h.patients.Questionnaire, mw.auth)

	patients := api.Group("/patients", mw.auth)
	patients.GET("", h.patients.List)
	patients.POST("", h.patients.Create, staff)
	patients.GET("/:id", h.patients.Get)
	patients.PUT("/:id", h.patients.Update, staff)
	patients.DELETE("/:id", h.patients.Delete, planners)
	patients.GET("/:id/assessments", h.patients.ListAssessments)
	patients.POST("/:id/assessments", h.patients.Assess, staff)

	foods := api.Group("/foods", mw.auth)
	foods.GET("", h.foods.List)
	foods.GET("/:id", h.foods.Get)
	foods.POST("", h.foods.Create, planners)
	foods.PUT("/:id", h.foods.Update, planners)
	foods.DELETE("/:id", h.foods.Delete, planners)

	plans := api.Group("/diet-plans", mw.auth)
	plans.GET("", h.plans.List)
	plans.POST("", h.plans.Create, planners)
	plans.GET("/:id", h.plans.Get)
	plans.PUT("/:id", h.plans.Update, planners)
	plans.DELETE("/:id", h.plans.Delete, planners)
	plans.POST("/:id/duplicate", h.plans.Duplicate, planners)
	plans.GET("/:id/export/json", h.plans.ExportJSON)
	plans.GET("/:id/export/csv", h.plans.ExportCSV)

	meals := api.Group("/meals", mw.auth, planners)
	meals.PUT("/:mealId", h.meals.UpdateMeal)
	meals.POST("/:mealId/foods", h.meals.AddFood)
	meals.PATCH("/:mealId/foods/reorder", h.meals.ReorderFoods)

	mealFoods := api.Group("/meal-foods", mw.auth, planners)
	mealFoods.PUT("/:mealFoodId", h.meals.UpdateFood)
	mealFoods.DELETE("/:mealFoodId", h.meals.DeleteFood)

	generator := api.Group("/generator", mw.auth, planners, mw.planLimiter)
	generator.POST("/preview", h.generator.Preview)
	generator.POST("/patients/:patientId", h.generator.GenerateForPatient)

	stats := api.Group("/stats", mw.auth, staff)
	stats.GET("/overview", h.stats.Overview)
	stats.GET("/doshas", h.stats.Doshas)
	stats.GET("/monthly", h.stats.Monthly)

	notifications := api.Group("/notifications", mw.auth)
	notifications.GET("/stream", h.notifications.Stream)

	admin := api.Group("/admin", mw.auth, admins)
	admin.GET("/users", h.admin.ListUsers)
	admin.PATCH("/users/:id/role", h.admin.UpdateUserRole, superAdmin)
	admin.GET("/generations", h.admin.ListGenerations)
	admin.GET("/usage", h.admin.Usage)
}
