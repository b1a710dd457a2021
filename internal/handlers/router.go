package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/cnds86/kiptrack/internal/middleware"
	"github.com/cnds86/kiptrack/internal/services"
)

// Services bundles everything the HTTP layer calls.
type Services struct {
	Ready         ReadinessChecker
	Accounts      services.AccountServicer
	Transactions  services.TransactionServicer
	Goals         services.GoalServicer
	Recurring     services.RecurringServicer
	Categories    services.CategoryServicer
	Currencies    services.CurrencyServicer
	Notifications services.NotificationServicer
	Proposals     services.ProposalServicer
	Backup        services.BackupServicer
}

// NewRouter wires every handler onto a Gin engine. apiKey guards /api/v1;
// an empty key leaves it open.
func NewRouter(svc Services, apiKey string) *gin.Engine {
	health := NewHealthHandler(svc.Ready)
	accountHandler := NewAccountHandler(svc.Accounts)
	transactionHandler := NewTransactionHandler(svc.Transactions)
	goalHandler := NewGoalHandler(svc.Goals)
	recurringHandler := NewRecurringHandler(svc.Recurring)
	categoryHandler := NewCategoryHandler(svc.Categories)
	currencyHandler := NewCurrencyHandler(svc.Currencies)
	notificationHandler := NewNotificationHandler(svc.Notifications)
	proposalHandler := NewProposalHandler(svc.Proposals)
	backupHandler := NewBackupHandler(svc.Backup)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+middleware.APIKeyHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/api/health", health.Health)

	v1 := router.Group("/api/v1")
	v1.GET("/health", health.Health)

	protected := v1.Group("/")
	protected.Use(middleware.APIKeyAuth(apiKey))

	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.ListAccounts)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
	protected.GET("/summary", transactionHandler.GetSummary)

	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.ListGoals)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.POST("/:id/deposit", goalHandler.Deposit)
	goals.DELETE("/:id", goalHandler.DeleteGoal)

	recurring := protected.Group("/recurring")
	recurring.POST("", recurringHandler.CreateRecurring)
	recurring.GET("", recurringHandler.ListRecurring)
	recurring.POST("/process", recurringHandler.ProcessDue)
	recurring.DELETE("/:id", recurringHandler.DeleteRecurring)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.ListCategories)
	categories.DELETE("/:type/:id", categoryHandler.DeleteCategory)

	currencies := protected.Group("/currencies")
	currencies.GET("", currencyHandler.ListCurrencies)
	currencies.POST("", currencyHandler.AddCurrency)
	currencies.POST("/refresh", currencyHandler.RefreshRates)
	currencies.PUT("/:code", currencyHandler.UpdateCurrency)
	currencies.DELETE("/:code", currencyHandler.DeleteCurrency)
	currencies.POST("/:code/base", currencyHandler.SetBaseCurrency)

	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.ListNotifications)
	notifications.DELETE("", notificationHandler.ClearNotifications)

	ai := protected.Group("/ai")
	ai.POST("/parse", proposalHandler.ParseText)
	ai.POST("/receipt", proposalHandler.ParseReceipt)
	ai.POST("/apply", proposalHandler.Apply)
	ai.POST("/advice", proposalHandler.Advice)

	backup := protected.Group("/backup")
	backup.GET("", backupHandler.Export)
	backup.POST("", backupHandler.Import)
	backup.GET("/transactions.csv", backupHandler.ExportCSV)

	return router
}
