package router

import (
	"net/http"
	"strings"

	"familyfinance/api"
	"familyfinance/config"
	_ "familyfinance/docs"
	"familyfinance/middleware"
	"familyfinance/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由，alerter 为 nil 时不发送超支提醒
func SetupRouter(cfg *config.Config, alerter *service.BudgetAlerter) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(CORSMiddleware(cfg.Server.CORSOrigins))

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus 指标
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	v := r.Group("/api")
	{
		expenseHandler := api.NewExpenseHandler(alerter)
		expenses := v.Group("/expenses")
		{
			expenses.GET("", expenseHandler.List)
			expenses.POST("", expenseHandler.Create)
			expenses.GET("/export", expenseHandler.Export)
			expenses.GET("/:id", expenseHandler.Get)
			expenses.PUT("/:id", expenseHandler.Update)
			expenses.DELETE("/:id", expenseHandler.Delete)
		}
		v.GET("/statistics/summary", expenseHandler.Summary)

		budgetHandler := api.NewBudgetHandler()
		budgetCategoryHandler := api.NewBudgetCategoryHandler()
		budgets := v.Group("/budgets")
		{
			budgets.GET("", budgetHandler.List)
			budgets.POST("", budgetHandler.Create)
			// 全量重算开销较大，按 IP 限流
			budgets.POST("/sync-expenses",
				middleware.RateLimit(cfg.Budget.SyncRateLimit, cfg.Budget.SyncRateBurst),
				budgetHandler.Sync)
			budgets.GET("/:id", budgetHandler.Get)
			budgets.PUT("/:id", budgetHandler.Update)
			budgets.DELETE("/:id", budgetHandler.Delete)
			budgets.GET("/:id/export", budgetHandler.Export)
			budgets.GET("/:id/categories", budgetCategoryHandler.List)
			budgets.POST("/:id/categories", budgetCategoryHandler.Create)
		}
		v.PUT("/budget-categories/:id", budgetCategoryHandler.Update)
		v.DELETE("/budget-categories/:id", budgetCategoryHandler.Delete)

		memberHandler := api.NewFamilyMemberHandler()
		members := v.Group("/family-members")
		{
			members.GET("", memberHandler.List)
			members.POST("", memberHandler.Create)
			members.GET("/:id", memberHandler.Get)
			members.PUT("/:id", memberHandler.Update)
			members.DELETE("/:id", memberHandler.Delete)
		}

		walletHandler := api.NewWalletHandler()
		wallets := v.Group("/wallets")
		{
			wallets.GET("", walletHandler.List)
			wallets.POST("", walletHandler.Create)
			wallets.GET("/:id", walletHandler.Get)
			wallets.PUT("/:id", walletHandler.Update)
			wallets.DELETE("/:id", walletHandler.Delete)
		}

		incomeHandler := api.NewIncomeHandler()
		incomes := v.Group("/incomes")
		{
			incomes.GET("", incomeHandler.List)
			incomes.POST("", incomeHandler.Create)
			incomes.GET("/:id", incomeHandler.Get)
			incomes.PUT("/:id", incomeHandler.Update)
			incomes.DELETE("/:id", incomeHandler.Delete)
		}

		categoryHandler := api.NewCategoryHandler()
		categories := v.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.POST("", categoryHandler.Create)
			categories.PUT("/:id", categoryHandler.Update)
			categories.DELETE("/:id", categoryHandler.Delete)
		}
	}

	return r
}

// CORSMiddleware CORS 跨域中间件，origins 为空或包含 * 时允许任意来源
func CORSMiddleware(origins []string) gin.HandlerFunc {
	allowAll := len(origins) == 0
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(o, "/")] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && allowed[origin]:
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
