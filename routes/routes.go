package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Imanuelpalenewen/Final-Clinic/authentication"
	"github.com/Imanuelpalenewen/Final-Clinic/controllers"
	"github.com/Imanuelpalenewen/Final-Clinic/models"
)

func SetupRoutes() *gin.Engine {
	// creates a new Gin engine instance with default configurations
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:5174"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "Klinik Sentosa API is running",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", controllers.Login)
		auth.GET("/me", authentication.AuthMiddleware(), controllers.Me)
		auth.POST("/logout", authentication.AuthMiddleware(), controllers.Logout)
	}

	patients := api.Group("/patients")
	patients.Use(authentication.AuthMiddleware())
	{
		patients.GET("", controllers.GetAllPatients)
		patients.GET("/search", authentication.CheckRole(models.RoleAdmin, models.RoleDoctor), controllers.SearchPatients)
		patients.GET("/:id", controllers.GetPatientByID)
		patients.POST("", authentication.CheckRole(models.RoleAdmin), controllers.CreatePatient)
		patients.PUT("/:id", authentication.CheckRole(models.RoleAdmin), controllers.UpdatePatient)
		patients.DELETE("/:id", authentication.CheckRole(models.RoleAdmin), controllers.DeletePatient)
	}

	queue := api.Group("/queue")
	queue.Use(authentication.AuthMiddleware())
	{
		queue.GET("", controllers.GetAllQueue)
		queue.GET("/:id", controllers.GetQueueByID)
		queue.PUT("/:id/status", authentication.CheckRole(models.RoleAdmin), controllers.UpdateQueueStatus)
		queue.PUT("/:id/cancel", authentication.CheckRole(models.RoleAdmin), controllers.CancelQueue)
		queue.PUT("/:id/examine", authentication.CheckRole(models.RoleDoctor), controllers.DoctorSubmitExamination)
		queue.PUT("/:id/prescription/edit", authentication.CheckRole(models.RoleDoctor), controllers.EditPrescription)
		queue.PUT("/:id/process", authentication.CheckRole(models.RolePharmacist, models.RoleAdmin), controllers.PharmacyProcess)
	}

	medicines := api.Group("/medicines")
	medicines.Use(authentication.AuthMiddleware())
	{
		medicines.GET("", controllers.GetAllMedicines)
		medicines.GET("/:id", controllers.GetMedicineByID)
		medicines.POST("", authentication.CheckRole(models.RoleAdmin, models.RolePharmacist), controllers.CreateMedicine)
		medicines.PUT("/:id", authentication.CheckRole(models.RoleAdmin, models.RolePharmacist), controllers.UpdateMedicine)
		medicines.DELETE("/:id", authentication.CheckRole(models.RoleAdmin, models.RolePharmacist), controllers.DeleteMedicine)
	}

	transactions := api.Group("/transactions")
	transactions.Use(authentication.AuthMiddleware())
	{
		transactions.GET("", authentication.CheckRole(models.RoleAdmin, models.RoleOwner), controllers.GetAllTransactions)
		transactions.GET("/:id", authentication.CheckRole(models.RoleAdmin, models.RoleOwner), controllers.GetTransactionByID)
		transactions.GET("/:id/receipt", authentication.CheckRole(models.RoleAdmin, models.RoleOwner, models.RoleCashier), controllers.DownloadReceipt)
		transactions.POST("", authentication.CheckRole(models.RoleCashier, models.RoleAdmin), controllers.CreateTransaction)
	}

	reports := api.Group("/reports")
	reports.Use(authentication.AuthMiddleware(), authentication.CheckRole(models.RoleAdmin, models.RoleOwner))
	{
		reports.GET("/daily", controllers.GetDailyReport)
		reports.GET("/monthly", controllers.GetMonthlyReport)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Endpoint tidak ditemukan",
		})
	})

	return r
}
