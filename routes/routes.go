package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"dorm-backend/controllers"
	"dorm-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func SetupRouter(
	hc *controllers.HostelController,
	rc *controllers.RoomController,
	resc *controllers.ResidenceController,
	ac *controllers.AllocationController,
	bc *controllers.BookingController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		hostels := api.Group("/hostels")
		{
			hostels.GET("", hc.GetHostels)
			hostels.POST("", hc.CreateHostel)
			hostels.GET("/:id", hc.GetHostelByID)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", rc.GetRooms)
			rooms.POST("", rc.CreateRoom)
			rooms.GET("/:id", rc.GetRoomByID)
			rooms.PATCH("/:id/maintenance", rc.SetMaintenance)
		}

		residences := api.Group("/residences")
		{
			residences.GET("/:studentId", resc.GetResidence)
			residences.DELETE("/:studentId", resc.Vacate)
		}

		allocations := api.Group("/allocations")
		{
			allocations.POST("/on-campus", ac.AllocateOnCampus)
			allocations.POST("/off-campus", ac.AllocateOffCampus)
		}

		bookings := api.Group("/bookings")
		{
			bookings.GET("", bc.GetBookings)
			bookings.POST("", bc.SubmitBooking)
			bookings.GET("/:id", bc.GetBookingDetails)
			bookings.POST("/:id/decide", bc.DecideBooking)
		}

		settings := api.Group("/settings")
		{
			settings.GET("/campus", controllers.GetCampusSettings)
			settings.PUT("/campus", controllers.UpdateCampusSettings)
		}
	}

	return r
}
