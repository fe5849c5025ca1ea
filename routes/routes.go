package routes

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"hostel-backend/controllers"
	"hostel-backend/middleware"
	"hostel-backend/utils"
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

func reserveRateLimit() rate.Limit {
	raw := utils.EnvOrDefault("RESERVE_RATE_PER_SEC", "5")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return rate.Limit(5)
	}
	return rate.Limit(v)
}

// SetupRouter wires controllers into the HTTP surface the booking and
// dashboard frontends call.
func SetupRouter(bc *controllers.BookingController, rc *controllers.RoomController) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

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

	readCache := gocache.New(30*time.Second, time.Minute)

	api := r.Group("/api")
	{
		bookings := api.Group("/bookings", middleware.FlushOnWrite(readCache))
		{
			bookings.POST("", middleware.RateLimiter(reserveRateLimit(), 10), bc.CreateBooking)
			bookings.GET("/:id", bc.GetBooking)
			bookings.DELETE("/:id", bc.CancelBooking)
		}

		students := api.Group("/students")
		{
			students.GET("/:id/bookings", bc.GetStudentBookings)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("/:id", rc.GetRoom)
			rooms.GET("/:id/availability", middleware.CacheReads(readCache, 5*time.Second), rc.GetRoomAvailability)
		}

		hostels := api.Group("/hostels")
		{
			hostels.GET("/:id/rooms", middleware.CacheReads(readCache, 30*time.Second), rc.GetHostelRooms)
		}
	}

	return r
}
