package attendance

import (
	"github.com/rohityadav0112/hrms-lite/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	attendances := r.Group("/attendance")
	{
		attendances.GET("", h.GetAll)

		attendances.POST("",
			middleware.RateLimitByIP(2, 10),
			h.Mark,
		)
	}
}
