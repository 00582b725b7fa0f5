package response

import "github.com/gin-gonic/gin"

// RespondJSON writes the standard envelope used by every booking and health
// handler. status is "success" or "error"; data carries the booking payload
// on success, errors carries validation or transition failure detail.
func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}
