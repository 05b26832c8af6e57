package main

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// fail writes the error body shape the whole API uses.
func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
