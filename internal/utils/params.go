package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// IDParam parses a numeric route parameter such as :job_id or :application_id.
func IDParam(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, errors.New("Missing " + name)
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil {
		return 0, errors.New("Invalid " + name)
	}

	return uint(id), nil
}

// PageParams parses ?page and ?per_page with sane bounds.
func PageParams(ctx *gin.Context) (page int, perPage int) {
	page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	perPage, _ = strconv.Atoi(ctx.DefaultQuery("per_page", "20"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	return page, perPage
}
