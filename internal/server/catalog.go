package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	catalogdomain "github.com/brewhub/brewhub/internal/catalog/domain"
	"github.com/brewhub/brewhub/pkg/tenantctx"
)

func (s *Server) CreateCategory(c *gin.Context) {
	tenantID, _ := tenantctx.TenantID(c.Request.Context())

	var req catalogdomain.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	category, err := s.catalogSvc.CreateCategory(c.Request.Context(), tenantID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (s *Server) ListCategories(c *gin.Context) {
	tenantID, _ := tenantctx.TenantID(c.Request.Context())

	items, err := s.catalogSvc.ListCategories(c.Request.Context(), tenantID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": items})
}

func (s *Server) UpdateCategory(c *gin.Context) {
	tenantID, _ := tenantctx.TenantID(c.Request.Context())

	id, ok := parseSnowflakeParam(c, "id")
	if !ok {
		AbortWithError(c, catalogdomain.ErrCategoryNotFound)
		return
	}

	var req catalogdomain.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	category, err := s.catalogSvc.UpdateCategory(c.Request.Context(), tenantID, id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

func (s *Server) DeleteCategory(c *gin.Context) {
	tenantID, _ := tenantctx.TenantID(c.Request.Context())

	id, ok := parseSnowflakeParam(c, "id")
	if !ok {
		AbortWithError(c, catalogdomain.ErrCategoryNotFound)
		return
	}

	if err := s.catalogSvc.DeleteCategory(c.Request.Context(), tenantID, id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) CreateProduct(c *gin.Context) {
	tenantID, _ := tenantctx.TenantID(c.Request.Context())

	var req catalogdomain.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	product, err := s.catalogSvc.CreateProduct(c.Request.Context(), tenantID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (s *Server) GetProduct(c *gin.Context) {
	tenantID, _ := tenantctx.TenantID(c.Request.Context())

	id, ok := parseSnowflakeParam(c, "id")
	if !ok {
		AbortWithError(c, catalogdomain.ErrProductNotFound)
		return
	}

	product, err := s.catalogSvc.GetProduct(c.Request.Context(), tenantID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (s *Server) ListProducts(c *gin.Context) {
	tenantID, _ := tenantctx.TenantID(c.Request.Context())

	var categoryID *snowflake.ID
	if raw := strings.TrimSpace(c.Query("category_id")); raw != "" {
		parsed, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, catalogdomain.ErrCategoryNotFound)
			return
		}
		categoryID = &parsed
	}

	items, err := s.catalogSvc.ListProducts(c.Request.Context(), tenantID, categoryID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": items})
}

func (s *Server) UpdateProduct(c *gin.Context) {
	tenantID, _ := tenantctx.TenantID(c.Request.Context())

	id, ok := parseSnowflakeParam(c, "id")
	if !ok {
		AbortWithError(c, catalogdomain.ErrProductNotFound)
		return
	}

	var req catalogdomain.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	product, err := s.catalogSvc.UpdateProduct(c.Request.Context(), tenantID, id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (s *Server) DeleteProduct(c *gin.Context) {
	tenantID, _ := tenantctx.TenantID(c.Request.Context())

	id, ok := parseSnowflakeParam(c, "id")
	if !ok {
		AbortWithError(c, catalogdomain.ErrProductNotFound)
		return
	}

	if err := s.catalogSvc.DeleteProduct(c.Request.Context(), tenantID, id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseSnowflakeParam(c *gin.Context, key string) (snowflake.ID, bool) {
	raw := strings.TrimSpace(c.Param(key))
	if raw == "" {
		return 0, false
	}
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}
