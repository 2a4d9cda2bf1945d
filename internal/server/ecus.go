package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	ecudomain "github.com/cemcalis/chiptunnig/internal/ecu/domain"
	"github.com/gin-gonic/gin"
)

type CreateECURequest struct {
	BoschNumber string `json:"bosch_number"`
	OEMNumber   string `json:"oem_number"`
	Vehicle     string `json:"vehicle"`
	Price       int64  `json:"price"`
	Notes       string `json:"notes"`
}

type UpdateECURequest struct {
	BoschNumber *string `json:"bosch_number"`
	OEMNumber   *string `json:"oem_number"`
	Vehicle     *string `json:"vehicle"`
	Price       *int64  `json:"price"`
	Notes       *string `json:"notes"`
}

func (s *Server) SearchECUs(c *gin.Context) {
	results, err := s.ecuSvc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (s *Server) ListECUs(c *gin.Context) {
	ecus, err := s.ecuSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ecus)
}

func (s *Server) CreateECU(c *gin.Context) {
	var req CreateECURequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ecu, err := s.ecuSvc.Create(c.Request.Context(), ecudomain.CreateECURequest{
		BoschNumber: req.BoschNumber,
		OEMNumber:   req.OEMNumber,
		Vehicle:     req.Vehicle,
		Price:       req.Price,
		Notes:       req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ecu)
}

func (s *Server) UpdateECU(c *gin.Context) {
	ecuID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req UpdateECURequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ecu, err := s.ecuSvc.Update(c.Request.Context(), ecuID, ecudomain.UpdateECURequest{
		BoschNumber: req.BoschNumber,
		OEMNumber:   req.OEMNumber,
		Vehicle:     req.Vehicle,
		Price:       req.Price,
		Notes:       req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ecu)
}

func (s *Server) DeleteECU(c *gin.Context) {
	ecuID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	if err := s.ecuSvc.Delete(c.Request.Context(), ecuID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
