package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/cemcalis/chiptunnig/internal/auth/domain"
	ledgerdomain "github.com/cemcalis/chiptunnig/internal/ledger/domain"
	"github.com/gin-gonic/gin"
)

type ResolveRegistrationRequest struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}

type UpdateUserRequest struct {
	Name        *string `json:"name"`
	CompanyName *string `json:"company_name"`
	Phone       *string `json:"phone"`
	Role        *string `json:"role"`
}

type AdjustCreditsRequest struct {
	Action string `json:"action"`
	Amount int64  `json:"amount"`
}

// ListDealers returns dealer accounts filtered by registration status.
// Without a status filter it lists every dealer.
func (s *Server) ListDealers(c *gin.Context) {
	status := strings.TrimSpace(c.Query("status"))
	dealers, err := s.authsvc.ListDealersByStatus(c.Request.Context(), status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dealers)
}

func (s *Server) ResolveRegistration(c *gin.Context) {
	userID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req ResolveRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	user, err := s.authsvc.ResolveRegistration(c.Request.Context(), userID, authdomain.ResolveRegistrationRequest{
		Decision: req.Decision,
		Reason:   req.Reason,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) UpdateUser(c *gin.Context) {
	userID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	user, err := s.authsvc.UpdateUser(c.Request.Context(), userID, authdomain.UpdateUserRequest{
		Name:        req.Name,
		CompanyName: req.CompanyName,
		Phone:       req.Phone,
		Role:        req.Role,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) DeleteUser(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	userID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	if err := s.authsvc.DeleteUser(c.Request.Context(), actor.ID, userID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) AdjustCredits(c *gin.Context) {
	userID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req AdjustCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.ledgerSvc.AdjustCredits(c.Request.Context(), userID, ledgerdomain.AdjustRequest{
		Action: req.Action,
		Amount: req.Amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) UserCredits(c *gin.Context) {
	userID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	statement, err := s.ledgerSvc.Statement(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, statement)
}
