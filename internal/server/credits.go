package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetCredits returns the dealer's balance, recent ledger entries and
// any bank transfers still waiting on a decision.
func (s *Server) GetCredits(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	statement, err := s.ledgerSvc.Statement(c.Request.Context(), user.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	pending, err := s.paymentSvc.ListPendingForUser(c.Request.Context(), user.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"balance":          statement.Balance,
		"transactions":     statement.Transactions,
		"pending_payments": pending,
	})
}

// ListAllTransactions returns the most recent ledger entries across
// every account, newest first, with dealer identity attached.
func (s *Server) ListAllTransactions(c *gin.Context) {
	entries, err := s.ledgerSvc.ListAll(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
