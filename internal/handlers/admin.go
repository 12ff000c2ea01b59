package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type FlagURLRequest struct {
	Flagged bool   `json:"flagged"`
	Reason  string `json:"reason,omitempty"`
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *Handler) AdminListURLs(c *gin.Context) {
	urls, err := h.adminService.ListAllURLs(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"urls": urls})
}

func (h *Handler) AdminListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// AdminFlagURL manually flags or clears a URL, overriding the classifier.
func (h *Handler) AdminFlagURL(c *gin.Context) {
	admin := h.currentUser(c)

	urlID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid URL id"})
		return
	}

	var req FlagURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.adminService.SetURLFlag(
		c.Request.Context(), admin.ID, uint(urlID), req.Flagged, req.Reason, c.ClientIP())
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.invalidateCache(c.Request.Context(), updated.ShortCode)

	c.JSON(http.StatusOK, gin.H{
		"short_code":  updated.ShortCode,
		"flagged":     updated.Flagged,
		"flag_reason": updated.FlagReason,
	})
}

func (h *Handler) AdminDeleteURL(c *gin.Context) {
	admin := h.currentUser(c)

	urlID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid URL id"})
		return
	}

	code, err := h.adminService.DeleteAnyURL(c.Request.Context(), admin.ID, uint(urlID), c.ClientIP())
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.invalidateCache(c.Request.Context(), code)

	c.JSON(http.StatusOK, gin.H{"message": "URL deleted"})
}

func (h *Handler) AdminSetUserRole(c *gin.Context) {
	admin := h.currentUser(c)

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.adminService.SetUserRole(c.Request.Context(), admin.ID, uint(userID), req.Role, c.ClientIP()); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role updated"})
}

func (h *Handler) AdminDeleteUser(c *gin.Context) {
	admin := h.currentUser(c)

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if admin.ID == uint(userID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account here, use the account endpoint"})
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), admin.ID, uint(userID), c.ClientIP()); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
