package v1

import (
	"net/http"

	"github.com/emlak-portal/dto"
	"github.com/emlak-portal/middleware"
	"github.com/emlak-portal/models"
	"github.com/emlak-portal/repositories"
	"github.com/emlak-portal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LeadController takes public submissions and serves the admin inbox
type LeadController struct {
	leads *services.LeadService
	log   *zap.Logger
}

func NewLeadController(leads *services.LeadService, log *zap.Logger) *LeadController {
	return &LeadController{leads: leads, log: log}
}

// RegisterRoutes registers lead routes
func (lc *LeadController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/contact", lc.SubmitContact)
	router.POST("/prospect-agents", lc.SubmitProspectAgent)
	router.POST("/prospect-customers", lc.SubmitProspectCustomer)

	admin := router.Group("/admin")
	admin.Use(middleware.RequireRole(models.RoleSiteAdmin))
	registerInbox(admin.Group("/contacts"), lc.leads.Contacts, lc.log)
	registerInbox(admin.Group("/prospect-agents"), lc.leads.Agents, lc.log)
	registerInbox(admin.Group("/prospect-customers"), lc.leads.Customers, lc.log)
}

func (lc *LeadController) SubmitContact(c *gin.Context) {
	var req dto.ContactFormRequest
	if !bindJSON(c, &req) {
		return
	}
	form, err := lc.leads.SubmitContact(c.Request.Context(), req)
	if err != nil {
		respondError(c, lc.log, err)
		return
	}
	respond(c, http.StatusCreated, form)
}

func (lc *LeadController) SubmitProspectAgent(c *gin.Context) {
	var req dto.ProspectAgentRequest
	if !bindJSON(c, &req) {
		return
	}
	prospect, err := lc.leads.SubmitProspectAgent(c.Request.Context(), req)
	if err != nil {
		respondError(c, lc.log, err)
		return
	}
	respond(c, http.StatusCreated, prospect)
}

func (lc *LeadController) SubmitProspectCustomer(c *gin.Context) {
	var req dto.ProspectCustomerRequest
	if !bindJSON(c, &req) {
		return
	}
	prospect, err := lc.leads.SubmitProspectCustomer(c.Request.Context(), req)
	if err != nil {
		respondError(c, lc.log, err)
		return
	}
	respond(c, http.StatusCreated, prospect)
}

// inbox serves the admin side of one lead table
type inbox[T repositories.LeadRow] struct {
	book *services.LeadBook[T]
	log  *zap.Logger
}

func registerInbox[T repositories.LeadRow](group *gin.RouterGroup, book *services.LeadBook[T], log *zap.Logger) {
	h := inbox[T]{book: book, log: log}
	group.GET("", h.list)
	group.GET("/:id", h.get)
	group.PATCH("/:id", h.setStatus)
	group.DELETE("/:id", h.delete)
}

func (h inbox[T]) list(c *gin.Context) {
	var q dto.LeadQuery
	if !bindQuery(c, &q) {
		return
	}
	res, err := h.book.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, res)
}

func (h inbox[T]) get(c *gin.Context) {
	row, err := h.book.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, row)
}

func (h inbox[T]) setStatus(c *gin.Context) {
	var req dto.StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.book.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, row)
}

func (h inbox[T]) delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.book.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id})
}
