package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library/internal/apperr"
	"library/internal/book"
	"library/internal/loan"
)

// Handler exposes the book and loan services over HTTP.
type Handler struct {
	books *book.Service
	loans *loan.Service
}

// New creates a handler.
func New(books *book.Service, loans *loan.Service) *Handler {
	return &Handler{books: books, loans: loans}
}

// Register mounts all resource routes on the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/books", h.listBooks)
	r.GET("/books/:id", h.getBook)
	r.POST("/books", h.createBook)
	r.PATCH("/books/:id", h.patchBookStatus)
	r.PUT("/books/:id", h.putBook)
	r.DELETE("/books/:id", h.deleteBook)

	r.GET("/loans", h.listLoans)
	r.GET("/loans/:id", h.getLoan)
	r.POST("/loans", h.createLoan)
	r.PATCH("/loans/:id", h.patchLoanStatus)
	r.PUT("/loans/:id", h.putLoan)
	r.DELETE("/loans/:id", h.deleteLoan)
	r.PUT("/loans/:id/return", h.returnLoan)
}

type bookRequest struct {
	Title  string `json:"title" binding:"required"`
	Author string `json:"author" binding:"required"`
}

type bookStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type loanRequest struct {
	BookID    string `json:"bookId" binding:"required"`
	StudentID string `json:"studentId" binding:"required"`
}

type loanStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type loanReturnResponse struct {
	Message string    `json:"message"`
	Loan    loan.Loan `json:"loan"`
}

// pageResponse is the list envelope shared by both resources.
type pageResponse struct {
	Content any `json:"content"`
	Page    int `json:"page"`
	Size    int `json:"size"`
	Total   int `json:"total"`
}

func pageParams(c *gin.Context) (page, size int) {
	page, size = 0, 20
	if v := c.Query("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			page = parsed
		}
	}
	if v := c.Query("size"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			size = parsed
		}
	}
	return page, size
}

func (h *Handler) listBooks(c *gin.Context) {
	page, size := pageParams(c)
	books, total, err := h.books.List(c.Request.Context(), size, page*size)
	if err != nil {
		writeError(c, err)
		return
	}
	if books == nil {
		books = []book.Book{}
	}
	c.JSON(http.StatusOK, pageResponse{Content: books, Page: page, Size: size, Total: total})
}

func (h *Handler) getBook(c *gin.Context) {
	b, err := h.books.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) createBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.Validation("%s", err.Error()))
		return
	}
	b, err := h.books.Create(c.Request.Context(), req.Title, req.Author)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Location", "/books/"+b.ID)
	c.Status(http.StatusCreated)
}

func (h *Handler) patchBookStatus(c *gin.Context) {
	var req bookStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.Validation("%s", err.Error()))
		return
	}
	status, err := book.ParseStatus(req.Status)
	if err != nil {
		writeError(c, apperr.Validation("%s", err.Error()))
		return
	}
	if err := h.books.UpdateStatus(c.Request.Context(), c.Param("id"), status); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) putBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.Validation("%s", err.Error()))
		return
	}
	if err := h.books.Update(c.Request.Context(), c.Param("id"), req.Title, req.Author); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteBook(c *gin.Context) {
	if err := h.books.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listLoans(c *gin.Context) {
	page, size := pageParams(c)
	loans, total, err := h.loans.List(c.Request.Context(), size, page*size)
	if err != nil {
		writeError(c, err)
		return
	}
	if loans == nil {
		loans = []loan.Loan{}
	}
	c.JSON(http.StatusOK, pageResponse{Content: loans, Page: page, Size: size, Total: total})
}

func (h *Handler) getLoan(c *gin.Context) {
	ln, err := h.loans.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ln)
}

func (h *Handler) createLoan(c *gin.Context) {
	var req loanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.Validation("%s", err.Error()))
		return
	}
	ln, err := h.loans.Create(c.Request.Context(), req.BookID, req.StudentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Location", "/loans/"+ln.ID)
	c.Status(http.StatusCreated)
}

func (h *Handler) patchLoanStatus(c *gin.Context) {
	var req loanStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.Validation("%s", err.Error()))
		return
	}
	if err := h.loans.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) putLoan(c *gin.Context) {
	var req loanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.Validation("%s", err.Error()))
		return
	}
	if err := h.loans.Update(c.Request.Context(), c.Param("id"), req.BookID, req.StudentID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteLoan(c *gin.Context) {
	if err := h.loans.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) returnLoan(c *gin.Context) {
	ln, message, err := h.loans.Return(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, loanReturnResponse{Message: message, Loan: ln})
}
