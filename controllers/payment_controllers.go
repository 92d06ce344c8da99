package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/middlewares"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/services"
)

type PaymentController struct {
	Payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{Payments: payments}
}

func (pc *PaymentController) List(c *gin.Context) {
	list, err := pc.Payments.List(c.Request.Context(), middlewares.ActorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create adds a fee for a student.
func (pc *PaymentController) Create(c *gin.Context) {
	var req struct {
		Title   string  `json:"title"`
		Amount  float64 `json:"amount"`
		DueDate string  `json:"dueDate"`
		Student string  `json:"student"`
	}
	if !bindJSON(c, &req) {
		return
	}
	due, err := parseDate("dueDate", req.DueDate)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	payment, err := pc.Payments.Create(c.Request.Context(), middlewares.ActorFrom(c), services.PaymentInput{
		Title:   req.Title,
		Amount:  req.Amount,
		DueDate: due,
		Student: req.Student,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (pc *PaymentController) Update(c *gin.Context) {
	var req struct {
		Status        models.PaymentStatus `json:"status"`
		PaidOn        *string              `json:"paidOn"`
		TransactionID string               `json:"transactionId"`
	}
	if !bindJSON(c, &req) {
		return
	}
	paidOn, err := parseOptionalDate("paidOn", req.PaidOn)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	payment, err := pc.Payments.UpdateStatus(c.Request.Context(), middlewares.ActorFrom(c), c.Param("id"), services.PaymentUpdate{
		Status:        req.Status,
		PaidOn:        paidOn,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// Pay settles the payment immediately.
func (pc *PaymentController) Pay(c *gin.Context) {
	payment, err := pc.Payments.Pay(c.Request.Context(), middlewares.ActorFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}
