package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	"github.com/yeremiapane/hostel-app/middlewares"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/services"
	"github.com/yeremiapane/hostel-app/utils"
)

type ReceiptController struct {
	Payments *services.PaymentService
}

func NewReceiptController(payments *services.PaymentService) *ReceiptController {
	return &ReceiptController{Payments: payments}
}

// Download renders a PDF receipt for a paid payment.
func (rc *ReceiptController) Download(c *gin.Context) {
	payment, owner, err := rc.Payments.Receipt(c.Request.Context(), middlewares.ActorFrom(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := renderReceipt(&buf, payment, owner); err != nil {
		respondServiceError(c, fmt.Errorf("render receipt %s: %w", payment.ID, err))
		return
	}

	utils.InfoLogger.Printf("Receipt generated for payment %s", payment.ID)
	filename := fmt.Sprintf("receipt-%s.pdf", payment.TransactionID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func renderReceipt(buf *bytes.Buffer, p *models.Payment, owner *models.User) error {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetTitle("Payment receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Hostel Payment Receipt", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, "Generated "+time.Now().Format("02 Jan 2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	paidOn := "-"
	if p.PaidOn != nil {
		paidOn = p.PaidOn.Format("02 Jan 2006 15:04")
	}
	rows := [][2]string{
		{"Transaction", p.TransactionID},
		{"Student", owner.Name},
		{"Room", owner.Room},
		{"Description", p.Title},
		{"Due date", p.DueDate.Format("02 Jan 2006")},
		{"Paid on", paidOn},
		{"Status", string(p.Status)},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(40, 8, row[0], "B", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, row[1], "B", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(40, 10, "Amount", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 10, "Rs. "+utils.FormatAmount(p.Amount), "", 1, "R", false, 0, "")

	return pdf.Output(buf)
}
