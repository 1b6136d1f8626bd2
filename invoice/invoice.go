/*
Package invoice renders a weekly pay breakdown as a PDF invoice.

PURPOSE:
  Drivers invoice the DSP weekly. This package turns a computed
  pay.WeeklyPayBreakdown into a simple A4 document listing every pay
  component and the standard-pay total, suitable for sending as-is.
*/
package invoice

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"github.com/fleetpay/courier-engine/pay"
)

// Generate renders the breakdown as a PDF and returns the raw bytes.
func Generate(b pay.WeeklyPayBreakdown) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, "Weekly Pay Invoice")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Week %d, %d", b.WeekInfo.Week, b.WeekInfo.Year))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s to %s", b.WeekInfo.StartDate, b.WeekInfo.EndDate))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Days worked: %d", b.DaysWorked))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(120, 8, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, "Amount", "B", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)

	line(pdf, "Base pay", b.BasePay)
	if b.SixDayBonus != 0 {
		line(pdf, "Six-day bonus", b.SixDayBonus)
	}
	if b.SweepAdjustment != 0 {
		line(pdf, "Sweep adjustment", b.SweepAdjustment)
	}
	if b.MileagePayment != 0 {
		line(pdf, "Mileage", b.MileagePayment)
	}
	if b.VanDeduction != 0 {
		line(pdf, "Van hire", -b.VanDeduction)
	}
	if b.DepositPayment != 0 {
		line(pdf, "Van deposit", -b.DepositPayment)
	}
	if b.InvoicingCost != 0 {
		line(pdf, "Invoicing service", -b.InvoicingCost)
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	line(pdf, "Standard pay", b.StandardPay)

	if b.PerformanceBonus != nil {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 6, fmt.Sprintf(
			"Performance bonus of %s will be paid in week %d, %d.",
			pounds(*b.PerformanceBonus), b.BonusPaymentWeek.Week, b.BonusPaymentWeek.Year))
		pdf.Ln(6)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, fmt.Sprintf(
		"Standard pay due in week %d, %d.",
		b.StandardPaymentWeek.Week, b.StandardPaymentWeek.Year))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func line(pdf *gofpdf.Fpdf, label string, amount pay.Pence) {
	pdf.CellFormat(120, 8, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, pounds(amount), "", 1, "R", false, 0, "")
}

func pounds(p pay.Pence) string {
	if p < 0 {
		return fmt.Sprintf("-GBP %.2f", (-p).Pounds())
	}
	return fmt.Sprintf("GBP %.2f", p.Pounds())
}
